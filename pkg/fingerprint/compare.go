package fingerprint

// Similarity weights per matched attribute. The device ID dominates because
// it already folds most stable hardware characteristics together.
const (
	weightDeviceID    = 40
	weightBrowserHash = 20
	weightResolution  = 10
	weightTimezone    = 10
	weightUserAgent   = 10
	weightPlatform    = 5
	weightCores       = 5

	totalWeight = weightDeviceID + weightBrowserHash + weightResolution +
		weightTimezone + weightUserAgent + weightPlatform + weightCores
)

// Compare returns a weighted similarity score between two fingerprints in
// the range 0..100. Comparing a fingerprint with itself yields 100, and the
// function is symmetric in its arguments.
func Compare(a, b Fingerprint) int {
	matched := 0

	if a.DeviceID == b.DeviceID {
		matched += weightDeviceID
	}
	if a.BrowserHash == b.BrowserHash {
		matched += weightBrowserHash
	}
	if a.ScreenResolution == b.ScreenResolution {
		matched += weightResolution
	}
	if a.Timezone == b.Timezone {
		matched += weightTimezone
	}
	if a.UserAgent == b.UserAgent {
		matched += weightUserAgent
	}
	if a.Platform == b.Platform {
		matched += weightPlatform
	}
	if a.HardwareConcurrency == b.HardwareConcurrency {
		matched += weightCores
	}

	return matched * 100 / totalWeight
}

// SameDeviceThreshold is the minimum Compare score at which two fingerprints
// are treated as the same physical device for binding decisions.
const SameDeviceThreshold = 70

// SameDevice reports whether two fingerprints likely belong to one device.
func SameDevice(a, b Fingerprint) bool {
	return Compare(a, b) >= SameDeviceThreshold
}
