package fingerprint

import "errors"

var (
	// ErrInvalidComponents indicates a malformed or incomplete component record.
	ErrInvalidComponents = errors.New("fingerprint.invalid_components")

	// ErrInvalidIP indicates the declared IP address could not be parsed.
	ErrInvalidIP = errors.New("fingerprint.invalid_ip")

	// ErrGeoLookupFailed indicates the geolocation oracle returned an error.
	ErrGeoLookupFailed = errors.New("fingerprint.geo_lookup_failed")
)
