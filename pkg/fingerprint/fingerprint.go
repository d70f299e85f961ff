package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Components is the raw device/browser characteristic record reported by the
// client-side collector. Stable attributes feed the device ID; browser
// attributes feed the browser hash.
type Components struct {
	// Stable hardware/environment attributes.
	Platform            string   `json:"platform"`
	ScreenWidth         int      `json:"screen_width"`
	ScreenHeight        int      `json:"screen_height"`
	ColorDepth          int      `json:"color_depth"`
	HardwareConcurrency int      `json:"hardware_concurrency"`
	DeviceMemoryGB      float64  `json:"device_memory_gb,omitempty"`
	Timezone            string   `json:"timezone"`
	CanvasHash          string   `json:"canvas_hash,omitempty"`
	AudioHash           string   `json:"audio_hash,omitempty"`

	// Browser-specific attributes.
	UserAgent      string   `json:"user_agent"`
	Language       string   `json:"language,omitempty"`
	Plugins        []string `json:"plugins,omitempty"`
	MimeTypes      []string `json:"mime_types,omitempty"`
	Fonts          []string `json:"fonts,omitempty"`
	CookiesEnabled bool     `json:"cookies_enabled"`
	DoNotTrack     bool     `json:"do_not_track"`
}

// Validate checks that every required attribute is present.
// The engine never fabricates a fingerprint from partial data.
func (c Components) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Platform) == "" {
		missing = append(missing, "platform")
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		missing = append(missing, "screen resolution")
	}
	if c.ColorDepth <= 0 {
		missing = append(missing, "color depth")
	}
	if c.HardwareConcurrency <= 0 {
		missing = append(missing, "hardware concurrency")
	}
	if strings.TrimSpace(c.Timezone) == "" {
		missing = append(missing, "timezone")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		missing = append(missing, "user agent")
	}

	if len(missing) > 0 {
		return errors.Join(ErrInvalidComponents, fmt.Errorf("missing required components: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// Location is a coarse geolocation derived from an IP address.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// String returns "City, Country" with empty parts omitted.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	default:
		return "Unknown"
	}
}

// Fingerprint is the immutable identifier value produced per fingerprinting
// call. It is never mutated after creation.
type Fingerprint struct {
	DeviceID            string   `json:"device_id"`
	BrowserHash         string   `json:"browser_hash"`
	IPAddress           string   `json:"ip_address"`
	Location            Location `json:"location"`
	ScreenResolution    string   `json:"screen_resolution"`
	Timezone            string   `json:"timezone"`
	UserAgent           string   `json:"user_agent"`
	Platform            string   `json:"platform"`
	HardwareConcurrency int      `json:"hardware_concurrency"`
}

// Generator derives fingerprints from component records.
type Generator struct {
	geo GeoResolver
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeoResolver sets a custom geolocation oracle.
func WithGeoResolver(geo GeoResolver) GeneratorOption {
	return func(g *Generator) {
		if geo != nil {
			g.geo = geo
		}
	}
}

// NewGenerator creates a Generator, defaulting to the stub geolocation oracle.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{geo: NewStubResolver()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates the component record and derives a Fingerprint.
// The derived device ID and browser hash depend only on the record contents:
// no timestamps or randomness are mixed in, so identical records always
// produce identical identifiers.
func (g *Generator) Generate(ctx context.Context, c Components, ipAddress string) (Fingerprint, error) {
	if err := c.Validate(); err != nil {
		return Fingerprint{}, err
	}

	ip := net.ParseIP(strings.TrimSpace(ipAddress))
	if ip == nil {
		return Fingerprint{}, errors.Join(ErrInvalidIP, fmt.Errorf("cannot parse %q", ipAddress))
	}

	location, err := g.geo.Resolve(ctx, ip.String())
	if err != nil {
		return Fingerprint{}, errors.Join(ErrGeoLookupFailed, err)
	}

	return Fingerprint{
		DeviceID:            hashComponents(c.stableAttributes()),
		BrowserHash:         hashComponents(c.browserAttributes()),
		IPAddress:           ip.String(),
		Location:            location,
		ScreenResolution:    fmt.Sprintf("%dx%d", c.ScreenWidth, c.ScreenHeight),
		Timezone:            c.Timezone,
		UserAgent:           c.UserAgent,
		Platform:            c.Platform,
		HardwareConcurrency: c.HardwareConcurrency,
	}, nil
}

// stableAttributes returns the ordered attribute list feeding the device ID.
// The order is part of the derivation contract and must not change.
func (c Components) stableAttributes() []string {
	return []string{
		c.Platform,
		strconv.Itoa(c.ScreenWidth),
		strconv.Itoa(c.ScreenHeight),
		strconv.Itoa(c.ColorDepth),
		strconv.Itoa(c.HardwareConcurrency),
		strconv.FormatFloat(c.DeviceMemoryGB, 'f', -1, 64),
		c.Timezone,
		c.CanvasHash,
		c.AudioHash,
	}
}

// browserAttributes returns the ordered attribute list feeding the browser hash.
func (c Components) browserAttributes() []string {
	return []string{
		c.UserAgent,
		c.Language,
		strings.Join(c.Plugins, ","),
		strings.Join(c.MimeTypes, ","),
		strings.Join(c.Fonts, ","),
		strconv.FormatBool(c.CookiesEnabled),
		strconv.FormatBool(c.DoNotTrack),
	}
}

// hashComponents hashes the ordered attribute list into a 32-character hex id.
func hashComponents(attrs []string) string {
	combined := strings.Join(attrs, "|")
	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:16])
}
