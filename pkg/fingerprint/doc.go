// Package fingerprint derives stable device identifiers from client-reported
// device and browser characteristics.
//
// The raw component record is collected by an external client-side
// collaborator and passed in as-is; this package never gathers data itself.
// Two identifiers are derived per record: a device ID hashed over stable
// hardware attributes, and a browser hash over browser-specific attributes.
// Both hashes are deterministic: identical component records always yield
// identical identifiers.
//
// Geolocation is resolved through a pluggable GeoResolver oracle keyed by IP
// address. The bundled StubResolver answers private and loopback ranges
// locally and is suitable for tests and development.
//
// Example:
//
//	gen := fingerprint.NewGenerator()
//	fp, err := gen.Generate(ctx, components, "203.0.113.7")
//	if err != nil {
//	    // malformed component record, fail closed
//	}
//	score := fingerprint.Compare(fp, previous) // 0..100 similarity
package fingerprint
