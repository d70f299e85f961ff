package device

import "errors"

var (
	// ErrHistoryNotFound indicates no history record exists for the device.
	ErrHistoryNotFound = errors.New("device.history_not_found")

	// ErrTrustNotFound indicates no trust score exists for the device.
	ErrTrustNotFound = errors.New("device.trust_not_found")

	// ErrInvalidRecord indicates a record without a device id.
	ErrInvalidRecord = errors.New("device.invalid_record")
)
