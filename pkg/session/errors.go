package session

import "errors"

var (
	ErrSessionNotFound       = errors.New("session.not_found")
	ErrSessionNotActive      = errors.New("session.not_active")
	ErrInvalidUserID         = errors.New("session.invalid_user_id")
	ErrInvalidCapabilities   = errors.New("session.invalid_capabilities")
	ErrInvalidSession        = errors.New("session.invalid_session")
	ErrStoreTimeout          = errors.New("session.store_timeout")
	ErrStoreFailed           = errors.New("session.store_failed")
	ErrCleanupAlreadyRunning = errors.New("session.cleanup_already_running")
	ErrCleanupDisabled       = errors.New("session.cleanup_disabled")
)
