package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/trustkit/pkg/capability"
	"github.com/dmitrymomot/trustkit/pkg/device"
	"github.com/dmitrymomot/trustkit/pkg/fingerprint"
	"github.com/dmitrymomot/trustkit/pkg/risk"
)

// Denial reasons reported by ValidationResult.
const (
	ReasonNotFound         = "session_not_found"
	ReasonExpired          = "session_expired"
	ReasonRevoked          = "session_revoked"
	ReasonCapabilityDenied = "capability_denied"
	ReasonStoreUnavailable = "store_unavailable"
)

// ValidationResult is the outcome of a validation. A denial is a policy
// decision carried in Reason, not an error.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// CapabilityCheck asks whether a session may perform an action. Resource is
// recorded on denial for audit. Context keys are evaluated by the manager's
// registered predicates; an unknown key denies.
type CapabilityCheck struct {
	Action   string         `json:"action"`
	Resource string         `json:"resource,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// CreateParams carries the inputs for CreateSession.
type CreateParams struct {
	UserID         string
	InternalUserID string
	AuthMethod     string
	Fingerprint    fingerprint.Fingerprint
	Capabilities   []string

	// Duration overrides Config.DefaultDuration when positive. It is
	// still capped by Config.MaxLifetime.
	Duration time.Duration
}

// Metrics is a point-in-time summary across all stored sessions.
type Metrics struct {
	Total                int `json:"total"`
	Active               int `json:"active"`
	Expired              int `json:"expired"`
	Revoked              int `json:"revoked"`
	Devices              int `json:"devices"`
	SuspiciousActivities int `json:"suspicious_activities"`
}

// Manager creates, validates, and revokes sessions. All mutations are
// serialized per session, and the create path is serialized per user so the
// concurrency cap holds under parallel logins.
type Manager struct {
	store      Store
	cfg        Config
	logger     *slog.Logger
	assessor   *risk.Assessor
	devices    *device.Tracker
	clock      func() time.Time
	predicates map[string]Predicate

	userLocks    keyedMutexes
	sessionLocks keyedMutexes

	cleanupMu   sync.Mutex
	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// New creates a Manager. Without options it uses an in-memory store,
// DefaultConfig, and the default slog logger.
func New(opts ...Option) *Manager {
	m := &Manager{
		cfg:        DefaultConfig(),
		logger:     slog.Default(),
		clock:      time.Now,
		predicates: defaultPredicates(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	return m
}

// CreateSession creates an active session for the user. When the user is at
// the concurrency cap, the active session closest to expiry is evicted
// first. With device binding enabled, the fingerprint is recorded against
// device history and the session is flagged when the device assesses as low
// trust; a low-trust device delays nothing and blocks nothing, it only
// leaves an audit trail.
func (m *Manager) CreateSession(ctx context.Context, params CreateParams) (*Session, error) {
	if params.UserID == "" {
		return nil, ErrInvalidUserID
	}
	caps, err := capability.NewSet(params.Capabilities...)
	if err != nil {
		return nil, errors.Join(ErrInvalidCapabilities, err)
	}

	mu := m.userLocks.get(params.UserID)
	mu.Lock()
	defer mu.Unlock()

	now := m.clock()
	if err := m.evictOverflow(ctx, params.UserID, now); err != nil {
		return nil, err
	}

	dur := params.Duration
	if dur <= 0 {
		dur = m.cfg.DefaultDuration
	}
	if m.cfg.MaxLifetime > 0 && dur > m.cfg.MaxLifetime {
		dur = m.cfg.MaxLifetime
	}

	s := &Session{
		ID:             uuid.New(),
		UserID:         params.UserID,
		InternalUserID: params.InternalUserID,
		DeviceID:       params.Fingerprint.DeviceID,
		AuthMethod:     params.AuthMethod,
		Capabilities:   caps,
		Status:         StatusActive,
		CreatedAt:      now,
		ExpiresAt:      now.Add(dur),
	}
	s.recordActivity(ActivitySessionCreated, true, params.AuthMethod, now)

	if m.cfg.RequireDeviceBinding && s.DeviceID != "" {
		m.bindDevice(ctx, s, params.Fingerprint, now)
	}

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.Create(sctx, s); err != nil {
		return nil, m.storeErr(err)
	}

	if m.devices != nil && s.DeviceID != "" {
		if _, err := m.devices.AdjustTrust(ctx, s.DeviceID, device.EventSessionCreated); err != nil {
			m.logger.WarnContext(ctx, "trust adjustment failed",
				slog.String("device_id", s.DeviceID), slog.Any("error", err))
		}
	}

	m.logger.InfoContext(ctx, "session created",
		slog.String("session_id", s.ID.String()),
		slog.String("user_id", s.UserID),
		slog.String("device_id", s.DeviceID),
		slog.Time("expires_at", s.ExpiresAt),
	)
	return s.clone(), nil
}

// bindDevice records the sighting and flags the session when the device
// assesses as low trust. Device subsystem failures degrade to an
// unassessed session rather than blocking login.
func (m *Manager) bindDevice(ctx context.Context, s *Session, fp fingerprint.Fingerprint, now time.Time) {
	var history *device.History
	if m.devices != nil {
		h, err := m.devices.RecordSighting(ctx, fp)
		if err != nil {
			m.logger.WarnContext(ctx, "device sighting failed",
				slog.String("device_id", fp.DeviceID), slog.Any("error", err))
		} else {
			history = h
		}
	}

	if m.assessor == nil {
		return
	}
	assessment := m.assessor.Assess(fp, history)
	if assessment.TrustLevel != risk.LevelLow {
		return
	}

	s.recordActivity(ActivityDeviceFlagged, false, strings.Join(assessment.RiskFactors, "; "), now)
	m.logger.WarnContext(ctx, "low trust device bound to session",
		slog.String("session_id", s.ID.String()),
		slog.String("device_id", fp.DeviceID),
		slog.Int("risk_score", assessment.Score),
		slog.Any("risk_factors", assessment.RiskFactors),
	)
}

// evictOverflow expires the user's active sessions closest to expiry until
// the count drops below the cap. Caller holds the user lock.
func (m *Manager) evictOverflow(ctx context.Context, userID string, now time.Time) error {
	if m.cfg.MaxConcurrentSessions <= 0 {
		return nil
	}

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	sessions, err := m.store.ListByUser(sctx, userID)
	if err != nil {
		return m.storeErr(err)
	}

	active := sessions[:0]
	for _, s := range sessions {
		if s.IsActive(now) {
			active = append(active, s)
		}
	}
	if len(active) < m.cfg.MaxConcurrentSessions {
		return nil
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].ExpiresAt.Before(active[j].ExpiresAt)
	})

	for len(active) >= m.cfg.MaxConcurrentSessions {
		victim := active[0]
		active = active[1:]

		victim.transition(StatusExpired)
		victim.recordActivity(ActivitySessionEvicted, true, "concurrent session limit", now)

		uctx, cancel := m.storeCtx(ctx)
		err := m.store.Update(uctx, victim)
		cancel()
		if err != nil {
			return m.storeErr(err)
		}
		m.logger.InfoContext(ctx, "session evicted",
			slog.String("session_id", victim.ID.String()),
			slog.String("user_id", userID),
		)
	}
	return nil
}

// Validate checks that the session exists, is active, and has not expired.
func (m *Manager) Validate(ctx context.Context, id uuid.UUID) ValidationResult {
	return m.ValidateWithCapabilities(ctx, id, nil)
}

// ValidateWithCapabilities validates the session and, when check is
// non-nil, evaluates it against the session's capability set and context
// predicates. On success the expiry slides forward when configured, never
// past CreatedAt plus MaxLifetime. A store that fails or times out denies.
func (m *Manager) ValidateWithCapabilities(ctx context.Context, id uuid.UUID, check *CapabilityCheck) ValidationResult {
	mu := m.sessionLocks.get(id.String())
	mu.Lock()
	defer mu.Unlock()

	s, res := m.load(ctx, id)
	if s == nil {
		return res
	}

	now := m.clock()
	switch {
	case s.Status == StatusRevoked:
		return ValidationResult{Reason: ReasonRevoked}
	case s.Status == StatusExpired:
		return ValidationResult{Reason: ReasonExpired}
	case s.IsExpired(now):
		s.transition(StatusExpired)
		s.recordActivity(ActivitySessionExpired, true, "", now)
		m.persist(ctx, s)
		return ValidationResult{Reason: ReasonExpired}
	}

	if check != nil && !m.evaluateCheck(s, *check, now) {
		s.recordActivity(ActivityCapabilityDenied, false, denialDetail(*check), now)
		m.persist(ctx, s)
		m.logger.WarnContext(ctx, "capability denied",
			slog.String("session_id", s.ID.String()),
			slog.String("user_id", s.UserID),
			slog.String("action", check.Action),
			slog.String("resource", check.Resource),
		)
		return ValidationResult{Reason: ReasonCapabilityDenied}
	}

	s.recordActivity(ActivitySessionValidated, true, "", now)
	if m.cfg.ExtendOnActivity {
		m.extend(s, now)
	}

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.Update(sctx, s); err != nil {
		m.logger.ErrorContext(ctx, "session update failed",
			slog.String("session_id", s.ID.String()), slog.Any("error", err))
		return ValidationResult{Reason: ReasonStoreUnavailable}
	}
	return ValidationResult{Valid: true}
}

// extend slides the expiry forward to now plus the default duration, capped
// at CreatedAt plus MaxLifetime. It never shortens the current expiry.
func (m *Manager) extend(s *Session, now time.Time) {
	next := now.Add(m.cfg.DefaultDuration)
	if m.cfg.MaxLifetime > 0 {
		if limit := s.CreatedAt.Add(m.cfg.MaxLifetime); next.After(limit) {
			next = limit
		}
	}
	if next.After(s.ExpiresAt) {
		s.ExpiresAt = next
	}
}

// CheckCapability reports whether the session currently permits the check.
// Any failure, including store errors and unknown context keys, denies.
func (m *Manager) CheckCapability(ctx context.Context, id uuid.UUID, check CapabilityCheck) bool {
	return m.ValidateWithCapabilities(ctx, id, &check).Valid
}

// evaluateCheck applies capability membership first, then every context key
// through its registered predicate. Unknown keys fail closed.
func (m *Manager) evaluateCheck(s *Session, check CapabilityCheck, now time.Time) bool {
	if !s.Capabilities.Allows(check.Action) {
		return false
	}
	for key, value := range check.Context {
		pred, ok := m.predicates[key]
		if !ok || !pred(s, value, now) {
			return false
		}
	}
	return true
}

// UpdateCapabilities replaces the session's capability set. Only active,
// unexpired sessions can be updated.
func (m *Manager) UpdateCapabilities(ctx context.Context, id uuid.UUID, tokens []string) error {
	caps, err := capability.NewSet(tokens...)
	if err != nil {
		return errors.Join(ErrInvalidCapabilities, err)
	}

	mu := m.sessionLocks.get(id.String())
	mu.Lock()
	defer mu.Unlock()

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	s, err := m.store.Get(sctx, id)
	if err != nil {
		return m.storeErr(err)
	}

	now := m.clock()
	if !s.IsActive(now) {
		return ErrSessionNotActive
	}

	s.Capabilities = caps
	s.recordActivity(ActivityCapabilitiesUpdated, true, strings.Join(caps.Tokens(), " "), now)

	uctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.Update(uctx, s); err != nil {
		return m.storeErr(err)
	}

	m.logger.InfoContext(ctx, "session capabilities updated",
		slog.String("session_id", s.ID.String()),
		slog.String("user_id", s.UserID),
		slog.Any("capabilities", caps.Tokens()),
	)
	return nil
}

// Revoke terminates the session. Revoking an already terminated session is
// a no-op, and a revoked session never validates again.
func (m *Manager) Revoke(ctx context.Context, id uuid.UUID) error {
	mu := m.sessionLocks.get(id.String())
	mu.Lock()
	defer mu.Unlock()
	return m.revokeLocked(ctx, id)
}

func (m *Manager) revokeLocked(ctx context.Context, id uuid.UUID) error {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	s, err := m.store.Get(sctx, id)
	if err != nil {
		return m.storeErr(err)
	}
	if s.Status != StatusActive {
		return nil
	}

	now := m.clock()
	s.transition(StatusRevoked)
	s.recordActivity(ActivitySessionRevoked, true, "", now)

	uctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.Update(uctx, s); err != nil {
		return m.storeErr(err)
	}

	m.logger.InfoContext(ctx, "session revoked",
		slog.String("session_id", s.ID.String()),
		slog.String("user_id", s.UserID),
	)
	return nil
}

// RevokeAllUserSessions revokes every active session of the user and
// returns how many were revoked.
func (m *Manager) RevokeAllUserSessions(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}

	mu := m.userLocks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	sctx, cancel := m.storeCtx(ctx)
	sessions, err := m.store.ListByUser(sctx, userID)
	cancel()
	if err != nil {
		return 0, m.storeErr(err)
	}

	revoked := 0
	var errs []error
	for _, s := range sessions {
		if s.Status != StatusActive {
			continue
		}
		smu := m.sessionLocks.get(s.ID.String())
		smu.Lock()
		err := m.revokeLocked(ctx, s.ID)
		smu.Unlock()
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		revoked++
	}
	return revoked, errors.Join(errs...)
}

// GetSession returns a copy of the stored session regardless of status.
func (m *Manager) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	s, err := m.store.Get(sctx, id)
	if err != nil {
		return nil, m.storeErr(err)
	}
	return s, nil
}

// ActiveSessions returns the user's currently active sessions, newest
// first.
func (m *Manager) ActiveSessions(ctx context.Context, userID string) ([]*Session, error) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	sessions, err := m.store.ListByUser(sctx, userID)
	if err != nil {
		return nil, m.storeErr(err)
	}

	now := m.clock()
	active := sessions[:0]
	for _, s := range sessions {
		if s.IsActive(now) {
			active = append(active, s)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

// Metrics summarizes all stored sessions. Sessions past expiry count as
// expired even when the status flip has not been persisted yet.
func (m *Manager) Metrics(ctx context.Context) (Metrics, error) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	sessions, err := m.store.ListAll(sctx)
	if err != nil {
		return Metrics{}, m.storeErr(err)
	}

	now := m.clock()
	var out Metrics
	devices := make(map[string]struct{})
	for _, s := range sessions {
		out.Total++
		switch {
		case s.IsActive(now):
			out.Active++
		case s.Status == StatusRevoked:
			out.Revoked++
		default:
			out.Expired++
		}
		if s.DeviceID != "" {
			devices[s.DeviceID] = struct{}{}
		}
		out.SuspiciousActivities += s.FailedActivities()
	}
	out.Devices = len(devices)
	return out, nil
}

// load fetches the session under its lock and maps store failures onto
// validation denials.
func (m *Manager) load(ctx context.Context, id uuid.UUID) (*Session, ValidationResult) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()

	s, err := m.store.Get(sctx, id)
	switch {
	case err == nil:
		return s, ValidationResult{}
	case errors.Is(err, ErrSessionNotFound):
		return nil, ValidationResult{Reason: ReasonNotFound}
	default:
		m.logger.ErrorContext(ctx, "session lookup failed",
			slog.String("session_id", id.String()), slog.Any("error", err))
		return nil, ValidationResult{Reason: ReasonStoreUnavailable}
	}
}

// persist writes audit-trail updates best effort; the caller's decision
// stands whether or not the log entry lands.
func (m *Manager) persist(ctx context.Context, s *Session) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.Update(sctx, s); err != nil {
		m.logger.WarnContext(ctx, "session activity update failed",
			slog.String("session_id", s.ID.String()), slog.Any("error", err))
	}
}

// storeCtx bounds a store call with the configured timeout.
func (m *Manager) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.cfg.StoreTimeout)
}

// storeErr maps context deadline failures onto ErrStoreTimeout so callers
// can tell "slow store" from "broken store".
func (m *Manager) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrStoreTimeout, err)
	}
	return err
}

func denialDetail(check CapabilityCheck) string {
	if check.Resource == "" {
		return check.Action
	}
	return check.Action + " on " + check.Resource
}
