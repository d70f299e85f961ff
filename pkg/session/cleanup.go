package session

import (
	"context"
	"log/slog"
	"time"
)

// StartCleanup launches the background sweep that purges sessions past
// expiry every CleanupInterval. It returns ErrCleanupDisabled when the
// interval is zero and ErrCleanupAlreadyRunning when a sweep loop is
// already active.
func (m *Manager) StartCleanup() error {
	if m.cfg.CleanupInterval <= 0 {
		return ErrCleanupDisabled
	}

	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()
	if m.cleanupStop != nil {
		return ErrCleanupAlreadyRunning
	}

	m.cleanupStop = make(chan struct{})
	m.cleanupDone = make(chan struct{})
	go m.cleanupLoop(m.cleanupStop, m.cleanupDone)
	return nil
}

// Close stops the background sweep and waits for the in-flight pass to
// finish. It is safe to call multiple times and without StartCleanup.
func (m *Manager) Close() error {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()
	if m.cleanupStop == nil {
		return nil
	}

	close(m.cleanupStop)
	<-m.cleanupDone
	m.cleanupStop = nil
	m.cleanupDone = nil
	return nil
}

func (m *Manager) cleanupLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep(context.Background())
		case <-stop:
			return
		}
	}
}

// sweep snapshots the store, then deletes each session past expiry under
// its own lock so an in-flight validation never races a delete. A final
// DeleteExpired pass catches sessions created between snapshot and delete.
func (m *Manager) sweep(ctx context.Context) {
	now := m.clock()

	sctx, cancel := m.storeCtx(ctx)
	sessions, err := m.store.ListAll(sctx)
	cancel()
	if err != nil {
		m.logger.ErrorContext(ctx, "cleanup snapshot failed", slog.Any("error", err))
		return
	}

	removed := 0
	for _, s := range sessions {
		if !s.IsExpired(now) {
			continue
		}
		mu := m.sessionLocks.get(s.ID.String())
		mu.Lock()
		dctx, cancel := m.storeCtx(ctx)
		err := m.store.Delete(dctx, s.ID)
		cancel()
		mu.Unlock()
		if err != nil {
			m.logger.WarnContext(ctx, "cleanup delete failed",
				slog.String("session_id", s.ID.String()), slog.Any("error", err))
			continue
		}
		removed++
	}

	dctx, cancel := m.storeCtx(ctx)
	extra, err := m.store.DeleteExpired(dctx, now)
	cancel()
	if err != nil {
		m.logger.WarnContext(ctx, "cleanup expiry pass failed", slog.Any("error", err))
	}

	if removed+extra > 0 {
		m.logger.InfoContext(ctx, "expired sessions purged",
			slog.Int("removed", removed+extra))
	}
}
