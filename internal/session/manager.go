package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/storage"
)

// Storage keys for the persisted auth record and the bearer credential.
const (
	authKey  = "authData"
	tokenKey = "token"
)

// Manager owns the login state for one visitor: it persists the auth record,
// mints the bearer token, runs the expiry watchdog, and announces session end
// to subscribers so dependent stores can clear themselves.
type Manager struct {
	kv            storage.KV
	ttl           time.Duration
	checkInterval time.Duration
	signingKey    []byte
	logger        zerolog.Logger
	nowFunc       func() time.Time

	mu        sync.Mutex
	stopWatch chan struct{}
	onEnd     []func(ctx context.Context)
}

// NewManager returns a session manager. ttl is the session lifetime granted
// at login; checkInterval is how often the watchdog re-reads the record.
func NewManager(kv storage.KV, ttl, checkInterval time.Duration, signingKey []byte, logger zerolog.Logger) *Manager {
	return &Manager{
		kv:            kv,
		ttl:           ttl,
		checkInterval: checkInterval,
		signingKey:    signingKey,
		logger:        logger,
		nowFunc:       time.Now,
	}
}

// OnSessionEnd registers fn to run whenever the session ends, whether by
// explicit logout or by expiry.
func (m *Manager) OnSessionEnd(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

// Login persists a fresh auth record expiring ttl from now, stores a signed
// bearer token, and (re)arms the expiry watchdog. role comes from the auth
// collaborator's response and is carried in the token claims.
func (m *Manager) Login(ctx context.Context, email, role string) (AuthState, error) {
	now := m.nowFunc()
	rec := record{
		Email:          email,
		IsLoggedIn:     true,
		Role:           role,
		ExpirationTime: now.Add(m.ttl).UnixMilli(),
	}
	if err := storage.WriteJSON(ctx, m.kv, authKey, rec); err != nil {
		return Anonymous, err
	}

	token, err := m.mintToken(email, role, now)
	if err != nil {
		return Anonymous, err
	}
	if err := m.kv.Set(ctx, tokenKey, []byte(token)); err != nil {
		return Anonymous, err
	}

	m.startWatchdog()
	m.logger.Info().Str("email", email).Msg("session started")
	return AuthState{Email: email, IsLoggedIn: true}, nil
}

// RestoreOnStartup reads the persisted record. An unexpired record restores
// the logged-in state and re-arms the watchdog; an expired one is logged out
// as a side effect and the anonymous state is returned.
func (m *Manager) RestoreOnStartup(ctx context.Context) (AuthState, error) {
	var rec record
	ok, err := storage.ReadJSON(ctx, m.kv, authKey, &rec)
	if err != nil {
		return Anonymous, err
	}
	if !ok {
		return Anonymous, nil
	}
	if m.nowFunc().UnixMilli() >= rec.ExpirationTime {
		return m.Logout(ctx)
	}
	m.startWatchdog()
	return AuthState{Email: rec.Email, IsLoggedIn: rec.IsLoggedIn}, nil
}

// Logout removes the auth record and bearer token, stops the watchdog, and
// notifies session-end subscribers. It is safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context) (AuthState, error) {
	if err := m.kv.Del(ctx, authKey, tokenKey); err != nil {
		return Anonymous, err
	}
	m.stopWatchdog()

	m.mu.Lock()
	subs := make([]func(ctx context.Context), len(m.onEnd))
	copy(subs, m.onEnd)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(ctx)
	}
	return Anonymous, nil
}

// Close stops the watchdog without touching stored state.
func (m *Manager) Close() {
	m.stopWatchdog()
}

// startWatchdog arms the recurring expiry check, cancelling any previously
// scheduled one first so repeated logins never stack timers.
func (m *Manager) startWatchdog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopWatch != nil {
		close(m.stopWatch)
	}
	stop := make(chan struct{})
	m.stopWatch = stop

	go m.watch(stop)
}

func (m *Manager) stopWatchdog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopWatch != nil {
		close(m.stopWatch)
		m.stopWatch = nil
	}
}

// watch re-reads the persisted record every checkInterval and logs the
// session out once the wall clock passes its expiration time.
func (m *Manager) watch(stop chan struct{}) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx := context.Background()
			var rec record
			ok, err := storage.ReadJSON(ctx, m.kv, authKey, &rec)
			if err != nil || !ok {
				continue
			}
			if m.nowFunc().UnixMilli() > rec.ExpirationTime {
				m.logger.Info().Str("email", rec.Email).Msg("session expired, user logged out")
				if _, err := m.Logout(ctx); err != nil {
					m.logger.Error().Err(err).Msg("expiry logout failed")
				}
				return
			}
		}
	}
}
