package session

import (
	"context"
	"sync"

	"github.com/richgang/fxpulse/internal/api"
	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/token"
	"go.uber.org/zap"
)

// State is the session's position in the verification lifecycle.
//
//	Anonymous --set token--> Verifying --ok--> Verified
//	                         Verifying --rejected--> Anonymous (store cleared)
type State string

const (
	StateAnonymous State = "anonymous"
	StateVerifying State = "verifying"
	StateVerified  State = "verified"
)

// Backend is the slice of the API surface the session needs.
// *api.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, code string) (*api.LoginResult, error)
	Verify(ctx context.Context, token string) (*core.Identity, error)
}

// Manager holds the process-wide session: the bearer token, the
// verified identity behind it, and the login/logout operations. It is
// the only mutator of the token slot and is safe for concurrent use.
type Manager struct {
	store   *token.Store
	backend Backend
	logger  *zap.Logger

	mu       sync.RWMutex
	state    State
	token    string
	identity *core.Identity
	loading  bool
}

// NewManager creates a session manager over the given token store.
func NewManager(store *token.Store, backend Backend, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		backend: backend,
		logger:  logger,
		state:   StateAnonymous,
	}
}

// Init loads the stored token, if any, and runs the verify transition
// for it. Loading reports true only for the duration of this pass and
// flips false exactly once, whatever the outcome. A rejected or
// unreachable verification is swallowed: the store is cleared and the
// session stays anonymous.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	tok, ok := m.store.Get()
	if !ok {
		return
	}
	m.applyToken(ctx, tok, nil)
}

// Login exchanges an access code for a token. A rejected code returns
// core.ErrInvalidCredentials and leaves the session untouched. On
// success the token is persisted and the identity from the grant is
// applied without a redundant verify round trip.
func (m *Manager) Login(ctx context.Context, code string) (core.Identity, error) {
	res, err := m.backend.Login(ctx, code)
	if err != nil {
		return core.Identity{}, err
	}

	id := core.Identity{Role: res.Role, Name: res.Name}
	if err := m.store.Set(res.Token); err != nil {
		return core.Identity{}, core.WrapError(core.ErrAPIFailed, err)
	}
	m.applyToken(ctx, res.Token, &id)
	return id, nil
}

// Logout clears the token and identity synchronously. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing stored token", zap.Error(err))
	}
}

// applyToken is the single transition for a token value change. When
// the identity is already known (a fresh login grant) verification is
// skipped; otherwise the token is verified against the backend and
// rejected tokens are purged from the store.
func (m *Manager) applyToken(ctx context.Context, tok string, known *core.Identity) {
	m.mu.Lock()
	m.token = tok
	m.state = StateVerifying
	m.identity = nil
	m.mu.Unlock()

	if known != nil {
		m.mu.Lock()
		m.identity = known
		m.state = StateVerified
		m.mu.Unlock()
		return
	}

	id, err := m.backend.Verify(ctx, tok)
	if err != nil {
		m.logger.Info("stored token rejected", zap.Error(err))
		m.mu.Lock()
		m.token = ""
		m.identity = nil
		m.state = StateAnonymous
		m.mu.Unlock()
		if cerr := m.store.Clear(); cerr != nil {
			m.logger.Warn("clearing rejected token", zap.Error(cerr))
		}
		return
	}

	m.mu.Lock()
	m.identity = id
	m.state = StateVerified
	m.mu.Unlock()
}

// AuthHeader returns the Authorization value for the most recently set
// token, or empty when no token is held.
func (m *Manager) AuthHeader() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return ""
	}
	return "Bearer " + m.token
}

// IsAuthenticated reports whether a verified identity is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// Identity returns the verified identity, if any.
func (m *Manager) Identity() (core.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return core.Identity{}, false
	}
	return *m.identity, true
}

// Loading reports whether the initial verification pass is underway.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
