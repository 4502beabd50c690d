// Package session owns the logged-in user and the onboarding flag, keeps them
// in the local store, and decides which location the user may see.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/storage"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// State is a snapshot of the session. User is nil when logged out.
type State struct {
	User         *models.User
	HasOnboarded bool
	IsLoading    bool
}

func (s State) IsLoggedIn() bool {
	return s.User != nil
}

type TransitionKind int

const (
	TransitionHydrated TransitionKind = iota + 1
	TransitionLoggedIn
	TransitionLoggedOut
	TransitionProfileUpdated
	TransitionOnboarded
	TransitionOnboardingReset
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionHydrated:
		return "hydrated"
	case TransitionLoggedIn:
		return "logged_in"
	case TransitionLoggedOut:
		return "logged_out"
	case TransitionProfileUpdated:
		return "profile_updated"
	case TransitionOnboarded:
		return "onboarded"
	case TransitionOnboardingReset:
		return "onboarding_reset"
	}
	return "unknown"
}

// TransitionFunc observes session changes. It is called after the in-memory
// state has changed and without the manager's lock held.
type TransitionFunc func(kind TransitionKind, s State)

type Manager struct {
	store  storage.Store
	logger logging.Logger

	mu           sync.Mutex
	user         *models.User
	hasOnboarded bool
	isLoading    bool
	hydrated     bool
	// Set by transitions so hydrate does not overwrite newer values.
	userSet      bool
	onboardedSet bool
	onChange     TransitionFunc
}

func NewManager(store storage.Store, logger logging.Logger) *Manager {
	return &Manager{
		store:     store,
		logger:    logger.With("component", "session"),
		isLoading: true,
	}
}

// OnTransition registers fn as the single transition observer.
func (m *Manager) OnTransition(fn TransitionFunc) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) IsLoggedIn() bool {
	return m.State().IsLoggedIn()
}

func (m *Manager) snapshot() State {
	s := State{HasOnboarded: m.hasOnboarded, IsLoading: m.isLoading}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Hydrate loads the onboarding flag and the stored user. Read or decode
// errors are logged and the value is treated as absent. IsLoading is cleared
// once both reads are done; later calls do nothing.
func (m *Manager) Hydrate(ctx context.Context) {
	m.mu.Lock()
	if m.hydrated {
		m.mu.Unlock()
		return
	}
	m.hydrated = true
	m.mu.Unlock()

	var (
		onboarded bool
		user      *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, ok, err := m.store.Get(gctx, common.OnboardingKey)
		if err != nil {
			m.logger.Warn(gctx, "read onboarding flag", "error", err)
			return nil
		}
		onboarded = ok && v == "true"
		return nil
	})
	g.Go(func() error {
		v, ok, err := m.store.Get(gctx, common.SessionKey)
		if err != nil {
			m.logger.Warn(gctx, "read session", "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		var u models.User
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			m.logger.Warn(gctx, "decode session", "error", err)
			return nil
		}
		u.Normalize()
		if u.UserID == 0 {
			m.logger.Warn(gctx, "stored session has no user id")
			return nil
		}
		user = &u
		return nil
	})
	_ = g.Wait()

	m.mu.Lock()
	if !m.onboardedSet {
		m.hasOnboarded = onboarded
	}
	if !m.userSet {
		m.user = user
	}
	m.isLoading = false
	s, fn := m.snapshot(), m.onChange
	m.mu.Unlock()

	m.logger.Info(ctx, "session hydrated", "logged_in", s.IsLoggedIn(), "onboarded", s.HasOnboarded)
	if fn != nil {
		fn(TransitionHydrated, s)
	}
}

// Login makes u the current user and then persists it. A failed write is
// logged and does not undo the login.
func (m *Manager) Login(ctx context.Context, u models.User) {
	m.setUser(ctx, u, TransitionLoggedIn)
}

// SetUser replaces the current user after a profile edit. It leaves the
// onboarding flag alone and is reported as a profile update, not a login.
func (m *Manager) SetUser(ctx context.Context, u models.User) {
	m.setUser(ctx, u, TransitionProfileUpdated)
}

func (m *Manager) setUser(ctx context.Context, u models.User, kind TransitionKind) {
	m.apply(kind, func() {
		m.user = &u
		m.userSet = true
	})

	b, err := json.Marshal(u)
	if err != nil {
		m.logger.Error(ctx, "encode session", "error", err)
		return
	}
	if err := m.store.Set(ctx, common.SessionKey, string(b)); err != nil {
		m.logger.Error(ctx, "persist session", "error", err, "transition", kind.String())
	}
}

func (m *Manager) Logout(ctx context.Context) {
	m.apply(TransitionLoggedOut, func() {
		m.user = nil
		m.userSet = true
	})

	if err := m.store.Remove(ctx, common.SessionKey); err != nil {
		m.logger.Error(ctx, "remove session", "error", err)
	}
}

func (m *Manager) CompleteOnboarding(ctx context.Context) {
	m.apply(TransitionOnboarded, func() {
		m.hasOnboarded = true
		m.onboardedSet = true
	})

	if err := m.store.Set(ctx, common.OnboardingKey, "true"); err != nil {
		m.logger.Error(ctx, "persist onboarding flag", "error", err)
	}
}

// ResetOnboarding clears the onboarding flag and logs the user out.
func (m *Manager) ResetOnboarding(ctx context.Context) {
	m.apply(TransitionOnboardingReset, func() {
		m.hasOnboarded = false
		m.user = nil
		m.onboardedSet = true
		m.userSet = true
	})

	if err := m.store.RemoveMany(ctx, common.OnboardingKey, common.SessionKey); err != nil {
		m.logger.Error(ctx, "remove session keys", "error", err)
	}
}

func (m *Manager) apply(kind TransitionKind, mutate func()) {
	m.mu.Lock()
	mutate()
	s, fn := m.snapshot(), m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(kind, s)
	}
}

// TokenExpiry reports the exp claim of the current token when it is a JWT.
// The token is not verified; the result is informational only.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	s := m.State()
	if s.User == nil || s.User.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.User.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
