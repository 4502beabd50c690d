package session

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/storage"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

/*************
 * Fakes
 *************/

type fakeStore struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  map[string]error
	setErr  error
	rmErr   error
	removed [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, getErr: map[string]error{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[key]; err != nil {
		return "", false, err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	return f.RemoveMany(ctx, key)
}

func (f *fakeStore) RemoveMany(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rmErr != nil {
		return f.rmErr
	}
	f.removed = append(f.removed, keys)
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

var student = models.User{UserID: 7, Username: "an", FullName: "Nguyễn An", Role: models.RoleStudent, IsActive: true, Token: "T1"}

/*************
 * Hydrate
 *************/

func TestNewManager_IsLoading(t *testing.T) {
	m := NewManager(newFakeStore(), logging.NewNop())
	s := m.State()
	assert.True(t, s.IsLoading)
	assert.False(t, s.IsLoggedIn())
}

func TestHydrate_FreshInstall(t *testing.T) {
	m := NewManager(newFakeStore(), logging.NewNop())
	m.Hydrate(context.Background())

	s := m.State()
	assert.Equal(t, State{}, s)

	next, ok := NextLocation(s, Root)
	require.True(t, ok)
	assert.Equal(t, Onboarding, next)
}

func TestHydrate_RestoresStoredState(t *testing.T) {
	st := newFakeStore()
	b, _ := json.Marshal(student)
	st.data[common.SessionKey] = string(b)
	st.data[common.OnboardingKey] = "true"

	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())

	s := m.State()
	require.NotNil(t, s.User)
	if diff := cmp.Diff(student, *s.User); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.HasOnboarded)
	assert.False(t, s.IsLoading)
}

func TestHydrate_FailsOpen(t *testing.T) {
	tests := []struct {
		name  string
		setup func(st *fakeStore)
	}{
		{"read errors", func(st *fakeStore) {
			st.getErr[common.SessionKey] = errors.New("disk")
			st.getErr[common.OnboardingKey] = errors.New("disk")
		}},
		{"corrupt session json", func(st *fakeStore) {
			st.data[common.SessionKey] = "{not json"
		}},
		{"session without id", func(st *fakeStore) {
			st.data[common.SessionKey] = `{"username":"x"}`
		}},
		{"onboarding flag not true", func(st *fakeStore) {
			st.data[common.OnboardingKey] = "yes"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeStore()
			tt.setup(st)
			m := NewManager(st, logging.NewNop())
			m.Hydrate(context.Background())
			assert.Equal(t, State{}, m.State())
		})
	}
}

func TestHydrate_NormalizesLegacyID(t *testing.T) {
	st := newFakeStore()
	st.data[common.SessionKey] = `{"id":9,"username":"b"}`

	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())

	require.NotNil(t, m.State().User)
	assert.EqualValues(t, 9, m.State().User.UserID)
}

func TestHydrate_RunsOnce(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())

	var kinds []TransitionKind
	m.OnTransition(func(k TransitionKind, _ State) { kinds = append(kinds, k) })

	m.Hydrate(context.Background())
	st.data[common.OnboardingKey] = "true"
	m.Hydrate(context.Background())

	assert.Equal(t, []TransitionKind{TransitionHydrated}, kinds)
	assert.False(t, m.State().HasOnboarded)
}

func TestHydrate_DoesNotClobberEarlierLogin(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())

	m.Login(context.Background(), student)
	st.mu.Lock()
	delete(st.data, common.SessionKey)
	st.mu.Unlock()

	m.Hydrate(context.Background())

	s := m.State()
	require.NotNil(t, s.User)
	assert.False(t, s.IsLoading)
}

/*************
 * Transitions
 *************/

func TestLogin_ThenHydrateInFreshProcess(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docshelf.db")

	db, err := storage.Open(ctx, path)
	require.NoError(t, err)

	m := NewManager(storage.NewSQLiteStore(db), logging.NewNop())
	m.Hydrate(ctx)
	m.CompleteOnboarding(ctx)
	m.Login(ctx, student)
	require.NoError(t, db.Close())

	db, err = storage.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	raw, ok, err := storage.NewSQLiteStore(db).Get(ctx, common.SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.EqualValues(t, 7, stored["userId"])

	fresh := NewManager(storage.NewSQLiteStore(db), logging.NewNop())
	fresh.Hydrate(ctx)

	s := fresh.State()
	require.NotNil(t, s.User)
	assert.Equal(t, student, *s.User)

	next, redirect := NextLocation(s, Onboarding)
	require.True(t, redirect)
	assert.Equal(t, Home, next)
}

func TestLogin_PersistFailureKeepsUser(t *testing.T) {
	st := newFakeStore()
	st.setErr = errors.New("read-only")

	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())
	m.Login(context.Background(), student)

	assert.True(t, m.IsLoggedIn())
	_, ok := st.value(common.SessionKey)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())

	m.Login(context.Background(), student)
	m.Logout(context.Background())

	assert.False(t, m.IsLoggedIn())
	_, ok := st.value(common.SessionKey)
	assert.False(t, ok)
}

func TestLogout_RemoveFailureStillLogsOut(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())
	m.Login(context.Background(), student)

	st.rmErr = errors.New("locked")
	m.Logout(context.Background())
	assert.False(t, m.IsLoggedIn())
}

func TestSetUser_IsProfileUpdate(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())
	m.CompleteOnboarding(context.Background())
	m.Login(context.Background(), student)

	var kinds []TransitionKind
	m.OnTransition(func(k TransitionKind, _ State) { kinds = append(kinds, k) })

	updated := student
	updated.FullName = "Nguyễn Văn An"
	m.SetUser(context.Background(), updated)

	assert.Equal(t, []TransitionKind{TransitionProfileUpdated}, kinds)
	s := m.State()
	assert.True(t, s.HasOnboarded)
	assert.Equal(t, "Nguyễn Văn An", s.User.FullName)

	raw, _ := st.value(common.SessionKey)
	assert.Contains(t, raw, "Nguyễn Văn An")
}

func TestCompleteOnboarding(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())
	m.CompleteOnboarding(context.Background())

	assert.True(t, m.State().HasOnboarded)
	v, _ := st.value(common.OnboardingKey)
	assert.Equal(t, "true", v)
}

func TestResetOnboarding_LogsOutAndRemovesBothKeys(t *testing.T) {
	st := newFakeStore()
	m := NewManager(st, logging.NewNop())
	m.Hydrate(context.Background())
	m.CompleteOnboarding(context.Background())
	m.Login(context.Background(), student)

	m.ResetOnboarding(context.Background())

	s := m.State()
	assert.False(t, s.HasOnboarded)
	assert.Nil(t, s.User)
	require.NotEmpty(t, st.removed)
	assert.ElementsMatch(t, []string{common.OnboardingKey, common.SessionKey}, st.removed[len(st.removed)-1])
}

func TestState_ReturnsCopy(t *testing.T) {
	m := NewManager(newFakeStore(), logging.NewNop())
	m.Login(context.Background(), student)

	s := m.State()
	s.User.FullName = "mutated"
	assert.Equal(t, student.FullName, m.State().User.FullName)
}

func TestTransitionKinds(t *testing.T) {
	m := NewManager(newFakeStore(), logging.NewNop())
	var kinds []string
	m.OnTransition(func(k TransitionKind, _ State) { kinds = append(kinds, k.String()) })

	ctx := context.Background()
	m.Hydrate(ctx)
	m.CompleteOnboarding(ctx)
	m.Login(ctx, student)
	m.SetUser(ctx, student)
	m.Logout(ctx)
	m.ResetOnboarding(ctx)

	assert.Equal(t, []string{"hydrated", "onboarded", "logged_in", "profile_updated", "logged_out", "onboarding_reset"}, kinds)
}

/*************
 * TokenExpiry
 *************/

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	m := NewManager(newFakeStore(), logging.NewNop())

	_, ok := m.TokenExpiry()
	assert.False(t, ok)

	u := student
	u.Token = "opaque-token"
	m.Login(context.Background(), u)
	_, ok = m.TokenExpiry()
	assert.False(t, ok)

	u.Token = signed
	m.SetUser(context.Background(), u)
	got, ok := m.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}
