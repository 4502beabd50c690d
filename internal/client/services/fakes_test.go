package services

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// ---- fake store ----

type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
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
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	return f.RemoveMany(ctx, key)
}

func (f *fakeStore) RemoveMany(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

// ---- fake client ----

// fakeClient implements client.Client. Each method delegates to the matching
// func field when set.
type fakeClient struct {
	mu sync.Mutex

	LoginFn    func(email, password string) (models.User, error)
	RegisterFn func(reg models.Registration) (models.User, error)
	UpdateFn   func(id int64, upd models.UserUpdate) (models.User, error)
	AvatarFn   func(id int64, path string) (string, error)
	ListFn     func(id int64) ([]models.Document, error)
	SearchFn   func(ctx context.Context, keyword string) ([]models.Document, error)
	UploadFn   func(up models.Upload) (models.Document, error)

	Token    string
	Keywords []string
	Updates  []models.UserUpdate
	Uploads  []models.Upload
}

func (c *fakeClient) SetToken(token string) {
	c.mu.Lock()
	c.Token = token
	c.mu.Unlock()
}

func (c *fakeClient) Login(_ context.Context, email, password string) (models.User, error) {
	return c.LoginFn(email, password)
}

func (c *fakeClient) Register(_ context.Context, reg models.Registration) (models.User, error) {
	return c.RegisterFn(reg)
}

func (c *fakeClient) UpdateUser(_ context.Context, id int64, upd models.UserUpdate) (models.User, error) {
	c.mu.Lock()
	c.Updates = append(c.Updates, upd)
	c.mu.Unlock()
	if c.UpdateFn == nil {
		return models.User{UserID: id}, nil
	}
	return c.UpdateFn(id, upd)
}

func (c *fakeClient) UploadProfilePicture(_ context.Context, id int64, path string) (string, error) {
	return c.AvatarFn(id, path)
}

func (c *fakeClient) ListUserDocuments(_ context.Context, id int64) ([]models.Document, error) {
	return c.ListFn(id)
}

func (c *fakeClient) SearchDocuments(ctx context.Context, keyword string) ([]models.Document, error) {
	c.mu.Lock()
	c.Keywords = append(c.Keywords, keyword)
	c.mu.Unlock()
	if c.SearchFn == nil {
		return []models.Document{{DocumentID: 1, Title: keyword}}, nil
	}
	return c.SearchFn(ctx, keyword)
}

func (c *fakeClient) UploadDocument(_ context.Context, up models.Upload) (models.Document, error) {
	c.mu.Lock()
	c.Uploads = append(c.Uploads, up)
	c.mu.Unlock()
	return c.UploadFn(up)
}

func (c *fakeClient) keywords() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Keywords...)
}

// ---- fake downloader ----

type fakeDownloader struct {
	mu     sync.Mutex
	calls  []string
	status int // 0 means 200
	err    error
	// started/release, when set, block Download until released.
	started chan struct{}
	release chan struct{}
}

func (d *fakeDownloader) Download(_ context.Context, url, dest string) (int, error) {
	d.mu.Lock()
	d.calls = append(d.calls, url)
	d.mu.Unlock()

	if d.started != nil {
		d.started <- struct{}{}
		<-d.release
	}
	if d.err != nil {
		return 0, d.err
	}
	if d.status != 0 && d.status != 200 {
		return d.status, nil
	}
	if err := os.WriteFile(dest, []byte("content of "+url), 0o600); err != nil {
		return 200, err
	}
	return 200, nil
}

func (d *fakeDownloader) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// ---- fake opener ----

type openCall struct {
	Path, Mime string
}

type fakeOpener struct {
	mu    sync.Mutex
	calls []openCall
	err   error
}

func (o *fakeOpener) Open(_ context.Context, path, mime string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, openCall{path, mime})
	return o.err
}

// ---- recording notifier ----

type recordingNotifier struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notices {
		out = append(out, n.Title)
	}
	return out
}

// ---- helpers ----

var student = models.User{UserID: 7, Username: "an", FullName: "Nguyễn An", Role: models.RoleStudent, IsActive: true, Token: "T1"}

func loggedInSession(t *testing.T, st *fakeStore) *session.Manager {
	t.Helper()
	sm := session.NewManager(st, logging.NewNop())
	sm.Hydrate(context.Background())
	sm.CompleteOnboarding(context.Background())
	sm.Login(context.Background(), student)
	require.True(t, sm.IsLoggedIn())
	return sm
}
