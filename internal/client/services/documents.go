package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/opener"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/client/storage"
	"github.com/dmitrijs2005/docshelf/internal/client/transfer"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/debounce"
	"github.com/dmitrijs2005/docshelf/internal/filex"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

var (
	ErrDownloadFailed = errors.New("download failed")
	ErrOpenFailed     = errors.New("open failed")
)

const (
	defaultExt   = "pdf"
	fallbackMIME = "*/*"
)

// DownloadState is where a DownloadAndArchive call ended.
type DownloadState int

const (
	// DownloadSkipped means another download was in flight; nothing happened.
	DownloadSkipped DownloadState = iota
	// DownloadArchived means the file is local, in the archive and was opened.
	DownloadArchived
	// DownloadFailed means the transfer failed; the archive is unchanged.
	DownloadFailed
	// DownloadOpenFailed means the file was archived but could not be opened.
	DownloadOpenFailed
)

func (s DownloadState) String() string {
	switch s {
	case DownloadSkipped:
		return "skipped"
	case DownloadArchived:
		return "archived"
	case DownloadFailed:
		return "download_failed"
	case DownloadOpenFailed:
		return "open_failed"
	}
	return "unknown"
}

type DownloadResult struct {
	State DownloadState
	// Document is the archive entry for the download. When the document was
	// already archived it is the existing entry.
	Document models.ArchivedDocument
	// Added is false when the document was already in the archive.
	Added bool
}

// SearchResults is the outcome of the most recent accepted search.
type SearchResults struct {
	Keyword    string
	Documents  []models.Document
	Err        error
	Generation uint64
}

// UploadRequest is a local file to publish. Title, description and the file
// are required.
type UploadRequest struct {
	Title       string
	Description string
	FilePath    string
}

// DocumentService fetches documents from the backend, keeps downloaded ones
// in the local archive and serves filtered views of it.
type DocumentService interface {
	ListUserDocuments(ctx context.Context, userID int64) []models.DocumentView
	Search(keyword string)
	SearchNow(ctx context.Context, keyword string) ([]models.Document, error)
	Results() SearchResults
	OnResults(fn func(SearchResults))
	DownloadAndArchive(ctx context.Context, doc models.Document) (DownloadResult, error)
	Downloading() bool
	LoadArchive(ctx context.Context) []models.ArchivedDocument
	Archive() []models.ArchivedDocument
	FilteredArchive(tab models.OwnershipTab, text string) []models.ArchivedDocument
	OpenArchived(ctx context.Context, documentID int64) error
	Upload(ctx context.Context, req UploadRequest) (models.Document, error)
	Close()
}

type documentService struct {
	client      client.Client
	store       storage.Store
	downloader  transfer.Downloader
	opener      opener.Opener
	session     *session.Manager
	notifier    Notifier
	logger      logging.Logger
	downloadDir string
	debouncer   *debounce.Debouncer
	now         func() time.Time

	downloading atomic.Bool

	mu        sync.Mutex
	archive   []models.ArchivedDocument
	results   SearchResults
	onResults func(SearchResults)
}

// DocumentDeps groups the collaborators of the document service.
type DocumentDeps struct {
	Client      client.Client
	Store       storage.Store
	Downloader  transfer.Downloader
	Opener      opener.Opener
	Session     *session.Manager
	Notifier    Notifier
	Logger      logging.Logger
	DownloadDir string
	Debounce    time.Duration
}

func NewDocumentService(d DocumentDeps) DocumentService {
	return &documentService{
		client:      d.Client,
		store:       d.Store,
		downloader:  d.Downloader,
		opener:      d.Opener,
		session:     d.Session,
		notifier:    d.Notifier,
		logger:      d.Logger.With("component", "documents"),
		downloadDir: d.DownloadDir,
		debouncer:   debounce.New(d.Debounce),
		now:         time.Now,
	}
}

/*************
 * Listing
 *************/

// ListUserDocuments never fails: on error it posts a notice and returns an
// empty list.
func (s *documentService) ListUserDocuments(ctx context.Context, userID int64) []models.DocumentView {
	docs, err := s.client.ListUserDocuments(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "list user documents", "user_id", userID, "error", err)
		notifyError(ctx, s.notifier, "Documents", client.UserMessage(err))
		return []models.DocumentView{}
	}

	views := make([]models.DocumentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, models.NewDocumentView(d))
	}
	return views
}

/*************
 * Search
 *************/

// Search schedules a search for keyword once input has been quiet for the
// debounce delay. Only the last keyword of a burst reaches the backend.
func (s *documentService) Search(keyword string) {
	s.debouncer.Trigger(func(gen uint64) {
		ctx := context.Background()
		docs, err := s.client.SearchDocuments(ctx, keyword)
		s.accept(ctx, gen, keyword, docs, err)
	})
}

// SearchNow searches immediately and supersedes any pending or in-flight
// debounced search.
func (s *documentService) SearchNow(ctx context.Context, keyword string) ([]models.Document, error) {
	gen := s.debouncer.Invalidate()
	docs, err := s.client.SearchDocuments(ctx, keyword)
	s.accept(ctx, gen, keyword, docs, err)
	return docs, err
}

// accept stores a search outcome unless a newer search has started since.
func (s *documentService) accept(ctx context.Context, gen uint64, keyword string, docs []models.Document, err error) {
	if !s.debouncer.IsCurrent(gen) {
		s.logger.Debug(ctx, "stale search result dropped", "keyword", keyword, "generation", gen)
		return
	}
	if err != nil {
		s.logger.Warn(ctx, "search", "keyword", keyword, "error", err)
	}
	if docs == nil {
		docs = []models.Document{}
	}

	r := SearchResults{Keyword: keyword, Documents: docs, Err: err, Generation: gen}

	s.mu.Lock()
	if err == nil {
		s.results = r
	} else {
		s.results.Err = err
		s.results.Generation = gen
		r = s.results
	}
	fn := s.onResults
	s.mu.Unlock()

	if fn != nil {
		fn(r)
	}
}

func (s *documentService) Results() SearchResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results
	r.Documents = append([]models.Document(nil), r.Documents...)
	return r
}

// OnResults registers fn to receive every accepted search outcome.
func (s *documentService) OnResults(fn func(SearchResults)) {
	s.mu.Lock()
	s.onResults = fn
	s.mu.Unlock()
}

/*************
 * Download and archive
 *************/

func (s *documentService) Downloading() bool {
	return s.downloading.Load()
}

// DownloadAndArchive fetches doc, adds it to the archive unless already there,
// and opens it. Only one call runs at a time; a call made while another is in
// flight returns DownloadSkipped at once.
func (s *documentService) DownloadAndArchive(ctx context.Context, doc models.Document) (DownloadResult, error) {
	if !s.downloading.CompareAndSwap(false, true) {
		return DownloadResult{State: DownloadSkipped}, nil
	}
	defer s.downloading.Store(false)

	log := s.logger.With("document_id", doc.DocumentID)

	dest, err := s.localPath(doc)
	if err != nil {
		log.Error(ctx, "prepare download dir", "error", err)
		notifyError(ctx, s.notifier, "Download", "Could not download this document.")
		return DownloadResult{State: DownloadFailed}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	status, err := s.downloader.Download(ctx, doc.FilePath, dest)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("status %d", status)
	}
	if err != nil {
		log.Warn(ctx, "download", "url", doc.FilePath, "error", err)
		notifyError(ctx, s.notifier, "Download", "Could not download this document.")
		return DownloadResult{State: DownloadFailed}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	entry, added := s.addToArchive(ctx, doc, dest)
	res := DownloadResult{State: DownloadArchived, Document: entry, Added: added}
	log.Info(ctx, "downloaded", "path", dest, "added", added)

	if err := s.opener.Open(ctx, dest, filex.MimeType(dest, fallbackMIME)); err != nil {
		log.Warn(ctx, "open", "path", dest, "error", err)
		notifyError(ctx, s.notifier, "Open", "The document was saved but could not be opened.")
		res.State = DownloadOpenFailed
		return res, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	return res, nil
}

// localPath derives <title>_<id>.<ext> inside the download directory.
func (s *documentService) localPath(doc models.Document) (string, error) {
	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}

	ext := filex.Ext(doc.FilePath)
	if ext == "" {
		ext = defaultExt
	}
	name := filex.SafeName(doc.Title) + "_" + strconv.FormatInt(doc.DocumentID, 10) + "." + ext
	return filepath.Join(dir, name), nil
}

// addToArchive re-reads the stored archive and prepends doc unless an entry
// with the same id exists, in which case that entry wins. Entries held in
// memory but missing from the store, because an earlier write failed, are
// carried over and written again.
func (s *documentService) addToArchive(ctx context.Context, doc models.Document, localPath string) (models.ArchivedDocument, bool) {
	list := mergeUnsaved(s.Archive(), s.readArchive(ctx))

	for _, a := range list {
		if a.DocumentID == doc.DocumentID {
			s.setArchive(list)
			return a, false
		}
	}

	entry := models.ArchivedDocument{
		Document: doc,
		LocalURI: localPath,
		SavedAt:  s.now().UTC(),
		IsShared: s.isShared(doc),
	}
	list = append([]models.ArchivedDocument{entry}, list...)
	s.setArchive(list)

	b, err := json.Marshal(list)
	if err != nil {
		s.logger.Error(ctx, "encode archive", "error", err)
		return entry, true
	}
	if err := s.store.Set(ctx, common.ArchiveKey, string(b)); err != nil {
		s.logger.Error(ctx, "persist archive", "error", err)
	}
	return entry, true
}

// mergeUnsaved puts the entries of mem whose id is not in stored in front of
// stored, keeping their order.
func mergeUnsaved(mem, stored []models.ArchivedDocument) []models.ArchivedDocument {
	seen := make(map[int64]struct{}, len(stored))
	for _, a := range stored {
		seen[a.DocumentID] = struct{}{}
	}

	var out []models.ArchivedDocument
	for _, a := range mem {
		if _, ok := seen[a.DocumentID]; !ok {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return stored
	}
	return append(out, stored...)
}

func (s *documentService) isShared(doc models.Document) bool {
	st := s.session.State()
	if st.User == nil {
		return false
	}
	return doc.UploadedByID != st.User.UserID
}

// readArchive returns the stored archive. Unreadable data counts as empty.
func (s *documentService) readArchive(ctx context.Context) []models.ArchivedDocument {
	v, ok, err := s.store.Get(ctx, common.ArchiveKey)
	if err != nil {
		s.logger.Warn(ctx, "read archive", "error", err)
		return nil
	}
	if !ok || v == "" {
		return nil
	}

	var list []models.ArchivedDocument
	if err := json.Unmarshal([]byte(v), &list); err != nil {
		s.logger.Warn(ctx, "decode archive", "error", err)
		return nil
	}
	return list
}

func (s *documentService) setArchive(list []models.ArchivedDocument) {
	s.mu.Lock()
	s.archive = append([]models.ArchivedDocument(nil), list...)
	s.mu.Unlock()
}

func (s *documentService) LoadArchive(ctx context.Context) []models.ArchivedDocument {
	s.setArchive(s.readArchive(ctx))
	return s.Archive()
}

func (s *documentService) Archive() []models.ArchivedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ArchivedDocument{}, s.archive...)
}

// FilteredArchive keeps archive entries whose title contains text (ignoring
// case) and whose ownership matches tab. Archive order is preserved.
func (s *documentService) FilteredArchive(tab models.OwnershipTab, text string) []models.ArchivedDocument {
	return FilterArchive(s.Archive(), tab, text)
}

func FilterArchive(list []models.ArchivedDocument, tab models.OwnershipTab, text string) []models.ArchivedDocument {
	needle := strings.ToLower(text)
	out := []models.ArchivedDocument{}
	for _, a := range list {
		if !strings.Contains(strings.ToLower(a.Title), needle) {
			continue
		}
		switch tab {
		case models.TabMine:
			if a.IsShared {
				continue
			}
		case models.TabShared:
			if !a.IsShared {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// OpenArchived opens the local copy of an archived document.
func (s *documentService) OpenArchived(ctx context.Context, documentID int64) error {
	var entry *models.ArchivedDocument
	for _, a := range s.Archive() {
		if a.DocumentID == documentID {
			entry = &a
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("document %d: %w", documentID, common.ErrNotFound)
	}

	ok, err := filex.Exists(entry.LocalURI)
	if err != nil || !ok {
		notifyError(ctx, s.notifier, "Open", "The file is no longer on this device. Download it again.")
		return fmt.Errorf("%w: %s missing", ErrOpenFailed, entry.LocalURI)
	}

	if err := s.opener.Open(ctx, entry.LocalURI, filex.MimeType(entry.LocalURI, fallbackMIME)); err != nil {
		notifyError(ctx, s.notifier, "Open", "Could not open this document.")
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	return nil
}

/*************
 * Upload
 *************/

func (s *documentService) Upload(ctx context.Context, req UploadRequest) (models.Document, error) {
	st := s.session.State()
	if st.User == nil {
		return models.Document{}, ErrNotLoggedIn
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.FilePath == "" {
		return models.Document{}, fmt.Errorf("%w: title, description and file are required", common.ErrInvalidInput)
	}

	ok, err := filex.Exists(req.FilePath)
	if err != nil {
		return models.Document{}, err
	}
	if !ok {
		return models.Document{}, fmt.Errorf("%w: %s is not a file", common.ErrInvalidInput, req.FilePath)
	}

	doc, err := s.client.UploadDocument(ctx, models.Upload{
		Title:       req.Title,
		Description: req.Description,
		UserID:      st.User.UserID,
		FilePath:    req.FilePath,
		FileName:    filepath.Base(req.FilePath),
		MimeType:    filex.MimeType(req.FilePath, "application/octet-stream"),
	})
	if err != nil {
		s.logger.Warn(ctx, "upload", "path", req.FilePath, "error", err)
		return models.Document{}, err
	}

	notifyInfo(ctx, s.notifier, "Upload", fmt.Sprintf("%q was uploaded.", req.Title))
	return doc, nil
}

func (s *documentService) Close() {
	s.debouncer.Stop()
}
