package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/services"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/common"
)

const (
	homeDocuments = 5
	homeArchived  = 3
)

// Home greets the user and shows their latest uploads and archived documents.
func (a *App) Home(ctx context.Context) error {
	if !a.goTo(ctx, session.Home) {
		return nil
	}
	u := a.session.State().User

	fmt.Fprintf(a.out, "Hello, %s!\n", u.DisplayName())

	docs := a.docs.ListUserDocuments(ctx, u.UserID)
	fmt.Fprintf(a.out, "\nYour documents (%d):\n", len(docs))
	a.printDocumentViews(docs, homeDocuments)

	archived := a.docs.Archive()
	fmt.Fprintf(a.out, "\nRecently archived (%d):\n", len(archived))
	a.printArchived(archived, homeArchived)
	return nil
}

// Docs lists every document the user uploaded.
func (a *App) Docs(ctx context.Context) error {
	if !a.goTo(ctx, session.Home) {
		return nil
	}
	u := a.session.State().User

	docs := a.docs.ListUserDocuments(ctx, u.UserID)
	a.printDocumentViews(docs, 0)
	return nil
}

// Search schedules a search for keyword. Results are printed when they
// arrive; typing another search before then replaces this one. With no
// keyword every document is listed right away.
func (a *App) Search(ctx context.Context, keyword string) error {
	if !a.goTo(ctx, session.Search) {
		return nil
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		// Failures reach the user through printResults.
		if _, err := a.docs.SearchNow(ctx, ""); err != nil {
			a.logger.Debug(ctx, "browse all documents", "error", err)
		}
		return nil
	}

	a.docs.Search(keyword)
	fmt.Fprintf(a.out, "Searching for %q...\n", keyword)
	return nil
}

// Results prints the latest accepted search outcome.
func (a *App) Results(ctx context.Context) error {
	if !a.goTo(ctx, session.Search) {
		return nil
	}
	a.printResults(a.docs.Results())
	return nil
}

// Get downloads result n of the latest search into the archive and opens it.
// The transfer runs in the background; only one runs at a time.
func (a *App) Get(ctx context.Context, n int) error {
	if !a.goTo(ctx, session.Search) {
		return nil
	}

	r := a.docs.Results()
	if n < 1 || n > len(r.Documents) {
		return fmt.Errorf("%w: no search result %d", common.ErrInvalidInput, n)
	}
	if a.docs.Downloading() {
		fmt.Fprintln(a.out, "A download is already in progress.")
		return nil
	}

	doc := r.Documents[n-1]
	fmt.Fprintf(a.out, "Downloading %q...\n", doc.Title)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.download(ctx, doc)
	}()
	return nil
}

func (a *App) download(ctx context.Context, doc models.Document) {
	res, err := a.docs.DownloadAndArchive(ctx, doc)
	switch {
	case res.State == services.DownloadSkipped:
		fmt.Fprintln(a.out, "A download is already in progress.")
	case errors.Is(err, services.ErrDownloadFailed):
		// The notice has been printed already.
		a.logger.Debug(ctx, "download ended", "document_id", doc.DocumentID, "state", res.State.String())
	case res.Added:
		fmt.Fprintf(a.out, "Saved %q to your archive: %s\n", res.Document.Title, res.Document.LocalURI)
	default:
		fmt.Fprintf(a.out, "%q is already in your archive: %s\n", res.Document.Title, res.Document.LocalURI)
	}
}

// Upload prompts for a title, a description and a local file and publishes
// the file as a new document.
func (a *App) Upload(ctx context.Context) error {
	if !a.goTo(ctx, session.UploadScreen) {
		return nil
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Path to file", a.out)
	if err != nil {
		return err
	}

	doc, err := a.docs.Upload(ctx, services.UploadRequest{
		Title:       title,
		Description: description,
		FilePath:    path,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Document #%d created.\n", doc.DocumentID)
	return nil
}

// Archive lists archived documents. The first argument may name a tab
// (mine, shared, all; mine by default); the rest is a title filter.
func (a *App) Archive(ctx context.Context, args []string) error {
	if !a.goTo(ctx, session.ArchiveScreen) {
		return nil
	}

	tab := models.TabMine
	if len(args) > 0 {
		if t, ok := models.ParseOwnershipTab(args[0]); ok {
			tab = t
			args = args[1:]
		}
	}
	text := strings.Join(args, " ")

	list := a.docs.FilteredArchive(tab, text)
	fmt.Fprintf(a.out, "Archive [%s] (%d):\n", tab, len(list))
	a.printArchived(list, 0)
	return nil
}

// Open reopens an archived document by id.
func (a *App) Open(ctx context.Context, documentID int64) error {
	if !a.goTo(ctx, session.ArchiveScreen) {
		return nil
	}
	if err := a.docs.OpenArchived(ctx, documentID); err != nil {
		if errors.Is(err, services.ErrOpenFailed) {
			// The notice has been printed already.
			return nil
		}
		return err
	}
	return nil
}

// ---- output ----

func (a *App) printResults(r services.SearchResults) {
	if r.Err != nil {
		fmt.Fprintf(a.out, "Search failed: %s\n", client.UserMessage(r.Err))
		if len(r.Documents) == 0 {
			return
		}
	}
	if r.Generation == 0 {
		fmt.Fprintln(a.out, "No search yet. Try 'search <text>', or 'search' for everything.")
		return
	}
	switch {
	case len(r.Documents) == 0 && r.Keyword == "":
		fmt.Fprintln(a.out, "No documents yet.")
		return
	case len(r.Documents) == 0:
		fmt.Fprintf(a.out, "No documents found for %q.\n", r.Keyword)
		return
	case r.Keyword == "":
		fmt.Fprintln(a.out, "All documents:")
	default:
		fmt.Fprintf(a.out, "Results for %q:\n", r.Keyword)
	}
	for i, d := range r.Documents {
		fmt.Fprintf(a.out, "%3d. %s  [%s, %s, rating %s]  by %s\n",
			i+1, d.Title, models.CategoryOf(d.FileType).Name, models.FormatFileSize(d.FileSize),
			d.RatingLabel(), d.UploadedByUsername)
	}
}

// printDocumentViews prints up to limit documents; limit 0 prints all.
func (a *App) printDocumentViews(docs []models.DocumentView, limit int) {
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "  (none)")
		return
	}
	for i, d := range docs {
		if limit > 0 && i == limit {
			fmt.Fprintf(a.out, "  ... and %d more\n", len(docs)-limit)
			return
		}
		fmt.Fprintf(a.out, "  #%d %s  [%s, %s]\n", d.DocumentID, d.Title, d.Category, d.SizeLabel)
	}
}

func (a *App) printArchived(list []models.ArchivedDocument, limit int) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "  (none)")
		return
	}
	for i, d := range list {
		if limit > 0 && i == limit {
			fmt.Fprintf(a.out, "  ... and %d more\n", len(list)-limit)
			return
		}
		owner := "mine"
		if d.IsShared {
			owner = "shared by " + d.UploadedByUsername
		}
		fmt.Fprintf(a.out, "  #%d %s  (%s)  %s\n", d.DocumentID, d.Title, owner, d.LocalURI)
	}
}
