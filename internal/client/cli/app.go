package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
	"github.com/dmitrijs2005/docshelf/internal/client/config"
	"github.com/dmitrijs2005/docshelf/internal/client/opener"
	"github.com/dmitrijs2005/docshelf/internal/client/services"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/client/storage"
	"github.com/dmitrijs2005/docshelf/internal/client/transfer"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// App is the CLI composition root. It owns the local database, the API
// client, the services and the location the user is currently at.
type App struct {
	config *config.Config
	logger logging.Logger
	out    io.Writer
	reader *bufio.Reader

	closer  io.Closer
	api     client.Client
	session *session.Manager
	auth    services.AuthService
	account services.AccountService
	docs    services.DocumentService
	theme   services.ThemeService
	notices *services.NotificationCenter

	// location is only touched by the REPL goroutine.
	location session.Location

	// wg tracks background downloads started by "get".
	wg sync.WaitGroup
}

// appDeps are the collaborators NewApp builds from configuration. Tests
// assemble them from fakes.
type appDeps struct {
	out        io.Writer
	in         io.Reader
	closer     io.Closer
	store      storage.Store
	api        client.Client
	downloader transfer.Downloader
	opener     opener.Opener
}

// NewApp opens the local database, builds the API client and the services,
// and returns an App reading commands from stdin.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerBaseURL, &http.Client{Timeout: c.RequestTimeout}, logger)

	// Document files can be large; their transfers are bounded by ctx only.
	dl := transfer.NewManager(&http.Client{}, transfer.S3Config{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}, logger)

	return newApp(c, logger, appDeps{
		out:        os.Stdout,
		in:         os.Stdin,
		closer:     db,
		store:      storage.NewSQLiteStore(db),
		api:        api,
		downloader: dl,
		opener:     opener.NewSystemOpener(),
	}), nil
}

func newApp(c *config.Config, logger logging.Logger, d appDeps) *App {
	a := &App{
		config: c,
		logger: logger,
		out:    d.out,
		reader: bufio.NewReader(d.in),
		closer: d.closer,
		api:    d.api,
	}

	a.notices = services.NewNotificationCenter(d.out, logger)
	a.session = session.NewManager(d.store, logger)
	a.auth = services.NewAuthService(d.api, a.session, logger)
	a.account = services.NewAccountService(d.api, a.session, logger)
	a.theme = services.NewThemeService(d.store, logger)
	a.docs = services.NewDocumentService(services.DocumentDeps{
		Client:      d.api,
		Store:       d.store,
		Downloader:  d.downloader,
		Opener:      d.opener,
		Session:     a.session,
		Notifier:    a.notices,
		Logger:      logger,
		DownloadDir: c.DownloadDir,
		Debounce:    c.SearchDebounce,
	})

	a.session.OnTransition(a.onTransition)
	a.docs.OnResults(a.printResults)

	return a
}

// onTransition keeps the API token in step with the session user.
func (a *App) onTransition(kind session.TransitionKind, s session.State) {
	token := ""
	if s.User != nil {
		token = s.User.Token
	}
	a.api.SetToken(token)
	a.logger.Info(context.Background(), "session transition", "kind", kind.String(), "logged_in", s.IsLoggedIn())
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close waits for background downloads, stops pending searches and closes
// the local database.
func (a *App) Close() {
	a.wg.Wait()
	a.docs.Close()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn(context.Background(), "close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) hasOnboarded() bool {
	return a.session.State().HasOnboarded
}

// settle runs the navigation guard against the current location and moves
// the user if the session says they belong elsewhere.
func (a *App) settle(ctx context.Context) {
	next, redirect := session.NextLocation(a.session.State(), a.location)
	if !redirect {
		return
	}
	a.logger.Debug(ctx, "redirect", "from", a.location.String(), "to", next.String())
	a.location = next
	fmt.Fprintf(a.out, "-> %s\n", next)
}

// goTo moves to loc and applies the guard. It returns false when the guard
// sent the user somewhere else, in which case the command should stop.
func (a *App) goTo(ctx context.Context, loc session.Location) bool {
	a.location = loc
	a.settle(ctx)
	return a.location == loc
}
