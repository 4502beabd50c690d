package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docshelf/internal/client/session"
)

// getStatus renders the prompt status: the location and, when logged in,
// the user's name.
func (a *App) getStatus() string {
	s := a.location.String()
	if u := a.session.State().User; u != nil {
		s = fmt.Sprintf("%s (%s)", s, u.DisplayName())
	}
	return s
}

// Root restores persisted state, places the user where the session says
// they belong and runs the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to docshelf (type 'help' for commands)")

	a.startup(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) startup(ctx context.Context) {
	a.session.Hydrate(ctx)
	theme := a.theme.Load(ctx)
	archived := a.docs.LoadArchive(ctx)

	a.logger.Info(ctx, "restored local state",
		"logged_in", a.session.IsLoggedIn(),
		"theme", string(theme),
		"archived", len(archived))

	a.location = session.Root
	a.settle(ctx)
}
