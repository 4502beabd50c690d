package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	hasOnboarded() bool
	settle(ctx context.Context)

	Onboard(ctx context.Context) error
	Reset(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	Home(ctx context.Context) error
	Docs(ctx context.Context) error
	Search(ctx context.Context, keyword string) error
	Results(ctx context.Context) error
	Get(ctx context.Context, n int) error
	Upload(ctx context.Context) error
	Archive(ctx context.Context, args []string) error
	Open(ctx context.Context, documentID int64) error

	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	Avatar(ctx context.Context) error
	Theme(ctx context.Context) error
	Notifications(ctx context.Context) error
}

const (
	helpOnboarding = "Available commands: onboard, help, exit"
	helpLoggedOut  = "Available commands: register, login, reset, help, exit"
	helpLoggedIn   = "Available commands: home, docs, search [text], results, get <n>, upload, " +
		"archive [mine|shared|all] [text], open <id>, profile, passwd, avatar, theme, notifications, " +
		"whoami, logout, reset, help, exit"
)

// runREPL starts a simple read-eval-print loop for the docshelf CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn). Which commands are
// useful depends on the session:
//
//	Before onboarding:
//	  - onboard         finish the introduction
//	Logged out:
//	  - register        create an account
//	  - login           authenticate
//	  - reset           show the introduction again
//	Logged in:
//	  - home            greeting, own uploads and recent archive
//	  - docs            list own uploads
//	  - search [text]   search documents (debounced); no text lists all
//	  - results         show the latest search results
//	  - get <n>         download result n into the archive and open it
//	  - upload          publish a local file
//	  - archive ...     browse the archive by tab and title
//	  - open <id>       reopen an archived document
//	  - profile, passwd, avatar, theme, notifications, whoami, logout
//
// Errors returned by command handlers are printed as a single line; the loop
// keeps going. After every command the navigation guard runs via settle.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("docshelf %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			switch {
			case !a.hasOnboarded():
				printlnFn(helpOnboarding)
			case a.isLoggedIn():
				printlnFn(helpLoggedIn)
			default:
				printlnFn(helpLoggedOut)
			}

		case "onboard":
			err = a.Onboard(ctx)
		case "reset":
			err = a.Reset(ctx)
		case "register", "signup":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)

		case "home":
			err = a.Home(ctx)
		case "docs":
			err = a.Docs(ctx)
		case "search":
			err = a.Search(ctx, strings.Join(args, " "))
		case "results":
			err = a.Results(ctx)
		case "get":
			n, ok := intArg(args)
			if !ok || n < 1 {
				printlnFn("Usage: get <n>")
				continue
			}
			err = a.Get(ctx, int(n))
		case "upload":
			err = a.Upload(ctx)
		case "archive":
			err = a.Archive(ctx, args)
		case "open":
			id, ok := intArg(args)
			if !ok {
				printlnFn("Usage: open <id>")
				continue
			}
			err = a.Open(ctx, id)

		case "profile":
			err = a.Profile(ctx)
		case "passwd":
			err = a.Passwd(ctx)
		case "avatar":
			err = a.Avatar(ctx)
		case "theme":
			err = a.Theme(ctx)
		case "notifications":
			err = a.Notifications(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn("Error:", client.UserMessage(err))
		}
		a.settle(ctx)
	}
}

func intArg(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
