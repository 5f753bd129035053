package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, words []string) error
	Show(ctx context.Context, ref string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
	Markers(ctx context.Context) error
	Prefs(ctx context.Context, args []string) error
	Export(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, when ctx is done, or when the user types "exit" or
// "quit".
//
//	Not logged in:
//	  help, register, login, prefs, exit | quit
//
//	Logged in:
//	  help
//	  (l)ist              entries passing the search filter
//	  search [words]      set the filter; no words clears it
//	  show <id>           print one entry
//	  new                 write an entry
//	  edit <id>           change an entry
//	  delete <id>         remove an entry
//	  markers             entries with a location
//	  prefs [...]         show or set preferences
//	  export              upload a backup (remote backend)
//	  logout, exit | quit
//
// IDs may be shortened to any unique prefix. Errors from handlers are
// already reported to the user, so the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mm %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() && needsLogin(cmd) {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, search, show, new, edit, delete, markers, prefs, export, logout, exit")
			} else {
				printlnFn("Available commands: register, login, prefs, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, args)

		case "show", "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				_ = a.Show(ctx, args[0])
			case "edit":
				_ = a.Edit(ctx, args[0])
			case "delete":
				_ = a.Delete(ctx, args[0])
			}

		case "new":
			_ = a.New(ctx)

		case "markers":
			_ = a.Markers(ctx)

		case "prefs":
			_ = a.Prefs(ctx, args)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "help", "register", "login", "prefs", "exit", "quit":
		return false
	}
	return true
}
