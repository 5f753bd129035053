package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/config"
	"github.com/dmitrijs2005/mymoment/internal/client/controllers"
	"github.com/dmitrijs2005/mymoment/internal/client/geo"
	"github.com/dmitrijs2005/mymoment/internal/client/preferences"
	"github.com/dmitrijs2005/mymoment/internal/client/session"
	"github.com/dmitrijs2005/mymoment/internal/client/store"
	"github.com/dmitrijs2005/mymoment/internal/logging"
)

type Mode string

const (
	ModeLocal   Mode = "local"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger is the reachability probe of the remote backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// exporter uploads the signed-in user's entries and returns a download link.
type exporter interface {
	ExportEntries(ctx context.Context) (key, url string, err error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend *backend

	gate    *session.Gate
	entries *store.Adapter
	list    *controllers.EntryList
	editor  *controllers.EntryEditor
	mapView *controllers.MapView
	prefs   *preferences.Store

	pinger     pinger
	exporter   exporter
	httpClient *http.Client

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	Mode Mode
}

// NewApp wires the backend chosen by c to a terminal on stdin and stdout.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	return newApp(ctx, c, logger, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	b, err := openBackend(ctx, c, logger)
	if err != nil {
		logger.Error(ctx, "error opening backend", "backend", c.Backend, "error", err)
		return nil, err
	}

	prefs, err := preferences.Open(ctx, b.meta)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		logger:  logger.With("module", "cli"),
		backend: b,
		prefs:   prefs,
		reader:  bufio.NewReader(in),
		out:     out,
		Mode:    ModeLocal,
	}

	a.gate = session.New(b.provider, logger, session.WithLoginFlag(prefs))
	a.entries = store.New(b.docs, a.gate, logger)
	a.list = controllers.NewEntryList(a.entries, a.gate, logger)
	a.mapView = controllers.NewMapView(a.list)

	opts := []controllers.EditorOption{
		controllers.WithLocator(promptLocator{reader: a.reader, out: a.out}),
	}
	if c.GeoapifyAPIKey != "" {
		opts = append(opts, controllers.WithGeocoder(geo.NewGeoapify(c.GeoapifyAPIKey, logger)))
	}
	a.editor = controllers.NewEntryEditor(a.entries, logger, opts...)

	if b.remote != nil {
		a.pinger = b.remote
		a.exporter = b.remote
		a.Mode = ModeOffline
	}
	return a, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run starts the session and the list, then blocks in the REPL until the
// user exits or stdin ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.gate.Start()
	a.list.Start()

	if a.backend.watch != nil {
		go func() {
			if err := a.backend.watch(ctx); err != nil {
				a.logger.Error(ctx, "entry watcher stopped", "error", err)
			}
		}()
	}
	if a.pinger != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	printlnFn("Welcome to MyMoment (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.mapView.Close()
	a.list.Close()
	a.entries.Close()
	a.gate.Close()
	if err := a.backend.Close(); err != nil {
		a.logger.Warn(context.Background(), "close backend", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.gate.Current() != nil
}

func (a *App) getStatus() string {
	s := ""
	if cur := a.gate.Current(); cur != nil {
		s = cur.User.Email + " "
	}
	s += string(a.mode())
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// connectivity mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if a.pinger == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.pinger.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
