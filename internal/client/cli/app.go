package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dmitrijs2005/hirehub/internal/client/client"
	"github.com/dmitrijs2005/hirehub/internal/client/config"
	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/client/services"
	"github.com/dmitrijs2005/hirehub/internal/client/session"
	"github.com/dmitrijs2005/hirehub/internal/filex"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

// MemoryStorePath selects a store that is not persisted.
const MemoryStorePath = ":memory:"

const SessionExpiredMessage = "Session expired. Please log in again."

type App struct {
	config *config.Config
	log    logging.Logger

	db    *sql.DB
	store session.Store
	auth  *services.AuthService
	panel *services.NotificationPanel
	jobs  *services.JobsService

	reader *bufio.Reader
	out    io.Writer

	// expired is raised by the navigator when the backend rejected the
	// session; the REPL reports it before the next prompt.
	expired atomic.Bool
}

// NewApp opens the session store and wires the HTTP client, its policies
// and the services. in and out are the terminal streams.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(in), out: out}

	if c.StorePath == MemoryStorePath {
		a.store = session.NewMemoryStore()
	} else {
		if err := filex.EnsureParentDir(c.StorePath); err != nil {
			return nil, err
		}
		db, err := session.InitDatabase(ctx, c.StorePath)
		if err != nil {
			log.Error(ctx, "error initializing session store", "path", c.StorePath, "error", err)
			return nil, err
		}
		a.db = db
		a.store = session.NewSQLStore(db)
	}

	notices := notify.NewConsole(out)

	navigator := client.NavigatorFunc(func(ctx context.Context) {
		if a.auth.SessionExpired(ctx) {
			a.expired.Store(true)
		}
	})

	hc, err := client.NewHTTPClient(c.APIBaseURL, a.store,
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond),
		client.WithLogger(log.With("component", "http")),
		client.WithPolicies(
			&client.AuthFailurePolicy{Store: a.store, Navigator: navigator, Logger: log},
			&client.NetworkFailurePolicy{Notifier: notices, Logger: log},
		),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	api := client.NewHTTPAPI(hc)
	a.auth = services.NewAuthService(api, a.store, notices, log.With("component", "auth"))
	a.panel = services.NewNotificationPanel(api, notices, log.With("component", "notifications"))
	a.jobs = services.NewJobsService(api, notices, log.With("component", "jobs"))

	return a, nil
}

// Close releases the session store.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// Run restores the previous session, starts background notification
// refresh and serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to HireHub CLI (type 'help' for commands)")

	a.panel.Attach(ctx, a.auth)
	defer a.panel.Detach()

	a.auth.Restore(ctx)

	go a.panel.Poll(ctx, a.config.NotificationPollInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

func (a *App) takeExpired() bool {
	return a.expired.Swap(false)
}
