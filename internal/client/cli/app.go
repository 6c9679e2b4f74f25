package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/dbx"
	"github.com/dmitrijs2005/userdesk/internal/filex"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// userService is the part of services.Coordinator the commands use.
type userService interface {
	Start(ctx context.Context)
	Refresh(ctx context.Context)
	SetSort(ctx context.Context, field models.SortField, order models.Order) error
	ToggleSort(ctx context.Context, field models.SortField) error
	SetFilter(field models.FilterField, value string) error
	FilterPending() bool
	AddUser(ctx context.Context, n models.NewUser) error
	DeleteUsers(ctx context.Context, ids []int64) error
	ToggleSelect(id int64)
	SelectAll(checked bool)
	Snapshot() services.State
	Subscribe(fn func(services.State)) (unsubscribe func())
	Settle(ctx context.Context) error
	Close()
}

type welcomeService interface {
	CheckFirstRun(ctx context.Context) (bool, error)
	FirstVisit(ctx context.Context) (time.Time, error)
	Reset(ctx context.Context) error
}

type App struct {
	config     *config.Config
	log        logging.Logger
	users      userService
	onboarding welcomeService
	in         LineReader
	out        io.Writer
	width      func() int
	closers    []func() error
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	for _, p := range []string{c.StateDBPath, c.HistoryFile} {
		if err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
	}

	db, err := client.InitDatabase(ctx, c.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.StateDBPath, "error", err)
		return nil, err
	}

	store, err := client.NewHTTPStore(c.BaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithDeleteConcurrency(c.DeleteConcurrency),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	in, out, err := newTerminal(c.HistoryFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	coord := services.NewCoordinator(store,
		services.WithDebounceWindow(c.DebounceWindow),
		services.WithCoordinatorLogger(log),
	)

	a := &App{
		config:     c,
		log:        log,
		users:      coord,
		onboarding: services.NewSQLiteOnboarding(dbx.NewTxRunner(db)),
		in:         in,
		out:        out,
		width:      terminalWidth,
	}
	a.closers = []func() error{
		func() error { coord.Close(); return nil },
		db.Close,
		in.Close,
	}
	return a, nil
}

// Run shows the welcome screen on the first run, loads the list and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "shutdown", "error", err)
		}
	}()

	unsubscribe := a.users.Subscribe(a.loadErrorNotifier())
	defer unsubscribe()

	fmt.Fprintln(a.out, "userdesk (type 'help' for commands)")
	a.showWelcomeOnFirstRun(ctx)

	a.users.Start(ctx)
	_ = a.List(ctx)

	runREPL(ctx, a, a.getStatus, a.in, a.out)
}

// Close releases everything NewApp acquired, in order.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	a.closers = nil
	return err
}

func (a *App) getStatus() string {
	st := a.users.Snapshot()
	return fmt.Sprintf("(%d users, %d selected, %s)", len(st.Users), len(st.Selected), st.Status)
}

// settleTimeout bounds how long a command waits for a debounced reload.
func (a *App) settleTimeout() time.Duration {
	if a.config == nil {
		return 10 * time.Second
	}
	return a.config.DebounceWindow + a.config.RequestTimeout
}

func (a *App) notifyOK(format string, args ...any) {
	fmt.Fprintf(a.out, "✔ "+format+"\n", args...)
}

func (a *App) notifyErr(format string, args ...any) {
	fmt.Fprintf(a.out, "✖ "+format+"\n", args...)
}

// loadErrorNotifier reports every load that ends in an error, including
// the ones started by the debounce timer in the background.
func (a *App) loadErrorNotifier() func(services.State) {
	var (
		mu   sync.Mutex
		last = services.StatusIdle
	)
	return func(st services.State) {
		mu.Lock()
		prev := last
		last = st.Status
		mu.Unlock()

		if prev == services.StatusLoading && st.Status == services.StatusError {
			a.notifyErr("%s", st.Err)
		}
	}
}
