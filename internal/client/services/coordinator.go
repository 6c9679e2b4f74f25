// Package services contains the application services of the userdesk
// client: the user state coordinator and the onboarding (welcome) state.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/debounce"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// DefaultDebounceWindow is how long the filter must stay unchanged before
// it is sent to the store.
const DefaultDebounceWindow = 200 * time.Millisecond

// LoadErrorMessage is the user-facing text stored in State.Err when a list
// request fails.
const LoadErrorMessage = "failed to load users"

// Status is the load state of the user list.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// State is a copy of everything the presentation layer renders.
type State struct {
	Users  []models.User
	Status Status
	Err    string

	Sort models.Sort
	// Filter is the raw filter as typed; AppliedFilter is the debounced
	// value the current list was requested with.
	Filter        models.Filter
	AppliedFilter models.Filter

	Selected []int64
}

func (s State) Loading() bool {
	return s.Status == StatusLoading
}

func (s State) IsSelected(id int64) bool {
	return slices.Contains(s.Selected, id)
}

// AllSelected reports whether the list is non-empty and every loaded user
// is selected.
func (s State) AllSelected() bool {
	if len(s.Users) == 0 {
		return false
	}
	for _, u := range s.Users {
		if !s.IsSelected(u.ID) {
			return false
		}
	}
	return true
}

type CoordinatorOption func(*Coordinator)

func WithDebounceWindow(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.window = d }
}

func WithCoordinatorLogger(l logging.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.log = l }
}

// WithDebounceOptions is passed through to the filter debouncer.
func WithDebounceOptions(opts ...debounce.Option) CoordinatorOption {
	return func(c *Coordinator) { c.debounceOpts = append(c.debounceOpts, opts...) }
}

// Coordinator owns the user list together with its sort, filter and
// selection state, and mediates every read and write against the store.
//
// Sort changes and explicit mutations refetch on the caller's goroutine.
// Filter changes refetch from the debounce timer goroutine once the filter
// settles. Only the response of the most recent request is applied: each
// request takes a new token, and starting one cancels the one in flight.
type Coordinator struct {
	store        client.Store
	log          logging.Logger
	window       time.Duration
	debounceOpts []debounce.Option
	debouncer    *debounce.Debouncer[models.Filter]

	life context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	closed   bool
	users    []models.User
	status   Status
	errMsg   string
	sort     models.Sort
	filter   models.Filter
	applied  models.Filter
	selected []int64

	token          uint64
	cancelInFlight context.CancelFunc

	subs    map[int]func(State)
	nextSub int
}

func NewCoordinator(store client.Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:  store,
		log:    logging.Discard(),
		window: DefaultDebounceWindow,
		status: StatusIdle,
		sort:   models.DefaultSort(),
		users:  []models.User{},
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.life, c.stop = context.WithCancel(context.Background())
	c.debouncer = debounce.New(c.window, c.onFilterSettled, c.debounceOpts...)
	return c
}

// Start performs the initial load.
func (c *Coordinator) Start(ctx context.Context) {
	c.Refresh(ctx)
}

// Refresh reloads the list with the current sort and applied filter.
// Failures end up in State.Err; the previous users stay in place.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.token++
	token := c.token
	if c.cancelInFlight != nil {
		c.cancelInFlight()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	detach := context.AfterFunc(c.life, cancel)
	c.cancelInFlight = cancel
	c.status = StatusLoading
	c.errMsg = ""
	filter, sort := c.applied, c.sort
	c.mu.Unlock()
	c.notify()

	users, err := c.store.List(reqCtx, filter, sort)
	detach()
	cancel()

	c.mu.Lock()
	if token != c.token || c.closed {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded list response", "token", token)
		return
	}
	c.cancelInFlight = nil
	if err != nil {
		c.status = StatusError
		c.errMsg = LoadErrorMessage
	} else {
		c.status = StatusLoaded
		c.users = users
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn(ctx, "list users failed", "error", err, "filter", filter.String(), "sort", sort.String())
	} else {
		c.log.Info(ctx, "users loaded", "count", len(users), "filter", filter.String(), "sort", sort.String())
	}
	c.notify()
}

// SetSort replaces the sort and reloads.
func (c *Coordinator) SetSort(ctx context.Context, field models.SortField, order models.Order) error {
	f, err := models.ParseSortField(string(field))
	if err != nil {
		return err
	}
	o, err := models.ParseOrder(string(order))
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sort = models.Sort{Field: f, Order: o}
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// ToggleSort applies column-header semantics: the active ascending field
// flips to descending, anything else becomes ascending.
func (c *Coordinator) ToggleSort(ctx context.Context, field models.SortField) error {
	c.mu.Lock()
	next := c.sort.Toggle(field)
	c.mu.Unlock()
	return c.SetSort(ctx, next.Field, next.Order)
}

// SetFilter merges one field into the raw filter. The raw value is visible
// in State.Filter at once; the request follows after the debounce window.
func (c *Coordinator) SetFilter(field models.FilterField, value string) error {
	f, err := models.ParseFilterField(string(field))
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.filter = c.filter.With(f, value)
	// Set under the lock so the debouncer sees values in the same order as
	// the raw filter.
	c.debouncer.Set(c.filter)
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Coordinator) onFilterSettled(f models.Filter) {
	c.mu.Lock()
	if c.closed || f == c.applied {
		c.mu.Unlock()
		return
	}
	c.applied = f
	c.mu.Unlock()

	c.Refresh(c.life)
}

// FilterPending reports whether a filter change is still inside its
// debounce window.
func (c *Coordinator) FilterPending() bool {
	return c.debouncer.Pending()
}

// AddUser validates the form, derives the avatar from the name and creates
// the user. On success the list is reloaded from the store rather than
// appended to locally. Validation failures return models.FieldErrors and
// never reach the network; store failures are returned wrapped.
func (c *Coordinator) AddUser(ctx context.Context, n models.NewUser) error {
	if errs := models.ValidateNewUser(n); len(errs) > 0 {
		return errs
	}

	payload := n.WithDerivedPhoto()
	created, err := c.store.Create(ctx, payload)
	if err != nil {
		c.log.Error(ctx, "create user failed", "error", err)
		return fmt.Errorf("add user: %w", err)
	}
	c.log.Info(ctx, "user created", "id", created.ID)

	c.Refresh(ctx)
	return nil
}

// DeleteUsers deletes ids in one fan-out. On success the selection is
// cleared and the list reloaded. On failure the error is returned and the
// selection is left as it was; when only some ids failed the list is still
// reloaded so it no longer shows the users that are gone.
func (c *Coordinator) DeleteUsers(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	err := c.store.DeleteMany(ctx, ids)
	if err == nil {
		c.mu.Lock()
		c.selected = nil
		c.mu.Unlock()
		c.log.Info(ctx, "users deleted", "count", len(ids))
		c.notify()
		c.Refresh(ctx)
		return nil
	}

	c.log.Error(ctx, "delete users failed", "error", err)

	var de *client.DeleteError
	if errors.As(err, &de) && len(de.Failed) < de.Requested {
		c.Refresh(ctx)
	}

	return fmt.Errorf("delete users: %w", err)
}

// ToggleSelect adds id to the selection or removes it if present. The id is
// not checked against the loaded list.
func (c *Coordinator) ToggleSelect(id int64) {
	c.mu.Lock()
	c.toggleLocked(id)
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) toggleLocked(id int64) {
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return
	}
	c.selected = append(c.selected, id)
}

// SelectAll drives the select-all control through the single-id toggle.
// Checked adds every loaded id not yet selected; unchecked removes every
// selected id. Repeating either call changes nothing.
func (c *Coordinator) SelectAll(checked bool) {
	c.mu.Lock()
	if checked {
		for _, id := range models.IDs(c.users) {
			if !slices.Contains(c.selected, id) {
				c.toggleLocked(id)
			}
		}
	} else {
		for _, id := range slices.Clone(c.selected) {
			c.toggleLocked(id)
		}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() State {
	return State{
		Users:         slices.Clone(c.users),
		Status:        c.status,
		Err:           c.errMsg,
		Sort:          c.sort,
		Filter:        c.filter,
		AppliedFilter: c.applied,
		Selected:      slices.Clone(c.selected),
	}
}

// Subscribe registers fn to be called with a fresh State after every
// change. fn may run on any goroutine and must not call back into methods
// that block on the coordinator for long. The returned func unregisters fn.
func (c *Coordinator) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return
	}
	st := c.snapshotLocked()
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Settle waits until no filter change is pending and no request is in
// flight, or until ctx is done.
func (c *Coordinator) Settle(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		c.mu.Lock()
		busy := c.status == StatusLoading
		c.mu.Unlock()
		if !busy && !c.debouncer.Pending() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close cancels the pending filter, aborts the request in flight and waits
// for a debounced reload that is already running. Later calls are no-ops.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	c.debouncer.Stop()
}
