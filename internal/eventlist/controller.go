// Package eventlist keeps a paginated reminder list in sync with the filters.
package eventlist

import (
	"context"
	"fmt"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/filters"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/notify"
)

// Phase is what the list is loading, if anything
type Phase int

const (
	Idle Phase = iota
	LoadingInitial
	LoadingMore
)

func (p Phase) String() string {
	switch p {
	case LoadingInitial:
		return "loading_initial"
	case LoadingMore:
		return "loading_more"
	default:
		return "idle"
	}
}

// Lister fetches one page of events
type Lister interface {
	List(ctx context.Context, query api.EventsQuery) (*api.EventsPage, error)
}

// Request is a fetch the owner must run. Generation identifies it when the
// result comes back.
type Request struct {
	Generation uint64
	Filters    filters.State
	Append     bool
}

// Result is the outcome of running a Request
type Result struct {
	Generation uint64
	Page       *api.EventsPage
	Err        error
}

// Fetch runs req against l
func Fetch(ctx context.Context, l Lister, req Request) Result {
	page, err := l.List(ctx, req.Filters.Query())
	return Result{Generation: req.Generation, Page: page, Err: err}
}

// Controller is not safe for concurrent use. The owner drives it from a
// single goroutine and runs requests elsewhere.
type Controller struct {
	notifier notify.Publisher
	log      *logger.Logger

	items []api.Event
	total int
	phase Phase

	generation uint64
	append     bool
	filters    filters.State
	refreshKey int
	synced     bool
	closed     bool
}

// New creates an idle controller. Failures are published to n.
func New(n notify.Publisher, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		notifier: n,
		log:      log.WithComponent("eventlist"),
		items:    []api.Event{},
	}
}

// Sync compares f and refreshKey with the last seen values. On any change it
// starts a new generation and returns the request to run.
func (c *Controller) Sync(f filters.State, refreshKey int) (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	if c.synced && f.Equal(c.filters) && refreshKey == c.refreshKey {
		return Request{}, false
	}

	c.synced = true
	c.filters = f
	c.refreshKey = refreshKey
	c.generation++
	c.append = f.Page > 1

	if c.append {
		c.phase = LoadingMore
	} else {
		c.items = []api.Event{}
		c.phase = LoadingInitial
	}

	c.log.DebugWithFields("requesting events", []logger.Field{
		logger.F("generation", c.generation),
		logger.F("page", f.Page),
		logger.F("append", c.append),
	})

	return Request{Generation: c.generation, Filters: f, Append: c.append}, true
}

// Resolve applies a fetch result and reports whether it was current
func (c *Controller) Resolve(r Result) bool {
	if r.Err != nil {
		return c.Fail(r.Generation, r.Err)
	}
	return c.Apply(r.Generation, r.Page)
}

// Apply stores a fetched page. Results from older generations are dropped.
func (c *Controller) Apply(generation uint64, page *api.EventsPage) bool {
	if c.stale(generation) {
		c.log.Debug("dropping stale events page (generation %d, current %d)", generation, c.generation)
		return false
	}

	var events []api.Event
	var serverTotal *int
	if page != nil {
		events = page.Events
		serverTotal = page.Total
	}

	if c.append {
		c.items = append(c.items, events...)
	} else {
		c.items = append([]api.Event{}, events...)
	}
	c.total = EstimateTotal(c.total, c.append, len(c.items), serverTotal)
	c.phase = Idle
	return true
}

// Fail reports a fetch failure to the user. Items already loaded are kept.
func (c *Controller) Fail(generation uint64, err error) bool {
	if c.stale(generation) {
		return false
	}

	c.phase = Idle
	c.log.ErrorWithFields("failed to load events", []logger.Field{
		logger.F("generation", generation),
		logger.Error(err),
	})
	if c.notifier != nil {
		c.notifier.Publish(err.Error(), notify.Error)
	}
	return true
}

// Close marks every in-flight request stale
func (c *Controller) Close() {
	c.closed = true
	c.generation++
	c.phase = Idle
}

func (c *Controller) stale(generation uint64) bool {
	return c.closed || generation != c.generation
}

// LoadMore returns f advanced by one page when another page can be requested
func (c *Controller) LoadMore(f filters.State, busy bool) (filters.State, bool) {
	if !c.HasMore() || c.phase != Idle || busy {
		return f, false
	}
	return f.NextPage(), true
}

// HasMore reports whether the server holds more items than are loaded
func (c *Controller) HasMore() bool {
	return len(c.items) < c.total
}

// Items returns the loaded events
func (c *Controller) Items() []api.Event {
	return c.items
}

// Total returns the best known total count
func (c *Controller) Total() int {
	return c.total
}

// Phase returns the current load phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// Summary describes how much of the list is loaded
func (c *Controller) Summary() string {
	loaded := len(c.items)
	total := c.total
	if loaded > total {
		total = loaded
	}
	return fmt.Sprintf("Showing %d of %d reminders", loaded, total)
}

// EstimateTotal picks the total count after a page is applied. The server total
// wins when present. Otherwise a replace uses the held count and an append never
// shrinks the previous total.
func EstimateTotal(previousTotal int, appended bool, itemCount int, serverTotal *int) int {
	if serverTotal != nil {
		return *serverTotal
	}
	if !appended {
		return itemCount
	}
	if itemCount > previousTotal {
		return itemCount
	}
	return previousTotal
}
