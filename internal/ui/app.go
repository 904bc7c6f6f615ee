package ui

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/daterange"
	"github.com/yildizm/careminder/internal/eventlist"
	"github.com/yildizm/careminder/internal/filters"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/notify"
	"github.com/yildizm/careminder/internal/pending"
)

// Options configures the TUI
type Options struct {
	PageSize        int
	ToastDuration   time.Duration
	OverlayInterval time.Duration
	MinDateToday    bool
	DateLayout      string // Go layout for the date fields
	Thresholds      alerts.Thresholds
	ClinicPolicies  string // sent with every alert generation
	Logger          *logger.Logger
	Notifier        *notify.Channel
	Now             func() time.Time
	ReadFile        func(string) ([]byte, error)
	Tick            func(time.Duration, func(time.Time) tea.Msg) tea.Cmd // defaults to tea.Tick
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = filters.DefaultPageSize
	}
	if o.ToastDuration <= 0 {
		o.ToastDuration = 3 * time.Second
	}
	if o.OverlayInterval <= 0 {
		o.OverlayInterval = 4 * time.Second
	}
	if o.DateLayout == "" {
		o.DateLayout = "01/02/2006"
	}
	if o.Thresholds == (alerts.Thresholds{}) {
		o.Thresholds = alerts.DefaultThresholds()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Notifier == nil {
		o.Notifier = notify.New()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.ReadFile == nil {
		o.ReadFile = os.ReadFile
	}
	if o.Tick == nil {
		o.Tick = tea.Tick
	}
	return o
}

// focus identifies the panel receiving keys
type focus int

const (
	focusRecords focus = iota
	focusCategories
	focusStartDate
	focusEndDate
	focusEvents
	focusCount
)

// App is the top-level TUI model. It owns the filters, the pending counter,
// the refresh key and the notification subscription.
type App struct {
	svc    Services
	opts   Options
	log    *logger.Logger
	keys   keyMap
	styles *Styles

	ctx    context.Context
	cancel context.CancelFunc

	notifier *notify.Channel
	sub      notify.Subscription
	inboxMu  sync.Mutex
	inbox    []notify.Notification

	pending    *pending.Counter
	filters    filters.State
	refreshKey int
	list       *eventlist.Controller

	records        []api.MedicalRecord
	recordsLoading bool
	types          []api.EventType
	typesLoading   bool

	focus       focus
	recordIdx   int
	typeIdx     int
	eventIdx    int
	dates       *daterange.Selector
	startInput  *dateInput
	endInput    *dateInput
	dialog      *dialog
	confirm     *confirmation
	alertsView  *alertsView
	spinner     spinner.Model
	help        help.Model
	toast       *toast
	toastSeq    int
	overlayIdx  int
	overlayLive bool

	width    int
	height   int
	quitting bool
}

// New creates the app and subscribes it to the notification channel
func New(svc Services, opts Options) *App {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		svc:            svc,
		opts:           opts,
		log:            opts.Logger.WithComponent("ui"),
		keys:           defaultKeyMap(),
		styles:         GetStyles(),
		ctx:            ctx,
		cancel:         cancel,
		notifier:       opts.Notifier,
		pending:        pending.New(),
		filters:        filters.Default(opts.PageSize),
		recordsLoading: true,
		typesLoading:   true,
		startInput:     &dateInput{},
		endInput:       &dateInput{},
		help:           help.New(),
	}
	a.list = eventlist.New(a.notifier, opts.Logger)
	a.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	selOpts := daterange.Options{
		Now:      opts.Now,
		OnChange: a.onDateChange,
	}
	if opts.MinDateToday {
		selOpts.MinDate = daterange.Normalize(opts.Now())
	}
	a.dates = daterange.New(selOpts)
	a.dates.SetAnchor(daterange.FieldStart, a.startInput)
	a.dates.SetAnchor(daterange.FieldEnd, a.endInput)

	a.sub = a.notifier.Subscribe(a.receive)
	return a
}

// receive queues a notification for the next update
func (a *App) receive(n notify.Notification) {
	a.inboxMu.Lock()
	defer a.inboxMu.Unlock()
	a.inbox = append(a.inbox, n)
}

// Init loads categories, patient files and the first page of reminders
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadRecords(),
		a.loadTypes(),
		a.syncEvents(),
		a.spinner.Tick,
	)
}

// Update handles messages, then runs the effects every update shares:
// the event list follows the filters and queued notifications become a toast.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.handle(msg)
	if a.quitting {
		return a, cmd
	}

	a.dates.SetDisabled(a.pending.Busy())
	return a, tea.Batch(cmd, a.syncEvents(), a.flushNotifications(), a.ensureOverlayTick())
}

func (a *App) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		return nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd
	case recordsLoadedMsg:
		a.handleRecordsLoaded(msg)
		return nil
	case typesLoadedMsg:
		a.handleTypesLoaded(msg)
		return nil
	case eventsLoadedMsg:
		a.list.Resolve(msg.result)
		a.eventIdx = clamp(a.eventIdx, len(a.list.Items()))
		return nil
	case recordsChangedMsg:
		a.handleRecordsChanged(msg)
		return nil
	case typesChangedMsg:
		a.handleTypesChanged(msg)
		return nil
	case alertsGeneratedMsg:
		a.handleAlertsGenerated(msg)
		return nil
	case toastExpiredMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return nil
	case overlayTickMsg:
		return a.handleOverlayTick()
	}
	return nil
}

// syncEvents starts a fetch when the filters or refresh key changed
func (a *App) syncEvents() tea.Cmd {
	req, ok := a.list.Sync(a.filters, a.refreshKey)
	if !ok {
		return nil
	}
	ctx, lister := a.ctx, a.svc.Events
	return func() tea.Msg {
		return eventsLoadedMsg{result: eventlist.Fetch(ctx, lister, req)}
	}
}

func (a *App) loadRecords() tea.Cmd {
	a.recordsLoading = true
	ctx, svc := a.ctx, a.svc.Records
	return func() tea.Msg {
		records, err := svc.List(ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

func (a *App) loadTypes() tea.Cmd {
	a.typesLoading = true
	ctx, svc := a.ctx, a.svc.EventTypes
	return func() tea.Msg {
		types, err := svc.List(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
}

func (a *App) handleRecordsLoaded(msg recordsLoadedMsg) {
	a.recordsLoading = false
	if msg.err != nil {
		a.fail("failed to load patient files", msg.err)
		return
	}
	a.records = msg.records
	a.recordIdx = clamp(a.recordIdx, len(a.records))
}

func (a *App) handleTypesLoaded(msg typesLoadedMsg) {
	a.typesLoading = false
	if msg.err != nil {
		a.fail("failed to load reminder categories", msg.err)
		return
	}
	a.types = msg.types
	a.typeIdx = clamp(a.typeIdx, len(a.types))
}

// fail logs err and shows it as an error toast
func (a *App) fail(what string, err error) {
	a.log.ErrorWithFields(what, []logger.Field{logger.Error(err)})
	a.notifier.Publish(err.Error(), notify.Error)
}

// onDateChange receives accepted calendar selections
func (a *App) onDateChange(r daterange.Range) {
	if a.pending.Busy() {
		return
	}
	start, end := r.Strings()
	a.filters = a.filters.SetDateRange(start, end)
}

// resetFilters restores the default filters and clears the date fields
func (a *App) resetFilters() {
	a.filters = filters.Default(a.opts.PageSize)
	a.dates.SetValue(daterange.Range{})
}

// Filters returns the current filter state
func (a *App) Filters() filters.State {
	return a.filters
}

// Busy reports whether a mutation is in flight
func (a *App) Busy() bool {
	return a.pending.Busy()
}

// Close releases the subscription and marks in-flight fetches stale
func (a *App) Close() {
	a.notifier.Unsubscribe(a.sub)
	a.list.Close()
	a.cancel()
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.Close()
	return tea.Quit
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Run starts the TUI on the alternate screen
func Run(svc Services, opts Options) error {
	app := New(svc, opts)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
