// Package watch uploads patient files dropped into an inbox directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/notify"
	"github.com/yildizm/careminder/internal/pending"
)

// DefaultDebounce is how long a file must stay quiet before it is uploaded
const DefaultDebounce = 500 * time.Millisecond

// Uploader sends one patient file to the API
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*api.EventsPage, error)
}

// Result describes one finished upload
type Result struct {
	Path   string
	Events int
	Err    error
}

// Options configures an inbox watcher
type Options struct {
	Debounce time.Duration
	Pending  *pending.Counter
	Notifier notify.Publisher
	Logger   *logger.Logger
	OnResult func(Result)
}

// Watcher uploads each new .pdf file in a directory once
type Watcher struct {
	dir      string
	uploader Uploader
	opts     Options
	log      *logger.Logger

	mu       sync.Mutex
	timers   map[string]*time.Timer
	uploaded map[string]bool
}

// New validates dir and returns a watcher for it
func New(dir string, uploader Uploader, opts Options) (*Watcher, error) {
	if err := validateWatchDir(dir); err != nil {
		return nil, fmt.Errorf("invalid watch directory: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Pending == nil {
		opts.Pending = pending.New()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Watcher{
		dir:      filepath.Clean(dir),
		uploader: uploader,
		opts:     opts,
		log:      log.WithComponent("watch"),
		timers:   make(map[string]*time.Timer),
		uploaded: make(map[string]bool),
	}, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until ctx is canceled. Files present before Run are left alone.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.log.Warn("failed to close watcher: %v", err)
		}
	}()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	w.log.Info("watching %s", w.dir)

	ready := make(chan string)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if shouldHandle(event) {
				w.schedule(ctx, event.Name, ready)
			}

		case path := <-ready:
			w.upload(ctx, path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// schedule (re)starts the quiet-period timer for path
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.uploaded[path] {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// upload sends path through the pending counter and reports the outcome
func (w *Watcher) upload(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.uploaded[path] {
		w.mu.Unlock()
		return
	}
	w.uploaded[path] = true
	w.mu.Unlock()

	name := filepath.Base(path)
	result := Result{Path: path}

	result.Err = w.opts.Pending.Track(true, func() error {
		// #nosec G304 - path comes from the watched directory
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		page, err := w.uploader.Upload(ctx, name, data)
		if err != nil {
			return err
		}
		result.Events = len(page.Events)
		return nil
	})

	if result.Err != nil {
		w.log.ErrorWithFields("upload failed", []logger.Field{logger.F("file", name), logger.Error(result.Err)})
		w.publish(result.Err.Error(), notify.Error)
	} else {
		w.log.InfoWithFields("uploaded", []logger.Field{logger.F("file", name), logger.Count(result.Events)})
		w.publish(fmt.Sprintf("%s uploaded successfully", name), notify.Success)
	}

	if w.opts.OnResult != nil {
		w.opts.OnResult(result)
	}
}

func (w *Watcher) publish(message string, severity notify.Severity) {
	if w.opts.Notifier != nil {
		w.opts.Notifier.Publish(message, severity)
	}
}

// Uploaded returns the paths already handed to the uploader
func (w *Watcher) Uploaded() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.uploaded))
	for path := range w.uploaded {
		paths = append(paths, path)
	}
	return paths
}

// shouldHandle reports whether event is a create or write of a .pdf file
func shouldHandle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".pdf")
}

// validateWatchDir validates that path is an accessible directory
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
