package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/config"
	"github.com/yildizm/careminder/internal/formatter"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/notify"
)

// session bundles what every API command needs
type session struct {
	cfg          *config.Config
	log          *logger.Logger
	client       *api.Client
	alertsClient *api.Client
	notifier     *notify.Channel
	out          io.Writer
	errOut       io.Writer

	// guards errOut; uploads notify from several goroutines
	printMu sync.Mutex
}

// newSession loads the configuration and builds the API clients
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter("cli", logger.Static(isVerbose()), cmd.ErrOrStderr())

	client, err := newAPIClient(cfg, cfg.API.BaseURL, log)
	if err != nil {
		return nil, err
	}
	alertsClient := client
	if cfg.AlertsBaseURL() != cfg.API.BaseURL {
		if alertsClient, err = newAPIClient(cfg, cfg.AlertsBaseURL(), log); err != nil {
			return nil, err
		}
	}

	s := &session{
		cfg:          cfg,
		log:          log,
		client:       client,
		alertsClient: alertsClient,
		notifier:     notify.New(),
		out:          cmd.OutOrStdout(),
		errOut:       cmd.ErrOrStderr(),
	}
	s.notifier.Subscribe(s.printNotification)
	return s, nil
}

func newAPIClient(cfg *config.Config, baseURL string, log *logger.Logger) (*api.Client, error) {
	client, err := api.New(api.Config{
		BaseURL:       baseURL,
		Timeout:       cfg.API.Timeout,
		UploadTimeout: cfg.API.UploadTimeout,
		UserAgent:     cfg.API.UserAgent,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// printNotification writes notifications to stderr so stdout stays parseable
func (s *session) printNotification(n notify.Notification) {
	s.printMu.Lock()
	defer s.printMu.Unlock()
	fmt.Fprintf(s.errOut, "%s %s\n", GetSeverityEmoji(n.Severity), n.Message)
}

// formatter returns the formatter for the selected output format
func (s *session) formatter() (formatter.Formatter, error) {
	return formatter.New(getOutputFormat(), formatter.Options{
		Color: colorEnabled(s.cfg.Output.ColorMode, s.out),
		Thresholds: alerts.Thresholds{
			HighWithinDays:   s.cfg.Alerts.HighWithinDays,
			MediumWithinDays: s.cfg.Alerts.MediumWithinDays,
		},
		Now: time.Now,
	})
}

// write formats with fn and prints the result
func (s *session) write(fn func(formatter.Formatter) ([]byte, error)) error {
	f, err := s.formatter()
	if err != nil {
		return err
	}
	data, err := fn(f)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// colorEnabled resolves the color mode. auto means color only on a terminal.
func colorEnabled(mode string, w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
