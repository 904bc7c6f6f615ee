package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/config"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/ui"
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive care reminder browser",
		Long: `Open the interactive terminal UI.

Filter reminders by patient file, category and date range, upload or delete
patient files, manage categories and generate alerts. Logs go to
output.log_file so they do not disturb the screen.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLogFile(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.NewWithWriter("tui", logger.Static(isVerbose()), logOut)

	client, err := newAPIClient(cfg, cfg.API.BaseURL, log)
	if err != nil {
		return err
	}
	alertsClient := client
	if cfg.AlertsBaseURL() != cfg.API.BaseURL {
		if alertsClient, err = newAPIClient(cfg, cfg.AlertsBaseURL(), log); err != nil {
			return err
		}
	}

	policies, err := alertsPolicyText(cfg.Alerts.PoliciesFile)
	if err != nil {
		return err
	}

	if !ui.SetThemeByName(cfg.UI.Theme) {
		return fmt.Errorf("unknown theme: %s", cfg.UI.Theme)
	}
	if noColor {
		// lipgloss and the views both honor NO_COLOR
		_ = os.Setenv("NO_COLOR", "1")
	}

	log.Info("starting TUI against %s", cfg.API.BaseURL)
	return ui.Run(ui.NewServices(client, alertsClient), ui.Options{
		PageSize:        cfg.Events.PageSize,
		ToastDuration:   cfg.UI.ToastDuration,
		OverlayInterval: cfg.UI.OverlayInterval,
		MinDateToday:    cfg.UI.MinDateToday,
		DateLayout:      cfg.UI.DateFormat,
		Thresholds: alerts.Thresholds{
			HighWithinDays:   cfg.Alerts.HighWithinDays,
			MediumWithinDays: cfg.Alerts.MediumWithinDays,
		},
		ClinicPolicies: policies,
		Logger:         log,
	})
}

// openLogFile opens path for appending. An empty path discards logs.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path comes from the user's configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
