package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/config"
	"github.com/yildizm/careminder/internal/pending"
	"github.com/yildizm/careminder/internal/watch"
)

var watchDebounce time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Upload new patient files dropped into a directory",
		Long: `Watch a directory and upload every new PDF written into it.

Each file is uploaded once, after it has stopped changing for the debounce
interval. Without an argument the watch.directory setting is used. Press
Ctrl+C to stop watching.`,
		Example: `  careminder records watch ~/scans
  careminder records watch --debounce 2s /mnt/clinic/inbox`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before uploading (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	dir := s.cfg.Watch.Directory
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no directory given and watch.directory is not configured")
	}

	debounce := s.cfg.Watch.Debounce
	if cmd.Flag("debounce").Changed {
		debounce = watchDebounce
	}

	w, err := watch.New(config.ExpandPath(dir), api.NewMedicalRecordsService(s.client), watch.Options{
		Debounce: debounce,
		Pending:  pending.New(),
		Notifier: s.notifier,
		Logger:   s.log,
	})
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(s.errOut, "%s Watching %s for new patient files\n", GetEmoji("watch"), w.Dir())
	fmt.Fprintln(s.errOut, "Press Ctrl+C to stop...")

	if err := w.Run(ctx); err != nil {
		return err
	}

	if isVerbose() {
		fmt.Fprintf(s.errOut, "\nStopped after %d uploads\n", len(w.Uploaded()))
	}
	return nil
}
