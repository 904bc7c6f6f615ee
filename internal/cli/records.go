package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/formatter"
	"github.com/yildizm/careminder/internal/logger"
	"github.com/yildizm/careminder/internal/notify"
	"github.com/yildizm/careminder/internal/pending"
)

func newRecordsCommand() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"files"},
		Short:   "Manage patient files",
		Long: `Manage the patient PDF files the clinic API extracts reminders from.

Uploading a file creates its reminders; deleting it removes them.`,
	}

	recordsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded patient files",
		Args:  cobra.NoArgs,
		RunE:  runRecordsList,
	})
	recordsCmd.AddCommand(&cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload patient PDF files",
		Example: `  careminder records upload rex.pdf
  careminder records upload ~/scans/*.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecordsUpload,
	})
	recordsCmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a patient file and its reminders",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordsDelete,
	})
	recordsCmd.AddCommand(newWatchCommand())

	return recordsCmd
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	records, err := api.NewMedicalRecordsService(s.client).List(commandContext(cmd))
	if err != nil {
		return err
	}
	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatRecords(records)
	})
}

func runRecordsUpload(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	svc := api.NewMedicalRecordsService(s.client)
	failed := uploadFiles(commandContext(cmd), svc, args, s.cfg.API.MaxParallelUploads, pending.New(), s.notifier, s.log)

	records, err := svc.List(commandContext(cmd))
	if err != nil {
		return err
	}
	if err := s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatRecords(records)
	}); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

// recordUploader is the part of the records service uploads need
type recordUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*api.EventsPage, error)
}

// uploadFiles uploads paths with at most limit in flight and returns the number
// of failures. Each file reports through n.
func uploadFiles(ctx context.Context, svc recordUploader, paths []string, limit int, counter *pending.Counter, n notify.Publisher, log *logger.Logger) int {
	if limit < 1 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, path := range paths {
		g.Go(func() error {
			err := counter.Track(false, func() error {
				return uploadFile(gctx, svc, path, n)
			})
			if err != nil {
				log.ErrorWithFields("upload failed", []logger.Field{logger.F("path", path), logger.Error(err)})
				n.Publish(err.Error(), notify.Error)
				mu.Lock()
				failed++
				mu.Unlock()
			}
			// one bad file must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	return failed
}

func uploadFile(ctx context.Context, svc recordUploader, path string, n notify.Publisher) error {
	name := filepath.Base(path)
	// #nosec G304 - paths come from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	page, err := svc.Upload(ctx, name, data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	count := 0
	if page != nil {
		count = len(page.Events)
	}
	n.Publish(fmt.Sprintf("%s uploaded successfully (%d reminders)", name, count))
	return nil
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := api.NewMedicalRecordsService(s.client).Remove(commandContext(cmd), args[0]); err != nil {
		return err
	}
	s.notifier.Publish("Patient file deleted")
	return nil
}

// commandContext returns the command context, or Background outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
