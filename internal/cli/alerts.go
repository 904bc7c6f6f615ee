package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/config"
	"github.com/yildizm/careminder/internal/formatter"
	"github.com/yildizm/careminder/internal/notify"
)

var (
	alertsPolicies string
	alertsFromText bool
	alertsResponse bool
)

func newAlertsCommand() *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Generate follow-up alerts from patient files",
	}

	generateCmd := &cobra.Command{
		Use:   "generate FILE",
		Short: "Extract follow-up alerts from a patient file",
		Long: `Send a patient PDF to the alert service and list the follow-ups it finds,
with urgency derived from the due date.

Clinic policies from --policies (or alerts.policies_file) are sent along so
the extraction can apply clinic-specific schedules. With --text, FILE is a
plain text export of the record instead of a PDF. With --response, FILE is a
saved alert service reply, rendered without contacting the service.`,
		Example: `  careminder alerts generate rex.pdf
  careminder alerts generate --policies policies.yaml rex.pdf -o markdown
  careminder alerts generate --text rex.txt
  careminder alerts generate --response rex-alerts.json -o csv`,
		Args: cobra.ExactArgs(1),
		RunE: runAlertsGenerate,
	}
	generateCmd.Flags().StringVar(&alertsPolicies, "policies", "", "clinic policy file (YAML)")
	generateCmd.Flags().BoolVar(&alertsFromText, "text", false, "FILE is extracted record text")
	generateCmd.Flags().BoolVar(&alertsResponse, "response", false, "FILE is a saved alert response to render")
	generateCmd.MarkFlagsMutuallyExclusive("text", "response")
	generateCmd.MarkFlagsMutuallyExclusive("policies", "response")

	alertsCmd.AddCommand(generateCmd)
	return alertsCmd
}

func runAlertsGenerate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if alertsResponse {
		return renderSavedAlerts(s, args[0])
	}

	policyFile := s.cfg.Alerts.PoliciesFile
	if alertsPolicies != "" {
		policyFile = alertsPolicies
	}
	policies, err := alertsPolicyText(policyFile)
	if err != nil {
		return err
	}

	path := args[0]
	// #nosec G304 - path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	svc := api.NewAlertsService(s.alertsClient)
	ctx := commandContext(cmd)

	var resp *api.AlertResponse
	if alertsFromText {
		resp, err = svc.GenerateFromText(ctx, string(data), policies)
	} else {
		resp, err = svc.Generate(ctx, filepath.Base(path), data, policies)
	}
	if err != nil {
		return err
	}

	s.notifier.Publish(fmt.Sprintf("Found %d alerts in %s", len(resp.Alerts), filepath.Base(path)), notify.Info)

	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatAlerts(resp)
	})
}

// renderSavedAlerts prints a previously saved alert response
func renderSavedAlerts(s *session, path string) error {
	// #nosec G304 - path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	resp, err := alerts.ParseResponse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	s.notifier.Publish(fmt.Sprintf("Loaded %d alerts from %s", len(resp.Alerts), filepath.Base(path)), notify.Info)

	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatAlerts(resp)
	})
}

func alertsPolicyText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	text, err := alerts.PoliciesText(config.ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to load clinic policies: %w", err)
	}
	return text, nil
}
