package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/api"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the clinic API is reachable",
		Long:  "Check the care reminder API and, when configured separately, the alert service.",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}
}

type healthTarget struct {
	name   string
	client *api.Client
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	targets := []healthTarget{{"Reminder API", s.client}}
	if s.alertsClient != s.client {
		targets = append(targets, healthTarget{"Alert service", s.alertsClient})
	}

	var failed int
	for _, target := range targets {
		status, err := target.client.Health(commandContext(cmd))
		if err != nil {
			failed++
			fmt.Fprintf(s.out, "%s %s (%s): %v\n", GetEmoji("error"), target.name, target.client.BaseURL(), err)
			continue
		}
		fmt.Fprintf(s.out, "%s %s (%s): %s\n", GetEmoji("health"), target.name, target.client.BaseURL(), status.Status)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d services unreachable", failed, len(targets))
	}
	return nil
}
