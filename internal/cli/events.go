package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/daterange"
	"github.com/yildizm/careminder/internal/eventlist"
	"github.com/yildizm/careminder/internal/filters"
	"github.com/yildizm/careminder/internal/formatter"
)

var (
	eventsTypes    []string
	eventsRecords  []string
	eventsFrom     string
	eventsTo       string
	eventsPage     int
	eventsPageSize int
	eventsAll      bool
)

func newEventsCommand() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"reminders"},
		Short:   "Browse care reminders",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List care reminders",
		Long: `List care reminders, soonest first.

Filters combine: a reminder must match one of the given categories, one of the
given patient files and fall inside the date range. Use --all to fetch every
page.`,
		Example: `  careminder events list
  careminder events list --type 6f1c... --from 2024-03-01 --to 2024-03-31
  careminder events list --record 0b7e... --all -o csv`,
		Args: cobra.NoArgs,
		RunE: runEventsList,
	}

	listCmd.Flags().StringArrayVar(&eventsTypes, "type", nil, "reminder category id (repeatable)")
	listCmd.Flags().StringArrayVar(&eventsRecords, "record", nil, "patient file id (repeatable)")
	listCmd.Flags().StringVar(&eventsFrom, "from", "", "earliest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&eventsTo, "to", "", "latest date (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&eventsPage, "page", 1, "page to fetch")
	listCmd.Flags().IntVar(&eventsPageSize, "page-size", 0, "reminders per page (default from config)")
	listCmd.Flags().BoolVar(&eventsAll, "all", false, "fetch every remaining page")

	eventsCmd.AddCommand(listCmd)
	return eventsCmd
}

func runEventsList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	state, err := eventsFilters(s.cfg.Events.PageSize)
	if err != nil {
		return err
	}

	list := eventlist.New(s.notifier, s.log)
	if err := fetchEvents(commandContext(cmd), list, api.NewEventsService(s.client), state, eventsAll); err != nil {
		return err
	}

	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatEvents(&formatter.EventList{
			Events:  list.Items(),
			Total:   list.Total(),
			Filters: state,
		})
	})
}

// eventsFilters builds the filter state from the list flags
func eventsFilters(defaultPageSize int) (filters.State, error) {
	pageSize := eventsPageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < 1 || pageSize > 100 {
		return filters.State{}, fmt.Errorf("page size must be between 1 and 100")
	}
	if eventsPage < 1 {
		return filters.State{}, fmt.Errorf("page must be a positive integer")
	}

	for name, value := range map[string]string{"from": eventsFrom, "to": eventsTo} {
		if value != "" && daterange.ParseDay(value).IsZero() {
			return filters.State{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, value)
		}
	}
	if eventsFrom != "" && eventsTo != "" && eventsTo < eventsFrom {
		return filters.State{}, fmt.Errorf("--to must not be before --from")
	}

	state := filters.Default(pageSize).Apply(filters.Patch{}.
		WithEventTypes(eventsTypes).
		WithMedicalRecords(eventsRecords).
		WithDates(eventsFrom, eventsTo))
	return state.Apply(filters.Patch{}.WithPage(eventsPage)), nil
}

// fetchEvents loads the page in state, then every following page when all is set
func fetchEvents(ctx context.Context, list *eventlist.Controller, lister eventlist.Lister, state filters.State, all bool) error {
	defer list.Close()

	for {
		req, ok := list.Sync(state, 0)
		if !ok {
			return nil
		}
		result := eventlist.Fetch(ctx, lister, req)
		if result.Err != nil {
			return result.Err
		}
		list.Resolve(result)

		if !all {
			return nil
		}
		next, more := list.LoadMore(state, false)
		if !more {
			return nil
		}
		state = next
	}
}
