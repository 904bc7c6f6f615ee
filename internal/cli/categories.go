package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/formatter"
)

var (
	categoryName        string
	categoryDescription string
)

func newCategoriesCommand() *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"event-types"},
		Short:   "Manage reminder categories",
	}

	categoriesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List reminder categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesList,
	})

	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Add a reminder category",
		Example: `  careminder categories create --name Dental --description "Cleanings and extractions"`,
		Args:    cobra.NoArgs,
		RunE:    runCategoriesCreate,
	}
	createCmd.Flags().StringVar(&categoryName, "name", "", "category name")
	createCmd.Flags().StringVar(&categoryDescription, "description", "", "what the category covers")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("description")
	categoriesCmd.AddCommand(createCmd)

	categoriesCmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a reminder category",
		Long:  "Delete a reminder category. Built-in categories cannot be deleted.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoriesDelete,
	})

	return categoriesCmd
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	types, err := api.NewEventTypesService(s.client).List(commandContext(cmd))
	if err != nil {
		return err
	}
	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatEventTypes(types)
	})
}

func runCategoriesCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(categoryName)
	description := strings.TrimSpace(categoryDescription)
	if name == "" || description == "" {
		return fmt.Errorf("name and description must not be blank")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	created, err := api.NewEventTypesService(s.client).Create(commandContext(cmd), api.NewEventType{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return err
	}
	s.notifier.Publish("Reminder category added")

	return s.write(func(f formatter.Formatter) ([]byte, error) {
		return f.FormatEventTypes([]api.EventType{*created})
	})
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	svc := api.NewEventTypesService(s.client)
	ctx := commandContext(cmd)

	types, err := svc.List(ctx)
	if err != nil {
		return err
	}
	for _, et := range types {
		if et.ID == args[0] && !et.IsDeletable {
			return fmt.Errorf("built-in reminder category %q cannot be deleted", et.Name)
		}
	}

	if err := svc.Remove(ctx, args[0]); err != nil {
		return err
	}
	s.notifier.Publish("Reminder category deleted")
	return nil
}
