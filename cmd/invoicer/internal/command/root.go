// Package command holds the invoicer CLI commands.
package command

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

// App is what the commands run against. Close may be nil.
type App struct {
	Clients  *client.Service
	Importer *importer.Service
	Close    func() error
}

// Loader builds the App. It runs only for commands that need it, so help and
// flag errors never touch the database.
type Loader func() (*App, error)

func NewRootCmd(load Loader) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "invoicer",
		Short:         "Turn timesheet files into draft invoices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}

			app = a

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil || app.Close == nil {
				return nil
			}

			return app.Close()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	appFn := func() *App { return app }

	root.AddCommand(newImportCmd(appFn), newClientsCmd(appFn))

	return root
}
