package command

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

func newClientsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	cmd.AddCommand(newClientsListCmd(app), newClientsAddCmd(app))

	return cmd
}

func newClientsListCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := app().Clients.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(clients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clients yet.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "EMAIL")

			for _, c := range clients {
				t.Row(c.ID.String(), c.Name, c.Email)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			return nil
		},
	}
}

func newClientsAddCmd(app func() *App) *cobra.Command {
	var params client.CreateParams

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Name = args[0]

			c, err := app().Clients.Create(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", c.Name, c.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "billing email")
	cmd.Flags().StringVar(&params.Address, "address", "", "billing address")

	return cmd
}
