package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

var errImportIncomplete = errors.New("import did not complete")

type importOptions struct {
	client string
	dryRun bool
}

func newImportCmd(app func() *App) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Create draft invoices from YYYY-MM-DD.csv timesheets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, app().Importer, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.client, "client", "", "client id or name applied to every file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the files without creating invoices")

	return cmd
}

func runImport(cmd *cobra.Command, svc *importer.Service, paths []string, opts importOptions) error {
	ctx := cmd.Context()

	sess, err := svc.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(sess.ID) }()

	if opts.client != "" {
		id, err := resolveClient(sess.Snapshot().Clients, opts.client)
		if err != nil {
			return err
		}

		if err := sess.SetGlobalClient(id); err != nil {
			return err
		}
	}

	for _, path := range paths {
		if err := addFile(sess, path); err != nil {
			return err
		}
	}

	printRecords(cmd, sess.Snapshot())

	if opts.dryRun {
		return nil
	}

	res, err := svc.Submit(ctx, sess.ID, func(p importer.Progress) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\rcreating invoices %d/%d", p.Attempted, p.Total)
	})
	fmt.Fprintln(cmd.ErrOrStderr())

	var blocked *importer.BlockedError
	if errors.As(err, &blocked) {
		fmt.Fprintln(cmd.OutOrStdout(), "Submission blocked:")

		for _, f := range blocked.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", f.Name, strings.Join(f.Reasons, ", "))
		}

		return errImportIncomplete
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d invoices.\n", res.Succeeded, res.Total)

	for _, f := range res.Failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  failed %s (%s): %s\n", f.File, f.InvoiceNumber, f.Message)
	}

	if res.Failed > 0 {
		return errImportIncomplete
	}

	return nil
}

func addFile(sess *importer.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := sess.AddFile(filepath.Base(path), f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return nil
}

// resolveClient accepts a client id or a case-insensitive client name.
func resolveClient(clients []importer.ClientOption, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	for _, c := range clients {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}

	return uuid.Nil, fmt.Errorf("no client named %q", ref)
}

func printRecords(cmd *cobra.Command, v importer.View) {
	names := make(map[uuid.UUID]string, len(v.Clients))
	for _, c := range v.Clients {
		names[c.ID] = c.Name
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FILE", "INVOICE", "CLIENT", "ISSUED", "DUE", "ITEMS", "STATUS", "ERRORS")

	for _, r := range v.Records {
		issued, due := "-", "-"
		if r.IssueDate != nil {
			issued = r.IssueDate.Format("2006-01-02")
		}

		if r.DueDate != nil {
			due = r.DueDate.Format("2006-01-02")
		}

		t.Row(
			r.Name,
			r.InvoiceNumber,
			names[r.ClientID],
			issued,
			due,
			fmt.Sprintf("%d", len(r.Items)),
			string(r.Status),
			strings.Join(r.Errors, "; "),
		)
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
}
