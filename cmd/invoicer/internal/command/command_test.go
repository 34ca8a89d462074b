package command_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/cmd/invoicer/internal/command"
	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const timesheet = `DATE,DESCRIPTION,HOURS,RATE,AMOUNT
2024-01-10,Design,2.5,100,250
2024-01-11,Build,3,80,240
`

var acme = &client.Client{ID: uuid.New(), Name: "Acme"}

type fixture struct {
	repo     *client.MockRepository
	invoices *importer.MockInvoiceCreator
	out      *bytes.Buffer
}

func run(t *testing.T, setup func(f *fixture), args ...string) (string, error) {
	t.Helper()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := &fixture{
		repo:     client.NewMockRepository(ctrl),
		invoices: importer.NewMockInvoiceCreator(ctrl),
		out:      &bytes.Buffer{},
	}
	setup(f)

	clients := client.NewService(f.repo)
	app := &command.App{
		Clients:  clients,
		Importer: importer.NewService(clients, f.invoices, importer.Config{DueDays: 30, SessionTTL: time.Hour}),
	}

	root := command.NewRootCmd(func() (*command.App, error) { return app, nil })
	root.SetOut(f.out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return f.out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestImport(t *testing.T) {
	type args struct {
		files []string
		flags []string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(f *fixture)
		wantErr   bool
		wantOut   []string
	}

	good := writeFile(t, "2024-01-15.csv", timesheet)
	other := writeFile(t, "2024-02-01.csv", timesheet)
	badName := writeFile(t, "january.csv", timesheet)

	tests := []testCase{
		{
			name: "CreatesOneInvoicePerFile",
			args: args{files: []string{good, other}, flags: []string{"--client", "acme"}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
				f.invoices.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p invoice.CreateParams) (*invoice.Invoice, error) {
						assert.Equal(t, acme.ID, p.ClientID)
						assert.Equal(t, invoice.StatusDraft, p.Status)

						return &invoice.Invoice{ID: uuid.New(), Number: p.Number}, nil
					}).Times(2)
			},
			wantOut: []string{"Created 2 of 2 invoices."},
		},
		{
			name: "AcceptsClientID",
			args: args{files: []string{good}, flags: []string{"--client", acme.ID.String()}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
				f.invoices.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&invoice.Invoice{}, nil)
			},
			wantOut: []string{"Created 1 of 1 invoices."},
		},
		{
			name: "BlockedWithoutClient",
			args: args{files: []string{good}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
			},
			wantErr: true,
			wantOut: []string{"Submission blocked:", "Client not selected"},
		},
		{
			name: "BlockedByFilename",
			args: args{files: []string{good, badName}, flags: []string{"--client", "Acme"}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
			},
			wantErr: true,
			wantOut: []string{"january.csv", importer.MsgFilenameFormat},
		},
		{
			name: "PartialFailureReported",
			args: args{files: []string{good, other}, flags: []string{"--client", "acme"}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
				gomock.InOrder(
					f.invoices.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, invoice.ErrDuplicateNumber),
					f.invoices.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&invoice.Invoice{}, nil),
				)
			},
			wantErr: true,
			wantOut: []string{"Created 1 of 2 invoices.", "failed 2024-01-15.csv"},
		},
		{
			name: "DryRunCreatesNothing",
			args: args{files: []string{good}, flags: []string{"--client", "acme", "--dry-run"}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
			},
			wantOut: []string{"2024-01-15.csv", "ready"},
		},
		{
			name: "UnknownClientName",
			args: args{files: []string{good}, flags: []string{"--client", "initech"}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
			},
			wantErr: true,
		},
		{
			name: "MissingFile",
			args: args{files: []string{filepath.Join(t.TempDir(), "2024-01-15.csv")}},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().ListClients(gomock.Any()).Return(nil, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmdArgs := append([]string{"import"}, tt.args.files...)
			cmdArgs = append(cmdArgs, tt.args.flags...)

			out, err := run(t, tt.setupMock, cmdArgs...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestClientsList(t *testing.T) {
	out, err := run(t, func(f *fixture) {
		f.repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{acme}, nil)
	}, "clients", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, acme.ID.String())
}

func TestClientsAdd(t *testing.T) {
	out, err := run(t, func(f *fixture) {
		f.repo.EXPECT().CreateClient(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *client.Client) error {
				assert.Equal(t, "Initech", c.Name)
				assert.Equal(t, "billing@initech.test", c.Email)
				c.ID = uuid.New()

				return nil
			})
	}, "clients", "add", "Initech", "--email", "billing@initech.test")

	require.NoError(t, err)
	assert.Contains(t, out, "Created client Initech")
}

func TestLoaderError(t *testing.T) {
	root := command.NewRootCmd(func() (*command.App, error) { return nil, errors.New("no database") })
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"clients", "list"})

	require.EqualError(t, root.Execute(), "no database")
}
