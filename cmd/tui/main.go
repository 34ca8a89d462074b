package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/client"
	clientStore "github.com/MrJamesThe3rd/invoicer/internal/client/store"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
)

type model struct {
	clientService  *client.Service
	invoiceService *invoice.Service
	importService  *importer.Service

	currentView View

	importView   view.ImportModel
	invoicesView view.InvoicesModel
	clientsView  view.ClientsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewImport   View = 1
	ViewInvoices View = 2
	ViewClients  View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	clientSvc := client.NewService(clientStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db))
	importSvc := importer.NewService(clientSvc, invoiceSvc, importer.Config{
		DueDays:     cfg.Import.DueDays,
		PreviewRows: cfg.Import.PreviewRows,
		SessionTTL:  cfg.Import.SessionTTL,
	})

	return model{
		clientService:  clientSvc,
		invoiceService: invoiceSvc,
		importService:  importSvc,
		currentView:    ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService, m.clientService)

				return m, m.invoicesView.Init()
			case "3":
				m.currentView = ViewClients
				m.clientsView = view.NewClientsModel(m.clientService)

				return m, m.clientsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Invoicer TUI\n\n" +
				"1. Import Timesheets\n" +
				"2. Invoices\n" +
				"3. Clients\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewClients:
		return m.clientsView.View()
	}

	return "Unknown View"
}

func main() {
	// The terminal belongs to the UI; slog output goes to a file instead.
	f, err := tea.LogToFile("invoicer-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
