package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateStatus
)

var statusFilters = []*invoice.Status{
	nil,
	new(invoice.StatusDraft),
	new(invoice.StatusSent),
	new(invoice.StatusPaid),
	new(invoice.StatusCancelled),
}

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service
	clientService  *client.Service

	state       invoicesState
	table       table.Model
	invoices    []*invoice.Invoice
	clientNames map[uuid.UUID]string
	detail      *invoice.Invoice
	form        *huh.Form
	newStatus   *invoice.Status

	statusFilterIdx int
	dateFilterIdx   int
	filter          invoice.ListFilter

	loading bool
	status  string
	err     error
}

func NewInvoicesModel(invoiceSvc *invoice.Service, clientSvc *client.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 26},
		{Title: "Client", Width: 22},
		{Title: "Issued", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 12},
	}

	return InvoicesModel{
		invoiceService: invoiceSvc,
		clientService:  clientSvc,
		table:          newTable(columns, 15),
		clientNames:    map[uuid.UUID]string{},
		loading:        true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == invoicesStateStatus {
		return "Select status | Esc: cancel"
	}

	return "Esc: back | Enter: details | p: set status | s: status filter | d: date filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.invoices = msg.invoices
		m.clientNames = msg.clientNames
		m.detail = nil
		m.refreshTable()

		return m, nil

	case invoiceDetailMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading invoice: %v", msg.err)
			return m, nil
		}

		m.detail = msg.invoice

		return m, nil

	case invoiceStatusMsg:
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error updating status: %v", msg.err)
			return m, nil
		}

		m.status = "Status updated."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStateStatus {
		return m.updateStatusForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.detail != nil {
				m.detail = nil
				return m, nil
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		case "enter":
			if inv := m.selected(); inv != nil {
				return m, m.detailCmd(inv.ID)
			}
		case "p":
			return m.enterStatusForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoicesModel) enterStatusForm() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.newStatus = new(inv.Status)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Status]().
				Key("status").
				Title("Status for " + inv.Number).
				Options(
					huh.NewOption("Draft", invoice.StatusDraft),
					huh.NewOption("Sent", invoice.StatusSent),
					huh.NewOption("Paid", invoice.StatusPaid),
					huh.NewOption("Cancelled", invoice.StatusCancelled),
				).
				Value(m.newStatus),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invoicesStateStatus
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoicesModel) updateStatusForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	return m, m.updateStatusCmd(inv.ID, *m.newStatus)
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	statusLabels := []string{"All", "Draft", "Sent", "Paid", "Cancelled"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Issued: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	)

	switch {
	case m.state == invoicesStateStatus && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("Update Status", m.form.View()))
	case m.detail != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel(m.detail.Number, m.detailView()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + m.ShortHelp())
}

func (m InvoicesModel) detailView() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Client: %s\n", m.clientNames[m.detail.ClientID])
	fmt.Fprintf(&b, "Issued: %s  Due: %s\n", FormatDate(m.detail.IssueDate), FormatDate(m.detail.DueDate))

	if m.detail.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", m.detail.Notes)
	}

	b.WriteString("\n")

	for _, it := range m.detail.Items {
		fmt.Fprintf(&b, "%s  %s\n    %s h x %s = %s\n",
			FormatDate(it.Date), it.Description,
			it.Hours.String(), FormatMoney(it.Rate), FormatMoney(it.Amount))
	}

	fmt.Fprintf(&b, "\nTotal: %s", FormatMoney(m.detail.Total))

	return b.String()
}

func (m *InvoicesModel) applyFilter() {
	m.filter.Status = statusFilters[m.statusFilterIdx]

	now := time.Now()

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			m.clientNames[inv.ClientID],
			FormatDate(inv.IssueDate),
			FormatDate(inv.DueDate),
			string(inv.Status),
			FormatMoney(inv.Total),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices    []*invoice.Invoice
	clientNames map[uuid.UUID]string
	err         error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clients, err := m.clientService.List(ctx)
		if err != nil {
			return loadInvoicesMsg{err: err}
		}

		names := make(map[uuid.UUID]string, len(clients))
		for _, c := range clients {
			names[c.ID] = c.Name
		}

		invoices, err := m.invoiceService.List(ctx, filter)

		return loadInvoicesMsg{invoices: invoices, clientNames: names, err: err}
	}
}

type invoiceDetailMsg struct {
	invoice *invoice.Invoice
	err     error
}

func (m InvoicesModel) detailCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoiceService.Get(ctx, id)

		return invoiceDetailMsg{invoice: inv, err: err}
	}
}

type invoiceStatusMsg struct {
	err error
}

func (m InvoicesModel) updateStatusCmd(id uuid.UUID, status invoice.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return invoiceStatusMsg{err: m.invoiceService.UpdateStatus(ctx, id, status)}
	}
}
