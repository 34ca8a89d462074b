package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

type clientsState int

const (
	clientsStateBrowse clientsState = iota
	clientsStateCreate
)

type ClientsModel struct {
	CommonModel
	clientService *client.Service

	state   clientsState
	table   table.Model
	clients []*client.Client
	form    *huh.Form

	loading bool
	status  string
	err     error

	draft *clientDraft
}

// clientDraft is shared by model copies so huh can write into it.
type clientDraft struct {
	Name    string
	Email   string
	Address string
}

func NewClientsModel(clientSvc *client.Service) ClientsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Email", Width: 30},
		{Title: "Address", Width: 40},
	}

	return ClientsModel{
		clientService: clientSvc,
		table:         newTable(columns, 15),
		loading:       true,
	}
}

func (m ClientsModel) Title() string { return "Clients" }

func (m ClientsModel) ShortHelp() string {
	if m.state == clientsStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new client | r: refresh"
}

func (m ClientsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClientsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.clients = msg.clients
		m.refreshTable()

		return m, nil

	case clientSavedMsg:
		m.state = clientsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Created %s.", msg.client.Name)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == clientsStateCreate {
		return m.updateCreate(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterCreate()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ClientsModel) enterCreate() (tea.Model, tea.Cmd) {
	m.draft = &clientDraft{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.draft.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.draft.Email),
			huh.NewText().
				Key("address").
				Title("Address").
				Lines(3).
				Value(&m.draft.Address),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = clientsStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m ClientsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = clientsStateBrowse
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

	return m, m.saveCmd()
}

func (m ClientsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading clients...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("Clients (%d)", len(m.clients))),
		framed(m.table.View()),
	)

	if m.state == clientsStateCreate && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("New Client", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + m.ShortHelp())
}

func (m *ClientsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.clients))
	for _, c := range m.clients {
		rows = append(rows, table.Row{c.Name, c.Email, strings.ReplaceAll(c.Address, "\n", ", ")})
	}

	m.table.SetRows(rows)
}

// Messages

type loadClientsMsg struct {
	clients []*client.Client
	err     error
}

func (m ClientsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clients, err := m.clientService.List(ctx)

		return loadClientsMsg{clients: clients, err: err}
	}
}

type clientSavedMsg struct {
	client *client.Client
	err    error
}

func (m ClientsModel) saveCmd() tea.Cmd {
	params := client.CreateParams{Name: m.draft.Name, Email: m.draft.Email, Address: m.draft.Address}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.clientService.Create(ctx, params)

		return clientSavedMsg{client: c, err: err}
	}
}
