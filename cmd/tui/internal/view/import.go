package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

type importState int

const (
	importStateLoading importState = iota
	importStateReview
	importStateFilePick
	importStateEdit
	importStateGlobalClient
	importStateSubmitting
	importStateResult
)

type importDraft struct {
	ClientID  uuid.UUID
	IssueDate string
	DueDate   string
}

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	session    *importer.Session
	table      table.Model
	filePicker filepicker.Model
	spinner    spinner.Model
	form       *huh.Form
	draft      *importDraft
	editIndex  int

	progress importer.Progress
	events   chan tea.Msg
	result   *importer.Result
	blocked  *importer.BlockedError

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	columns := []table.Column{
		{Title: "File", Width: 18},
		{Title: "Invoice", Width: 24},
		{Title: "Client", Width: 16},
		{Title: "Issued", Width: 10},
		{Title: "Due", Width: 10},
		{Title: "Items", Width: 5},
		{Title: "Status", Width: 7},
	}

	return ImportModel{
		importService: impSvc,
		table:         newTable(columns, 12),
		filePicker:    fp,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m ImportModel) Title() string { return "Import Timesheets" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateFilePick:
		return "Enter: add file | Esc: done"
	case importStateEdit, importStateGlobalClient:
		return "Enter: next/confirm | Esc: cancel"
	case importStateResult:
		return "Esc: back to batch"
	case importStateSubmitting, importStateLoading:
		return ""
	}

	return "Esc: back | a: add files | e: edit | x: remove | g: global client | s: submit"
}

func (m ImportModel) Init() tea.Cmd {
	return m.openCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = importStateResult

			return m, nil
		}

		m.session = msg.session
		m.state = importStateReview
		m.refreshTable()

		return m, nil

	case fileAddedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not add %s: %v", msg.name, msg.err)
		} else {
			m.status = fmt.Sprintf("Added %s (%s)", msg.record.Name, msg.record.DisplayStatus())
		}

		m.refreshTable()

		return m, nil

	case submitProgressMsg:
		m.progress = msg.progress
		return m, waitForSubmit(m.events)

	case submitDoneMsg:
		m.events = nil
		m.state = importStateResult
		m.result = msg.result
		m.blocked = nil
		m.err = nil

		var blocked *importer.BlockedError
		if errors.As(msg.err, &blocked) {
			m.blocked = blocked
		} else if msg.err != nil {
			m.err = msg.err
		}

		m.refreshTable()

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateSubmitting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateEdit, importStateGlobalClient:
		return m.updateForm(msg)
	case importStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			if m.session == nil {
				return m, Back
			}

			m.state = importStateReview
			m.result = nil
			m.blocked = nil
			m.err = nil

			return m, nil
		}

		return m, nil
	case importStateReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if err := m.importService.Close(m.session.ID); err != nil && !errors.Is(err, importer.ErrSessionNotFound) {
				m.status = fmt.Sprintf("Error closing session: %v", err)
			}

			return m, Back
		case "a":
			m.state = importStateFilePick
			m.table.Blur()

			return m, m.filePicker.Init()
		case "e":
			return m.enterEditForm()
		case "g":
			return m.enterGlobalClientForm()
		case "x":
			idx := m.table.Cursor()
			if err := m.session.Remove(idx); err != nil {
				m.status = fmt.Sprintf("Error: %v", err)
				return m, nil
			}

			m.status = "File removed."
			m.refreshTable()

			return m, nil
		case "s":
			return m.startSubmit()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = importStateReview
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Reading %s...", filepath.Base(path))
		return m, tea.Batch(cmd, m.addFileCmd(path))
	}

	return m, cmd
}

func (m ImportModel) clientOptions() []huh.Option[uuid.UUID] {
	opts := []huh.Option[uuid.UUID]{huh.NewOption("(none)", uuid.Nil)}
	for _, c := range m.session.Snapshot().Clients {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return opts
}

func (m ImportModel) enterEditForm() (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(snap.Records) {
		return m, nil
	}

	rec := snap.Records[idx]
	m.editIndex = idx
	m.draft = &importDraft{
		ClientID:  rec.ClientID,
		IssueDate: optionalDateInput(rec.IssueDate),
		DueDate:   optionalDateInput(rec.DueDate),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Key("client").
				Title("Client").
				Options(m.clientOptions()...).
				Value(&m.draft.ClientID),
			huh.NewInput().
				Key("issue").
				Title("Issue date (YYYY-MM-DD)").
				Validate(validateOptionalDate).
				Value(&m.draft.IssueDate),
			huh.NewInput().
				Key("due").
				Title("Due date (YYYY-MM-DD)").
				Validate(validateOptionalDate).
				Value(&m.draft.DueDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = importStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ImportModel) enterGlobalClientForm() (tea.Model, tea.Cmd) {
	m.draft = &importDraft{ClientID: m.session.Snapshot().GlobalClientID}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Key("client").
				Title("Default client for files without one").
				Options(m.clientOptions()...).
				Value(&m.draft.ClientID),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = importStateGlobalClient
	m.table.Blur()

	return m, m.form.Init()
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = importStateReview
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

	if m.state == importStateGlobalClient {
		m.applyGlobalClient()
	} else {
		m.applyEdit()
	}

	m.state = importStateReview
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m *ImportModel) applyEdit() {
	if _, err := m.session.SetClient(m.editIndex, m.draft.ClientID); err != nil {
		m.status = fmt.Sprintf("Error setting client: %v", err)
		return
	}

	if _, err := m.session.SetIssueDate(m.editIndex, parseOptionalDate(m.draft.IssueDate)); err != nil {
		m.status = fmt.Sprintf("Error setting issue date: %v", err)
		return
	}

	if _, err := m.session.SetDueDate(m.editIndex, parseOptionalDate(m.draft.DueDate)); err != nil {
		m.status = fmt.Sprintf("Error setting due date: %v", err)
		return
	}

	m.status = "File updated."
}

func (m *ImportModel) applyGlobalClient() {
	if err := m.session.SetGlobalClient(m.draft.ClientID); err != nil {
		m.status = fmt.Sprintf("Error setting client: %v", err)
		return
	}

	m.status = "Default client updated."
}

func (m ImportModel) startSubmit() (tea.Model, tea.Cmd) {
	if m.session.Len() == 0 {
		m.status = "Add at least one file first."
		return m, nil
	}

	m.state = importStateSubmitting
	m.progress = importer.Progress{Total: m.session.Len()}
	m.events = make(chan tea.Msg, m.session.Len()+1)
	m.table.Blur()

	return m, tea.Batch(m.spinner.Tick, m.submitCmd(m.events), waitForSubmit(m.events))
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Opening import session...")
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select timesheet files (YYYY-MM-DD.csv):\n%s\n\n%s\n\n%s",
				lipgloss.NewStyle().Faint(true).Render(m.status), m.filePicker.View(), m.ShortHelp()),
		)
	case importStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Creating invoices... %d/%d", m.spinner.View(), m.progress.Attempted, m.progress.Total),
		)
	case importStateResult:
		return m.viewResult()
	}

	return m.viewReview()
}

func (m ImportModel) viewReview() string {
	snap := m.session.Snapshot()

	global := "(none)"
	for _, c := range snap.Clients {
		if c.ID == snap.GlobalClientID {
			global = c.Name
		}
	}

	header := fmt.Sprintf("Default client [g]: %s | Files: %d", activeStyle(global), len(snap.Records))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	)

	switch {
	case (m.state == importStateEdit || m.state == importStateGlobalClient) && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("Edit", m.form.View()))
	default:
		idx := m.table.Cursor()
		if idx >= 0 && idx < len(snap.Records) {
			rec := snap.Records[idx]
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel(rec.Name, recordDetail(rec)))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + m.ShortHelp())
}

func recordDetail(rec importer.FileRecord) string {
	var b strings.Builder

	if len(rec.Errors) == 0 {
		b.WriteString(successStyle("No problems found") + "\n")
	}

	for _, e := range rec.Errors {
		b.WriteString(errorStyle("- "+e) + "\n")
	}

	if len(rec.Preview) > 0 {
		b.WriteString("\nPreview:\n")
	}

	for _, r := range rec.Preview {
		fmt.Fprintf(&b, "%s  %s  %sh @ %s\n", r.Date, r.Description, r.Hours.String(), FormatMoney(r.Rate))
	}

	return b.String()
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	switch {
	case m.err != nil:
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	case m.blocked != nil:
		var b strings.Builder

		b.WriteString(errorStyle("Submission blocked. Fix these files first:") + "\n\n")

		for _, f := range m.blocked.Files {
			fmt.Fprintf(&b, "%s\n", f.Name)

			for _, r := range f.Reasons {
				fmt.Fprintf(&b, "  - %s\n", r)
			}
		}

		return style.Render(b.String() + "\n(Esc to go back)")
	case m.result != nil:
		var b strings.Builder

		summary := fmt.Sprintf("Created %d of %d invoices.", m.result.Succeeded, m.result.Total)
		if m.result.Failed == 0 {
			b.WriteString(successStyle(summary) + "\n")
		} else {
			b.WriteString(errorStyle(summary) + "\n\nFailed:\n")
		}

		for _, f := range m.result.Failures {
			fmt.Fprintf(&b, "  %s (%s): %s\n", f.File, f.InvoiceNumber, f.Message)
		}

		return style.Render(b.String() + "\n(Esc to go back)")
	}

	return style.Render("(Esc to go back)")
}

func (m *ImportModel) refreshTable() {
	if m.session == nil {
		return
	}

	snap := m.session.Snapshot()

	names := make(map[uuid.UUID]string, len(snap.Clients))
	for _, c := range snap.Clients {
		names[c.ID] = c.Name
	}

	rows := make([]table.Row, 0, len(snap.Records))
	for _, rec := range snap.Records {
		clientName := "-"
		if rec.ClientID != uuid.Nil {
			clientName = names[rec.ClientID]
		}

		rows = append(rows, table.Row{
			rec.Name,
			rec.InvoiceNumber,
			clientName,
			formatOptionalDate(rec.IssueDate),
			formatOptionalDate(rec.DueDate),
			fmt.Sprintf("%d", len(rec.Items)),
			string(rec.Status),
		})
	}

	m.table.SetRows(rows)
}

func optionalDateInput(d *time.Time) string {
	if d == nil {
		return ""
	}

	return FormatDate(*d)
}

// Messages

type sessionOpenedMsg struct {
	session *importer.Session
	err     error
}

func (m ImportModel) openCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sess, err := m.importService.Open(ctx)

		return sessionOpenedMsg{session: sess, err: err}
	}
}

type fileAddedMsg struct {
	name   string
	record importer.FileRecord
	err    error
}

func (m ImportModel) addFileCmd(path string) tea.Cmd {
	sess := m.session

	return func() tea.Msg {
		name := filepath.Base(path)

		f, err := os.Open(path)
		if err != nil {
			return fileAddedMsg{name: name, err: err}
		}
		defer f.Close()

		rec, err := sess.AddFile(name, f)

		return fileAddedMsg{name: name, record: rec, err: err}
	}
}

type submitProgressMsg struct {
	progress importer.Progress
}

type submitDoneMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) submitCmd(events chan<- tea.Msg) tea.Cmd {
	id := m.session.ID

	return func() tea.Msg {
		go func() {
			res, err := m.importService.Submit(context.Background(), id, func(p importer.Progress) {
				select {
				case events <- submitProgressMsg{progress: p}:
				default:
				}
			})
			events <- submitDoneMsg{result: res, err: err}
		}()

		return nil
	}
}

func waitForSubmit(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
