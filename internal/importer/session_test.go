package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

const timesheet = `DATE,DESCRIPTION,HOURS,RATE,AMOUNT
2024-01-10,Design,2.5,100,999
2024-01-11,"Build, test and ship",3,80,240
2024-01-12,Idle,0,80,0
`

var (
	acme   = importer.ClientOption{ID: uuid.New(), Name: "Acme"}
	globex = importer.ClientOption{ID: uuid.New(), Name: "Globex"}
	fixed  = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newSession() *importer.Session {
	return importer.NewSession(
		[]importer.ClientOption{acme, globex},
		importer.Options{DueDays: 30, PreviewRows: 1, Now: func() time.Time { return fixed }},
	)
}

func addFile(t *testing.T, s *importer.Session, name, content string) importer.FileRecord {
	t.Helper()

	rec, err := s.AddFile(name, strings.NewReader(content))
	require.NoError(t, err)

	return rec
}

func date(s string) *time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return &d
}

func TestSession_AddFile(t *testing.T) {
	s := newSession()

	rec := addFile(t, s, "2024-01-15.csv", timesheet)

	assert.Equal(t, "2024-01-15.csv", rec.Name)
	require.Len(t, rec.Items, 2)
	assert.True(t, decimal.NewFromInt(250).Equal(rec.Items[0].Amount), "amount column is ignored")
	assert.Equal(t, "Build, test and ship", rec.Items[1].Description)
	assert.Equal(t, "2024-01-11", rec.Items[1].Date.Format(time.DateOnly))
	assert.Len(t, rec.Preview, 1)
	assert.True(t, strings.HasPrefix(rec.InvoiceNumber, "INV-20240115-"), rec.InvoiceNumber)
	assert.Equal(t, "2024-02-14", rec.DueDate.Format(time.DateOnly))
	assert.Equal(t, []string{importer.MsgClientNotSelected}, rec.Errors)
	assert.Equal(t, importer.StatusError, rec.Status)
}

func TestSession_InvoiceNumbersAreUnique(t *testing.T) {
	s := newSession()

	a := addFile(t, s, "2024-01-15.csv", timesheet)
	b := addFile(t, s, "2024-01-15.csv", timesheet)
	c := addFile(t, s, "notes.csv", timesheet)

	assert.NotEqual(t, a.InvoiceNumber, b.InvoiceNumber)
	assert.True(t, strings.HasPrefix(c.InvoiceNumber, "INV-"))
	assert.NotEmpty(t, strings.TrimPrefix(c.InvoiceNumber, "INV-"))
}

func TestSession_AddFile_MissingHeader(t *testing.T) {
	s := newSession()
	require.NoError(t, s.SetGlobalClient(acme.ID))

	rec := addFile(t, s, "2024-01-15.csv", "DATE,DESCRIPTION,RATE,AMOUNT\n2024-01-10,Design,100,100\n")

	assert.Equal(t, importer.StatusError, rec.Status)
	require.NotEmpty(t, rec.Errors)
	assert.Contains(t, rec.Errors[0], "HOURS")
	assert.Contains(t, rec.Errors, importer.MsgNoItems)
	assert.Equal(t, 1, s.Len(), "broken files are still admitted")
}

func TestSession_AddFile_NoUsableRows(t *testing.T) {
	s := newSession()
	require.NoError(t, s.SetGlobalClient(acme.ID))

	rec := addFile(t, s, "2024-01-15.csv", "DATE,DESCRIPTION,HOURS,RATE,AMOUNT\n2024-01-10,,2,100,200\n")

	assert.Equal(t, []string{importer.MsgNoItems}, rec.Errors)
}

func TestSession_FilenameErrorClearsOnIssueDate(t *testing.T) {
	s := newSession()
	require.NoError(t, s.SetGlobalClient(acme.ID))

	rec := addFile(t, s, "invoice.csv", timesheet)
	assert.Equal(t, []string{importer.MsgFilenameFormat, importer.MsgIssueDateRequired, importer.MsgDueDateRequired}, rec.Errors)

	rec, err := s.SetDueDate(0, date("2024-02-14"))
	require.NoError(t, err)
	assert.Equal(t, []string{importer.MsgFilenameFormat, importer.MsgIssueDateRequired}, rec.Errors)
	assert.Equal(t, importer.StatusError, rec.Status)

	rec, err = s.SetIssueDate(0, date("2024-01-15"))
	require.NoError(t, err)
	assert.Empty(t, rec.Errors)
	assert.Equal(t, importer.StatusPending, rec.Status)
	assert.True(t, rec.Ready())
	assert.Equal(t, importer.StatusReady, s.Snapshot().Records[0].Status)
	assert.Equal(t, "2024-02-14", rec.DueDate.Format(time.DateOnly), "due date is not re-derived")
}

func TestSession_UnrelatedErrorsSurviveDateEdit(t *testing.T) {
	s := newSession()

	addFile(t, s, "invoice.csv", timesheet)

	rec, err := s.SetIssueDate(0, date("2024-01-15"))
	require.NoError(t, err)

	assert.NotContains(t, rec.Errors, importer.MsgFilenameFormat)
	assert.Contains(t, rec.Errors, importer.MsgClientNotSelected)
	assert.Contains(t, rec.Errors, importer.MsgDueDateRequired)
	assert.Equal(t, importer.StatusError, rec.Status)
}

func TestSession_ClearingIssueDateRestoresFilenameError(t *testing.T) {
	s := newSession()

	addFile(t, s, "invoice.csv", timesheet)

	_, err := s.SetIssueDate(0, date("2024-01-15"))
	require.NoError(t, err)

	rec, err := s.SetIssueDate(0, nil)
	require.NoError(t, err)
	assert.Contains(t, rec.Errors, importer.MsgFilenameFormat)
}

func TestSession_GlobalClientDoesNotOverride(t *testing.T) {
	s := newSession()

	addFile(t, s, "2024-01-15.csv", timesheet)
	addFile(t, s, "2024-01-16.csv", timesheet)

	_, err := s.SetClient(0, acme.ID)
	require.NoError(t, err)

	require.NoError(t, s.SetGlobalClient(globex.ID))

	v := s.Snapshot()
	assert.Equal(t, acme.ID, v.Records[0].ClientID)
	assert.Equal(t, globex.ID, v.Records[1].ClientID)
	assert.Equal(t, globex.ID, v.GlobalClientID)
	assert.Empty(t, v.Records[1].Errors)

	rec := addFile(t, s, "2024-01-17.csv", timesheet)
	assert.Equal(t, globex.ID, rec.ClientID, "new files start with the global client")
}

func TestSession_EditsAreLocal(t *testing.T) {
	s := newSession()

	addFile(t, s, "2024-01-15.csv", timesheet)
	addFile(t, s, "2024-01-16.csv", timesheet)

	_, err := s.SetClient(1, acme.ID)
	require.NoError(t, err)

	_, err = s.SetDueDate(1, date("2024-03-01"))
	require.NoError(t, err)

	v := s.Snapshot()
	assert.Equal(t, uuid.Nil, v.Records[0].ClientID)
	assert.Equal(t, []string{importer.MsgClientNotSelected}, v.Records[0].Errors)
	assert.Equal(t, "2024-02-14", v.Records[0].DueDate.Format(time.DateOnly))
	assert.Equal(t, "2024-03-01", v.Records[1].DueDate.Format(time.DateOnly))
}

func TestSession_RejectsUnknownClient(t *testing.T) {
	s := newSession()
	addFile(t, s, "2024-01-15.csv", timesheet)

	_, err := s.SetClient(0, uuid.New())
	assert.ErrorIs(t, err, importer.ErrUnknownClient)

	assert.ErrorIs(t, s.SetGlobalClient(uuid.New()), importer.ErrUnknownClient)
}

func TestSession_IndexOutOfRange(t *testing.T) {
	s := newSession()
	addFile(t, s, "2024-01-15.csv", timesheet)

	_, err := s.SetClient(3, acme.ID)
	assert.ErrorIs(t, err, importer.ErrRecordNotFound)

	_, err = s.SetIssueDate(-1, date("2024-01-01"))
	assert.ErrorIs(t, err, importer.ErrRecordNotFound)

	assert.ErrorIs(t, s.Remove(1), importer.ErrRecordNotFound)
}

func TestSession_Remove(t *testing.T) {
	s := newSession()

	addFile(t, s, "2024-01-15.csv", timesheet)
	addFile(t, s, "2024-01-16.csv", timesheet)

	require.NoError(t, s.Remove(0))

	v := s.Snapshot()
	require.Len(t, v.Records, 1)
	assert.Equal(t, "2024-01-16.csv", v.Records[0].Name)
}
