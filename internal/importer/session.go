package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/xlsxfile"
)

var (
	ErrRecordNotFound = errors.New("file record not found")
	ErrUnknownClient  = errors.New("client is not available in this session")
)

// ClientOption is a client the user may bind files to.
type ClientOption struct {
	ID   uuid.UUID
	Name string
}

type Options struct {
	DueDays     int
	PreviewRows int
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DueDays < 0 {
		o.DueDays = 0
	}

	if o.PreviewRows <= 0 {
		o.PreviewRows = 5
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o
}

type rowParser interface {
	Parse(r io.Reader) ([]row.Row, error)
}

// Session owns one batch of file records and the global client default.
type Session struct {
	ID uuid.UUID

	mu             sync.Mutex
	records        []*FileRecord
	globalClientID uuid.UUID
	clients        []ClientOption
	opts           Options
	seq            int
	submitting     bool
	progress       Progress
	touchedAt      time.Time
}

func NewSession(clients []ClientOption, opts Options) *Session {
	opts = opts.withDefaults()

	return &Session{
		ID:        uuid.New(),
		clients:   clients,
		opts:      opts,
		touchedAt: opts.Now(),
	}
}

// View is a point-in-time copy of the session state.
type View struct {
	ID             uuid.UUID
	GlobalClientID uuid.UUID
	Clients        []ClientOption
	Records        []FileRecord
	Submitting     bool
	Progress       Progress
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:             s.ID,
		GlobalClientID: s.globalClientID,
		Clients:        append([]ClientOption(nil), s.clients...),
		Records:        make([]FileRecord, 0, len(s.records)),
		Submitting:     s.submitting,
		Progress:       s.progress,
	}

	for _, r := range s.records {
		cp := *r
		cp.Status = r.DisplayStatus()
		v.Records = append(v.Records, cp)
	}

	return v
}

func parserFor(name string) rowParser {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return xlsxfile.New()
	}

	return csvfile.New()
}

// AddFile parses one file and appends it to the batch. Parse failures are kept on
// the record instead of being returned.
func (s *Session) AddFile(name string, r io.Reader) (FileRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FileRecord{}, fmt.Errorf("reading %s: %w", name, err)
	}

	rec := &FileRecord{
		Name: filepath.Base(name),
		Size: int64(len(data)),
	}

	rows, err := parserFor(name).Parse(bytes.NewReader(data))
	if err != nil {
		var mhErr *row.MissingHeaderError
		if errors.As(err, &mhErr) {
			rec.parseProblem = mhErr.Error()
		} else {
			rec.parseProblem = fmt.Sprintf("Could not read file: %v", err)
		}
	}

	rec.Items = toLineItems(rows)
	rec.Preview = rows[:min(len(rows), s.opts.PreviewRows)]
	rec.IssueDate, rec.DueDate, rec.filenameProblem = DatesFromFilename(rec.Name, s.opts.DueDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.InvoiceNumber = s.nextInvoiceNumber(rec.IssueDate)
	rec.ClientID = s.globalClientID
	rec.revalidate(s.globalClientID)

	s.records = append(s.records, rec)
	s.touch()

	return *rec, nil
}

// nextInvoiceNumber must be called with mu held.
func (s *Session) nextInvoiceNumber(issue *time.Time) string {
	s.seq++
	suffix := strings.ToUpper(strconv.FormatInt(s.opts.Now().UnixMilli(), 36)) + fmt.Sprintf("%02d", s.seq)

	if issue == nil {
		return "INV-" + suffix
	}

	return fmt.Sprintf("INV-%s-%s", issue.Format("20060102"), suffix)
}

func (s *Session) hasClient(id uuid.UUID) bool {
	for _, c := range s.clients {
		if c.ID == id {
			return true
		}
	}

	return false
}

// edit applies fn to record i and revalidates only that record.
func (s *Session) edit(i int, fn func(r *FileRecord) error) (FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.records) {
		return FileRecord{}, ErrRecordNotFound
	}

	r := s.records[i]
	if err := fn(r); err != nil {
		return FileRecord{}, err
	}

	r.revalidate(s.globalClientID)
	s.touch()

	return *r, nil
}

// SetClient binds record i to a client. uuid.Nil clears the binding.
func (s *Session) SetClient(i int, id uuid.UUID) (FileRecord, error) {
	return s.edit(i, func(r *FileRecord) error {
		if id != uuid.Nil && !s.hasClient(id) {
			return ErrUnknownClient
		}

		r.ClientID = id

		return nil
	})
}

// SetIssueDate replaces the issue date of record i. The due date is left as is.
func (s *Session) SetIssueDate(i int, d *time.Time) (FileRecord, error) {
	return s.edit(i, func(r *FileRecord) error {
		r.IssueDate = copyDate(d)
		return nil
	})
}

func (s *Session) SetDueDate(i int, d *time.Time) (FileRecord, error) {
	return s.edit(i, func(r *FileRecord) error {
		r.DueDate = copyDate(d)
		return nil
	})
}

// SetGlobalClient sets the batch default and back-fills records without a client.
func (s *Session) SetGlobalClient(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != uuid.Nil && !s.hasClient(id) {
		return ErrUnknownClient
	}

	s.globalClientID = id

	for _, r := range s.records {
		if r.ClientID == uuid.Nil {
			r.ClientID = id
		}

		r.revalidate(id)
	}

	s.touch()

	return nil
}

func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.records) {
		return ErrRecordNotFound
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	s.touch()

	return nil
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *Session) touch() {
	s.touchedAt = s.opts.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.touchedAt
}

func copyDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}

	return new(*d)
}
