package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var (
	ErrSubmitInProgress = errors.New("a submission is already running for this session")
	ErrNothingToSubmit  = errors.New("no files to submit")
)

// BlockedFile names a file that stops the batch and everything wrong with it.
type BlockedFile struct {
	Name    string
	Reasons []string
}

// BlockedError aborts a submit before any invoice is created.
type BlockedError struct {
	Files []BlockedFile
}

func (e *BlockedError) Error() string {
	parts := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, strings.Join(f.Reasons, ", ")))
	}

	return "submission blocked: " + strings.Join(parts, "; ")
}

type Progress struct {
	Attempted int
	Total     int
}

type Failure struct {
	File          string
	InvoiceNumber string
	Message       string
}

type Result struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
	Created   []*invoice.Invoice
}

// Submit creates one invoice per record, in order, over a snapshot of the batch.
// Any record with a blocking condition refuses the whole batch. A failed create is
// recorded and the run moves on. When at least one invoice was created the
// submitted records are removed from the session.
func (s *Session) Submit(ctx context.Context, creator InvoiceCreator, onProgress func(Progress)) (*Result, error) {
	snapshot, err := s.beginSubmit()
	if err != nil {
		return nil, err
	}

	// Runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	res := &Result{Total: len(snapshot)}

	for i, entry := range snapshot {
		rec := entry.rec

		inv, err := creator.Create(ctx, createParams(&rec))
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{
				File:          rec.Name,
				InvoiceNumber: rec.InvoiceNumber,
				Message:       err.Error(),
			})
			slog.Error("failed to create invoice from import", "session", s.ID, "file", rec.Name, "number", rec.InvoiceNumber, "error", err)
		} else {
			res.Succeeded++
			res.Created = append(res.Created, inv)
		}

		p := s.advance(i+1, len(snapshot))
		if onProgress != nil {
			onProgress(p)
		}
	}

	s.finishSubmit(snapshot, res.Succeeded > 0)

	slog.Info("import batch submitted", "session", s.ID, "total", res.Total, "succeeded", res.Succeeded, "failed", res.Failed)

	return res, nil
}

type snapshotEntry struct {
	live *FileRecord
	rec  FileRecord
}

func (s *Session) beginSubmit() ([]snapshotEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrSubmitInProgress
	}

	if len(s.records) == 0 {
		return nil, ErrNothingToSubmit
	}

	var blocked []BlockedFile

	for _, r := range s.records {
		if reasons := Revalidate(r, s.globalClientID); len(reasons) > 0 {
			blocked = append(blocked, BlockedFile{Name: r.Name, Reasons: reasons})
		}
	}

	if len(blocked) > 0 {
		return nil, &BlockedError{Files: blocked}
	}

	snapshot := make([]snapshotEntry, 0, len(s.records))
	for _, r := range s.records {
		rec := *r
		if rec.ClientID == uuid.Nil {
			rec.ClientID = s.globalClientID
		}

		snapshot = append(snapshot, snapshotEntry{live: r, rec: rec})
	}

	s.submitting = true
	s.progress = Progress{Total: len(snapshot)}
	s.touch()

	return snapshot, nil
}

func (s *Session) advance(attempted, total int) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = Progress{Attempted: attempted, Total: total}

	return s.progress
}

func (s *Session) finishSubmit(snapshot []snapshotEntry, removeSubmitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	s.touch()

	if !removeSubmitted {
		return
	}

	submitted := make(map[*FileRecord]struct{}, len(snapshot))
	for _, e := range snapshot {
		submitted[e.live] = struct{}{}
	}

	kept := s.records[:0]
	for _, r := range s.records {
		if _, ok := submitted[r]; !ok {
			kept = append(kept, r)
		}
	}

	s.records = kept
}

func createParams(r *FileRecord) invoice.CreateParams {
	items := make([]invoice.ItemParams, 0, len(r.Items))
	for _, it := range r.Items {
		date := it.Date
		if date.IsZero() {
			date = *r.IssueDate
		}

		items = append(items, invoice.ItemParams{
			Date:        date,
			Description: it.Description,
			Hours:       it.Hours,
			Rate:        it.Rate,
		})
	}

	return invoice.CreateParams{
		Number:    r.InvoiceNumber,
		ClientID:  r.ClientID,
		IssueDate: *r.IssueDate,
		DueDate:   *r.DueDate,
		Status:    invoice.StatusDraft,
		Notes:     "Imported from " + r.Name,
		Items:     items,
	}
}
