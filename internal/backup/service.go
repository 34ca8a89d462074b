// Package backup writes all clients and invoices to a zip archive and reads them back.
package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const (
	FormatVersion = 1

	manifestFile = "manifest.json"
	clientsFile  = "clients.json"
	invoicesFile = "invoices.json"
)

var ErrUnsupportedVersion = errors.New("unsupported backup version")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=backup
type ClientStore interface {
	List(ctx context.Context) ([]*client.Client, error)
	Create(ctx context.Context, params client.CreateParams) (*client.Client, error)
}

type InvoiceStore interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	Create(ctx context.Context, params invoice.CreateParams) (*invoice.Invoice, error)
}

type Service struct {
	clients  ClientStore
	invoices InvoiceStore
	now      func() time.Time
}

func NewService(clients ClientStore, invoices InvoiceStore) *Service {
	return &Service{
		clients:  clients,
		invoices: invoices,
		now:      time.Now,
	}
}

type manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Clients   int       `json:"clients"`
	Invoices  int       `json:"invoices"`
}

type clientRecord struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
}

type itemRecord struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
}

type invoiceRecord struct {
	Number    string         `json:"number"`
	ClientID  uuid.UUID      `json:"client_id"`
	IssueDate string         `json:"issue_date"`
	DueDate   string         `json:"due_date"`
	Status    invoice.Status `json:"status"`
	Notes     string         `json:"notes"`
	Items     []itemRecord   `json:"items"`
}

// Export writes a zip archive with a manifest, every active client and every
// active invoice including its items.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return fmt.Errorf("listing clients: %w", err)
	}

	headers, err := s.invoices.List(ctx, invoice.ListFilter{})
	if err != nil {
		return fmt.Errorf("listing invoices: %w", err)
	}

	clientRecs := make([]clientRecord, 0, len(clients))
	for _, c := range clients {
		clientRecs = append(clientRecs, clientRecord{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address})
	}

	invoiceRecs := make([]invoiceRecord, 0, len(headers))

	for _, h := range headers {
		inv, err := s.invoices.Get(ctx, h.ID)
		if err != nil {
			return fmt.Errorf("loading invoice %s: %w", h.Number, err)
		}

		invoiceRecs = append(invoiceRecs, toInvoiceRecord(inv))
	}

	zw := zip.NewWriter(w)

	entries := []struct {
		name string
		v    any
	}{
		{manifestFile, manifest{Version: FormatVersion, CreatedAt: s.now().UTC(), Clients: len(clientRecs), Invoices: len(invoiceRecs)}},
		{clientsFile, clientRecs},
		{invoicesFile, invoiceRecs},
	}

	for _, e := range entries {
		if err := writeEntry(zw, e.name, e.v); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

func writeEntry(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

func toInvoiceRecord(inv *invoice.Invoice) invoiceRecord {
	rec := invoiceRecord{
		Number:    inv.Number,
		ClientID:  inv.ClientID,
		IssueDate: inv.IssueDate.Format(time.DateOnly),
		DueDate:   inv.DueDate.Format(time.DateOnly),
		Status:    inv.Status,
		Notes:     inv.Notes,
		Items:     make([]itemRecord, 0, len(inv.Items)),
	}

	for _, it := range inv.Items {
		rec.Items = append(rec.Items, itemRecord{
			Date:        it.Date.Format(time.DateOnly),
			Description: it.Description,
			Hours:       it.Hours,
			Rate:        it.Rate,
		})
	}

	return rec
}

type RestoreResult struct {
	Clients           int
	ReusedClients     int
	Invoices          int
	SkippedDuplicates int
	SkippedOrphans    int
}

// Restore recreates the clients of an archive and then its invoices, pointed at
// the restored client ids. A client whose name and email match an existing one is
// reused instead of created. Invoices whose number already exists are skipped.
func (s *Service) Restore(ctx context.Context, r io.ReaderAt, size int64) (*RestoreResult, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var m manifest
	if err := readEntry(zr, manifestFile, &m); err != nil {
		return nil, err
	}

	if m.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}

	var clientRecs []clientRecord
	if err := readEntry(zr, clientsFile, &clientRecs); err != nil {
		return nil, err
	}

	var invoiceRecs []invoiceRecord
	if err := readEntry(zr, invoicesFile, &invoiceRecs); err != nil {
		return nil, err
	}

	current, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	known := make(map[string]uuid.UUID, len(current))
	for _, c := range current {
		known[clientKey(c.Name, c.Email)] = c.ID
	}

	res := &RestoreResult{}
	idMap := make(map[uuid.UUID]uuid.UUID, len(clientRecs))

	for _, c := range clientRecs {
		key := clientKey(c.Name, c.Email)
		if id, ok := known[key]; ok {
			idMap[c.ID] = id
			res.ReusedClients++

			continue
		}

		created, err := s.clients.Create(ctx, client.CreateParams{Name: c.Name, Email: c.Email, Address: c.Address})
		if err != nil {
			return res, fmt.Errorf("restoring client %s: %w", c.Name, err)
		}

		idMap[c.ID] = created.ID
		known[key] = created.ID
		res.Clients++
	}

	for _, rec := range invoiceRecs {
		clientID, ok := idMap[rec.ClientID]
		if !ok {
			slog.Warn("skipping invoice without client in backup", "number", rec.Number, "client_id", rec.ClientID)
			res.SkippedOrphans++

			continue
		}

		params, err := rec.toParams(clientID)
		if err != nil {
			return res, fmt.Errorf("restoring invoice %s: %w", rec.Number, err)
		}

		if _, err := s.invoices.Create(ctx, params); err != nil {
			if errors.Is(err, invoice.ErrDuplicateNumber) {
				res.SkippedDuplicates++
				continue
			}

			return res, fmt.Errorf("restoring invoice %s: %w", rec.Number, err)
		}

		res.Invoices++
	}

	return res, nil
}

// clientKey matches clients on name and email, ignoring case and surrounding space.
func clientKey(name, email string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(strings.TrimSpace(email))
}

func readEntry(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}

	return nil
}

func (rec invoiceRecord) toParams(clientID uuid.UUID) (invoice.CreateParams, error) {
	issue, err := time.Parse(time.DateOnly, rec.IssueDate)
	if err != nil {
		return invoice.CreateParams{}, fmt.Errorf("parsing issue date: %w", err)
	}

	due, err := time.Parse(time.DateOnly, rec.DueDate)
	if err != nil {
		return invoice.CreateParams{}, fmt.Errorf("parsing due date: %w", err)
	}

	params := invoice.CreateParams{
		Number:    rec.Number,
		ClientID:  clientID,
		IssueDate: issue,
		DueDate:   due,
		Status:    rec.Status,
		Notes:     rec.Notes,
		Items:     make([]invoice.ItemParams, 0, len(rec.Items)),
	}

	for _, it := range rec.Items {
		d, err := time.Parse(time.DateOnly, it.Date)
		if err != nil {
			return invoice.CreateParams{}, fmt.Errorf("parsing item date: %w", err)
		}

		params.Items = append(params.Items, invoice.ItemParams{
			Date:        d,
			Description: it.Description,
			Hours:       it.Hours,
			Rate:        it.Rate,
		})
	}

	return params, nil
}
