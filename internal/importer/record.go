package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// LineItem is a usable row promoted to invoice item shape. Amount is hours x rate.
type LineItem struct {
	Date        time.Time
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// FileRecord is one uploaded file and the invoice it will become.
type FileRecord struct {
	Name          string
	Size          int64
	Items         []LineItem
	Preview       []row.Row
	InvoiceNumber string
	ClientID      uuid.UUID
	IssueDate     *time.Time
	DueDate       *time.Time
	Status        Status
	Errors        []string

	parseProblem    string
	filenameProblem string
}

// Ready reports whether the record can be submitted as is.
func (r *FileRecord) Ready() bool {
	return len(r.Errors) == 0 &&
		r.ClientID != uuid.Nil &&
		r.IssueDate != nil &&
		r.DueDate != nil &&
		len(r.Items) > 0
}

// DisplayStatus is the stored status with ready derived on top of pending.
func (r *FileRecord) DisplayStatus() Status {
	if r.Status == StatusPending && r.Ready() {
		return StatusReady
	}

	return r.Status
}

var itemDateLayouts = []string{time.DateOnly, "2006/01/02", "02.01.2006"}

func parseItemDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range itemDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}

	return time.Time{}
}

func toLineItems(rows []row.Row) []LineItem {
	items := make([]LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, LineItem{
			Date:        parseItemDate(r.Date),
			Description: r.Description,
			Hours:       r.Hours,
			Rate:        r.Rate,
			Amount:      r.Hours.Mul(r.Rate),
		})
	}

	return items
}
