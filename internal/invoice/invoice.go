package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}

	return false
}

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrDuplicateNumber = errors.New("invoice number already exists")
	ErrClientNotFound  = errors.New("client does not exist")
	ErrInvalid         = errors.New("invalid invoice")
)

// ValidationError lists every problem found with a create request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

type Invoice struct {
	ID        uuid.UUID
	Number    string
	ClientID  uuid.UUID
	IssueDate time.Time
	DueDate   time.Time
	Status    Status
	Notes     string
	Items     []Item
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// Item is one billed line. Amount is always Hours x Rate.
type Item struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Position    int
	Date        time.Time
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

type ItemParams struct {
	Date        time.Time
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
}

type CreateParams struct {
	Number    string
	ClientID  uuid.UUID
	IssueDate time.Time
	DueDate   time.Time
	Status    Status
	Notes     string
	Items     []ItemParams
}

type ListFilter struct {
	Status    *Status
	ClientID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
