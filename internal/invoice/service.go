package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// CreateInvoice persists the invoice and its items atomically and fills in the generated ids.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if problems := validate(params); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	status := params.Status
	if status == "" {
		status = StatusDraft
	}

	inv := &Invoice{
		Number:    strings.TrimSpace(params.Number),
		ClientID:  params.ClientID,
		IssueDate: params.IssueDate,
		DueDate:   params.DueDate,
		Status:    status,
		Notes:     params.Notes,
		Items:     make([]Item, 0, len(params.Items)),
		Total:     decimal.Zero,
	}

	for i, p := range params.Items {
		date := p.Date
		if date.IsZero() {
			date = params.IssueDate
		}

		amount := p.Hours.Mul(p.Rate).Round(2)
		inv.Items = append(inv.Items, Item{
			Position:    i + 1,
			Date:        date,
			Description: strings.TrimSpace(p.Description),
			Hours:       p.Hours,
			Rate:        p.Rate,
			Amount:      amount,
		})
		inv.Total = inv.Total.Add(amount)
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice %s: %w", inv.Number, err)
	}

	return inv, nil
}

func validate(p CreateParams) []string {
	var problems []string

	if strings.TrimSpace(p.Number) == "" {
		problems = append(problems, "number is required")
	}

	if p.ClientID == uuid.Nil {
		problems = append(problems, "client is required")
	}

	if p.IssueDate.IsZero() {
		problems = append(problems, "issue date is required")
	}

	if p.DueDate.IsZero() {
		problems = append(problems, "due date is required")
	} else if !p.IssueDate.IsZero() && p.DueDate.Before(p.IssueDate) {
		problems = append(problems, "due date is before issue date")
	}

	if p.Status != "" && !p.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", p.Status))
	}

	if len(p.Items) == 0 {
		problems = append(problems, "at least one item is required")
	}

	for i, item := range p.Items {
		if strings.TrimSpace(item.Description) == "" {
			problems = append(problems, fmt.Sprintf("item %d: description is required", i+1))
		}

		if !item.Hours.IsPositive() {
			problems = append(problems, fmt.Sprintf("item %d: hours must be positive", i+1))
		}

		if !item.Rate.IsPositive() {
			problems = append(problems, fmt.Sprintf("item %d: rate must be positive", i+1))
		}
	}

	return problems
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return &ValidationError{Problems: []string{fmt.Sprintf("unknown status %q", status)}}
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id)
}
