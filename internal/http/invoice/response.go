package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type itemResponse struct {
	Position    int             `json:"position"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type invoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	ClientID  uuid.UUID       `json:"client_id"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date"`
	Status    invoice.Status  `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Items     []itemResponse  `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		ClientID:  inv.ClientID,
		IssueDate: inv.IssueDate.Format(time.DateOnly),
		DueDate:   inv.DueDate.Format(time.DateOnly),
		Status:    inv.Status,
		Notes:     inv.Notes,
		Total:     inv.Total,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}

	for _, it := range inv.Items {
		resp.Items = append(resp.Items, itemResponse{
			Position:    it.Position,
			Date:        it.Date.Format(time.DateOnly),
			Description: it.Description,
			Hours:       it.Hours,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

type emailResponse struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
