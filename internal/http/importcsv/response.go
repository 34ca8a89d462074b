package importcsv

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

type clientOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type previewRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type fileResponse struct {
	Index         int             `json:"index"`
	Name          string          `json:"name"`
	Size          int64           `json:"size"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      *uuid.UUID      `json:"client_id"`
	IssueDate     *string         `json:"issue_date"`
	DueDate       *string         `json:"due_date"`
	Status        importer.Status `json:"status"`
	Errors        []string        `json:"errors"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Preview       []previewRow    `json:"preview"`
}

type progressResponse struct {
	Attempted int `json:"attempted"`
	Total     int `json:"total"`
}

type sessionResponse struct {
	ID             uuid.UUID        `json:"id"`
	GlobalClientID *uuid.UUID       `json:"global_client_id"`
	Clients        []clientOption   `json:"clients"`
	Submitting     bool             `json:"submitting"`
	Progress       progressResponse `json:"progress"`
	Files          []fileResponse   `json:"files"`
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}

	return new(id)
}

func optionalDate(d *time.Time) *string {
	if d == nil {
		return nil
	}

	return new(d.Format(time.DateOnly))
}

func toFileResponse(i int, r importer.FileRecord) fileResponse {
	resp := fileResponse{
		Index:         i,
		Name:          r.Name,
		Size:          r.Size,
		InvoiceNumber: r.InvoiceNumber,
		ClientID:      optionalID(r.ClientID),
		IssueDate:     optionalDate(r.IssueDate),
		DueDate:       optionalDate(r.DueDate),
		Status:        r.DisplayStatus(),
		Errors:        append([]string{}, r.Errors...),
		ItemCount:     len(r.Items),
		Total:         decimal.Zero,
		Preview:       make([]previewRow, 0, len(r.Preview)),
	}

	for _, it := range r.Items {
		resp.Total = resp.Total.Add(it.Amount)
	}

	for _, p := range r.Preview {
		resp.Preview = append(resp.Preview, previewRow{
			Date:        p.Date,
			Description: p.Description,
			Hours:       p.Hours,
			Rate:        p.Rate,
			Amount:      p.Amount,
		})
	}

	return resp
}

func toSessionResponse(v importer.View) sessionResponse {
	resp := sessionResponse{
		ID:             v.ID,
		GlobalClientID: optionalID(v.GlobalClientID),
		Clients:        make([]clientOption, 0, len(v.Clients)),
		Submitting:     v.Submitting,
		Progress:       progressResponse{Attempted: v.Progress.Attempted, Total: v.Progress.Total},
		Files:          make([]fileResponse, 0, len(v.Records)),
	}

	for _, c := range v.Clients {
		resp.Clients = append(resp.Clients, clientOption{ID: c.ID, Name: c.Name})
	}

	for i, r := range v.Records {
		resp.Files = append(resp.Files, toFileResponse(i, r))
	}

	return resp
}

type failureResponse struct {
	File          string `json:"file"`
	InvoiceNumber string `json:"invoice_number"`
	Message       string `json:"message"`
}

type submitResponse struct {
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Failures   []failureResponse `json:"failures"`
	InvoiceIDs []uuid.UUID       `json:"invoice_ids"`
}

func toSubmitResponse(res *importer.Result) submitResponse {
	resp := submitResponse{
		Total:      res.Total,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		Failures:   make([]failureResponse, 0, len(res.Failures)),
		InvoiceIDs: make([]uuid.UUID, 0, len(res.Created)),
	}

	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, failureResponse{File: f.File, InvoiceNumber: f.InvoiceNumber, Message: f.Message})
	}

	for _, inv := range res.Created {
		resp.InvoiceIDs = append(resp.InvoiceIDs, inv.ID)
	}

	return resp
}

type blockedFileResponse struct {
	File    string   `json:"file"`
	Reasons []string `json:"reasons"`
}

type blockedResponse struct {
	Error   string                `json:"error"`
	Blocked []blockedFileResponse `json:"blocked"`
}

func toBlockedResponse(e *importer.BlockedError) blockedResponse {
	resp := blockedResponse{
		Error:   "submission blocked",
		Blocked: make([]blockedFileResponse, 0, len(e.Files)),
	}

	for _, f := range e.Files {
		resp.Blocked = append(resp.Blocked, blockedFileResponse{File: f.Name, Reasons: f.Reasons})
	}

	return resp
}
