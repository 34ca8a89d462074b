package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Handler struct {
	svc     *invoice.Service
	clients *client.Service
	sender  invoice.Sender
}

func NewHandler(svc *invoice.Service, clients *client.Service, sender invoice.Sender) *Handler {
	return &Handler{
		svc:     svc,
		clients: clients,
		sender:  sender,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}/email", h.email)
}

// writeError maps service errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var vErr *invoice.ValidationError

	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrDuplicateNumber):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, invoice.ErrClientNotFound), errors.Is(err, client.ErrNotFound):
		http.Error(w, "client not found", http.StatusUnprocessableEntity)
	default:
		slog.Error("invoice request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type itemRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
}

type createInvoiceRequest struct {
	Number    string         `json:"number"`
	ClientID  uuid.UUID      `json:"client_id"`
	IssueDate string         `json:"issue_date"`
	DueDate   string         `json:"due_date"`
	Status    invoice.Status `json:"status"`
	Notes     string         `json:"notes"`
	Items     []itemRequest  `json:"items"`
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}

	return t, nil
}

func (req createInvoiceRequest) toParams() (invoice.CreateParams, error) {
	issue, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return invoice.CreateParams{}, err
	}

	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return invoice.CreateParams{}, err
	}

	params := invoice.CreateParams{
		Number:    req.Number,
		ClientID:  req.ClientID,
		IssueDate: issue,
		DueDate:   due,
		Status:    req.Status,
		Notes:     req.Notes,
		Items:     make([]invoice.ItemParams, 0, len(req.Items)),
	}

	for i, it := range req.Items {
		d, err := parseDate(fmt.Sprintf("items[%d].date", i), it.Date)
		if err != nil {
			return invoice.CreateParams{}, err
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

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	if s := r.URL.Query().Get("client_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}

		filter.ClientID = new(id)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(invoices)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status invoice.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) email(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.clients.Get(r.Context(), inv.ClientID)
	if err != nil {
		writeError(w, err)
		return
	}

	msg, err := invoice.RenderEmail(inv, c, h.sender)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(emailResponse{
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
