package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/backup"
)

type Handler struct {
	svc            *backup.Service
	maxUploadBytes int64
}

func NewHandler(svc *backup.Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/restore", h.restore)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf); err != nil {
		slog.Error("failed to create backup", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoicer_backup_%s.zip\"", time.Now().Format("20060102")))

	if _, err := io.Copy(w, &buf); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

type restoreResponse struct {
	Clients           int `json:"clients"`
	ReusedClients     int `json:"reused_clients"`
	Invoices          int `json:"invoices"`
	SkippedDuplicates int `json:"skipped_duplicates"`
	SkippedOrphans    int `json:"skipped_orphans"`
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.svc.Restore(r.Context(), file, header.Size)
	if err != nil && res == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if err != nil {
		slog.Error("backup restore stopped early", "error", err)
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(restoreResponse{
		Clients:           res.Clients,
		ReusedClients:     res.ReusedClients,
		Invoices:          res.Invoices,
		SkippedDuplicates: res.SkippedDuplicates,
		SkippedOrphans:    res.SkippedOrphans,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
