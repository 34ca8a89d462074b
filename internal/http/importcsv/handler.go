package importcsv

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

type Handler struct {
	importSvc      *importer.Service
	maxUploadBytes int64
}

func NewHandler(importSvc *importer.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		importSvc:      importSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/sessions", h.open)

	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Delete("/", h.close)
		r.Post("/files", h.addFiles)
		r.Patch("/files/{index}", h.editFile)
		r.Delete("/files/{index}", h.removeFile)
		r.Put("/client", h.setGlobalClient)
		r.Post("/submit", h.submit)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var blocked *importer.BlockedError

	switch {
	case errors.As(err, &blocked):
		writeJSON(w, http.StatusUnprocessableEntity, toBlockedResponse(blocked))
	case errors.Is(err, importer.ErrSessionNotFound), errors.Is(err, importer.ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, importer.ErrSubmitInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, importer.ErrUnknownClient), errors.Is(err, importer.ErrNothingToSubmit):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("import request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*importer.Session, bool) {
	sid, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return nil, false
	}

	sess, err := h.importSvc.Session(sid)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return sess, true
}

func fileIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid file index", http.StatusBadRequest)
		return 0, false
	}

	return i, true
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	sess, err := h.importSvc.Open(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(sess.Snapshot()))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := h.importSvc.Close(sess.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addFiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "files field is required", http.StatusBadRequest)
		return
	}

	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("opening %s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}

		_, err = sess.AddFile(fh.Filename, file)
		file.Close()

		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// editFileRequest fields are optional. An empty string clears the value.
type editFileRequest struct {
	ClientID  *string `json:"client_id,omitempty"`
	IssueDate *string `json:"issue_date,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	return &d, nil
}

func parseOptionalID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}

	return uuid.Parse(s)
}

func (h *Handler) editFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	i, ok := fileIndex(w, r)
	if !ok {
		return
	}

	var req editFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ClientID == nil && req.IssueDate == nil && req.DueDate == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	// Parse every field before applying any.
	var (
		clientID       uuid.UUID
		issueDate, due *time.Time
		err            error
	)

	if req.ClientID != nil {
		if clientID, err = parseOptionalID(*req.ClientID); err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}
	}

	if req.IssueDate != nil {
		if issueDate, err = parseOptionalDate(*req.IssueDate); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if req.DueDate != nil {
		if due, err = parseOptionalDate(*req.DueDate); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var rec importer.FileRecord

	if req.ClientID != nil {
		if rec, err = sess.SetClient(i, clientID); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.IssueDate != nil {
		if rec, err = sess.SetIssueDate(i, issueDate); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.DueDate != nil {
		if rec, err = sess.SetDueDate(i, due); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toFileResponse(i, rec))
}

func (h *Handler) removeFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	i, ok := fileIndex(w, r)
	if !ok {
		return
	}

	if err := sess.Remove(i); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type globalClientRequest struct {
	ClientID string `json:"client_id"`
}

func (h *Handler) setGlobalClient(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req globalClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := parseOptionalID(req.ClientID)
	if err != nil {
		http.Error(w, "invalid client_id", http.StatusBadRequest)
		return
	}

	if err := sess.SetGlobalClient(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.importSvc.Submit(r.Context(), sess.ID, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmitResponse(res))
}
