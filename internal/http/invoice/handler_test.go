package invoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	httpinvoice "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func newRouter(invRepo invoice.Repository, clientRepo client.Repository) http.Handler {
	r := chi.NewRouter()
	h := httpinvoice.NewHandler(invoice.NewService(invRepo), client.NewService(clientRepo), invoice.Sender{Name: "Studio"})
	h.Routes(r)

	return r
}

func TestHandler_Create(t *testing.T) {
	clientID := uuid.New()
	valid := `{"number":"INV-1","client_id":"` + clientID.String() + `","issue_date":"2024-01-15","due_date":"2024-02-14",` +
		`"items":[{"date":"2024-01-10","description":"Design","hours":"2.5","rate":100}]}`

	type testCase struct {
		name       string
		body       string
		setupMock  func(m *invoice.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Created",
			body: valid,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "DuplicateNumber",
			body: valid,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(invoice.ErrDuplicateNumber)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "UnknownClient",
			body: valid,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(invoice.ErrClientNotFound)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "Invalid",
			body:       `{"number":"","items":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"number":"INV-1","issue_date":"15/01/2024"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := httptest.NewRecorder()
			newRouter(repo, client.NewMockRepository(ctrl)).
				ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "250", body["total"])
				assert.Equal(t, "draft", body["status"])
			}
		})
	}
}

func TestHandler_List_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f invoice.ListFilter) ([]*invoice.Invoice, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, invoice.StatusPaid, *f.Status)
			require.NotNil(t, f.ClientID)
			assert.Equal(t, clientID, *f.ClientID)
			require.NotNil(t, f.StartDate)
			assert.Nil(t, f.EndDate)

			return []*invoice.Invoice{{ID: uuid.New(), Number: "INV-1", Status: invoice.StatusPaid}}, nil
		})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?status=paid&client_id="+clientID.String()+"&start_date=2024-01-01", nil)
	newRouter(repo, client.NewMockRepository(ctrl)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body, 1)
}

func TestHandler_Email(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	invID, clientID := uuid.New(), uuid.New()

	invRepo := invoice.NewMockRepository(ctrl)
	invRepo.EXPECT().GetInvoice(gomock.Any(), invID).Return(&invoice.Invoice{
		ID:        invID,
		Number:    "INV-7",
		ClientID:  clientID,
		IssueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		Total:     decimal.NewFromInt(100),
	}, nil)

	clientRepo := client.NewMockRepository(ctrl)
	clientRepo.EXPECT().GetClient(gomock.Any(), clientID).Return(&client.Client{ID: clientID, Name: "Acme", Email: "a@acme.test"}, nil)

	rec := httptest.NewRecorder()
	newRouter(invRepo, clientRepo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+invID.String()+"/email", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "a@acme.test", body["to"])
	assert.Equal(t, "Invoice INV-7 from Studio", body["subject"])
	assert.Contains(t, body["html"], "100.00")
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().UpdateStatus(gomock.Any(), id, invoice.StatusSent).Return(nil)

	router := newRouter(repo, client.NewMockRepository(ctrl))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/status", strings.NewReader(`{"status":"sent"}`)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/status", strings.NewReader(`{"status":"lost"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
