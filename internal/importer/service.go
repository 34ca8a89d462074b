package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var ErrSessionNotFound = errors.New("import session not found")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type ClientLister interface {
	List(ctx context.Context) ([]*client.Client, error)
}

type InvoiceCreator interface {
	Create(ctx context.Context, params invoice.CreateParams) (*invoice.Invoice, error)
}

type Config struct {
	DueDays     int
	PreviewRows int
	SessionTTL  time.Duration
}

// Service opens import sessions and runs their submissions.
type Service struct {
	clients  ClientLister
	invoices InvoiceCreator
	sessions *SessionStore
	opts     Options
}

func NewService(clients ClientLister, invoices InvoiceCreator, cfg Config) *Service {
	return &Service{
		clients:  clients,
		invoices: invoices,
		sessions: NewSessionStore(cfg.SessionTTL),
		opts: Options{
			DueDays:     cfg.DueDays,
			PreviewRows: cfg.PreviewRows,
		},
	}
}

// Open starts a session. The client list is fetched here once and cached for the
// session's lifetime.
func (s *Service) Open(ctx context.Context) (*Session, error) {
	list, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	options := make([]ClientOption, 0, len(list))
	for _, c := range list {
		options = append(options, ClientOption{ID: c.ID, Name: c.Name})
	}

	sess := NewSession(options, s.opts)
	s.sessions.Put(sess)

	return sess, nil
}

func (s *Service) Session(id uuid.UUID) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

func (s *Service) Close(id uuid.UUID) error {
	if !s.sessions.Delete(id) {
		return ErrSessionNotFound
	}

	return nil
}

func (s *Service) Submit(ctx context.Context, id uuid.UUID, onProgress func(Progress)) (*Result, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}

	return sess.Submit(ctx, s.invoices, onProgress)
}
