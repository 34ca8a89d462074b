package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name    string
	Email   string
	Address string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameMissing
	}

	c := &Client{
		Name:    name,
		Email:   strings.TrimSpace(params.Email),
		Address: strings.TrimSpace(params.Address),
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// List returns the active clients ordered by name.
func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrNameMissing
	}

	return s.repo.UpdateClient(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, id)
}
