package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("client not found")
	ErrNameMissing = errors.New("client name is required")
)

// Client is a customer invoices are addressed to.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
