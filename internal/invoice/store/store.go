package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, number, client_id, issue_date, due_date, status, notes, total, created_at, updated_at, deleted_at
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &inv.IssueDate, &inv.DueDate, &statusStr, &inv.Notes,
		&inv.Total, &inv.CreatedAt, &inv.UpdatedAt, &inv.DeletedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)

	return &inv, nil
}

const selectInvoiceColumns = `
	i.id, i.number, i.client_id, i.issue_date, i.due_date, i.status, i.notes,
	COALESCE((SELECT SUM(it.amount) FROM invoice_items it WHERE it.invoice_id = i.id), 0) AS total,
	i.created_at, i.updated_at, i.deleted_at
`

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return invoice.ErrDuplicateNumber
	case codeForeignKeyViolation:
		return invoice.ErrClientNotFound
	}

	return err
}

// CreateInvoice inserts the invoice header and all of its items in a single database transaction.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	invoiceQuery := `
		INSERT INTO invoices (number, client_id, issue_date, due_date, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, invoiceQuery,
		inv.Number,
		inv.ClientID,
		inv.IssueDate,
		inv.DueDate,
		inv.Status,
		inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("inserting invoice: %w", err))
	}

	itemQuery := `
		INSERT INTO invoice_items (invoice_id, position, date, description, hours, rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID

		err := dbTx.QueryRowContext(ctx, itemQuery,
			inv.ID, item.Position, item.Date, item.Description, item.Hours, item.Rate, item.Amount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("inserting item %d: %w", item.Position, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE i.id = $1 AND i.deleted_at IS NULL`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	items, err := s.listItems(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Items = items

	return inv, nil
}

func (s *Store) listItems(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Item, error) {
	query := `
		SELECT id, invoice_id, position, date, description, hours, rate, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []invoice.Item

	for rows.Next() {
		var it invoice.Item
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Date, &it.Description, &it.Hours, &it.Rate, &it.Amount); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

// ListInvoices returns invoice headers with totals; items are not loaded.
func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE i.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND i.client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND i.issue_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND i.issue_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY i.issue_date DESC, i.number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE invoices SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
