package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
)

// Repository persists extracted invoice records. Listing order is processing
// time, descending; an unknown identifier yields a nil record, not an error.
type Repository interface {
	Save(ctx context.Context, record *models.InvoiceRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.InvoiceRecord, error)
	List(ctx context.Context) ([]models.InvoiceRecord, error)
}

// Store implements Repository on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the invoices table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY,
			invoice_number TEXT,
			issue_date TEXT,
			recipient TEXT,
			address TEXT,
			items JSONB NOT NULL DEFAULT '[]',
			total_amount NUMERIC,
			currency TEXT,
			raw_text TEXT,
			quality JSONB,
			source_blob TEXT,
			source_url TEXT,
			processed_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create invoices table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS invoices_processed_at_idx
		ON invoices (processed_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create invoices index: %w", err)
	}
	return nil
}

// Save inserts a record and returns its generated identifier.
func (s *Store) Save(ctx context.Context, record *models.InvoiceRecord) (string, error) {
	id := uuid.New()

	itemsJSON, err := json.Marshal(record.Items)
	if err != nil {
		return "", fmt.Errorf("failed to encode items: %w", err)
	}
	qualityJSON, err := json.Marshal(record.QualityMetrics)
	if err != nil {
		return "", fmt.Errorf("failed to encode quality metrics: %w", err)
	}

	var total *string
	if record.TotalAmount != nil {
		t := record.TotalAmount.String()
		total = &t
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO invoices (
			id, invoice_number, issue_date, recipient, address,
			items, total_amount, currency, raw_text, quality,
			source_blob, source_url, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13)
	`,
		id, record.InvoiceNumber, record.Date, record.Recipient, record.Address,
		itemsJSON, total, record.Currency, record.RawText, qualityJSON,
		record.SourceBlob, record.SourceURL, record.ProcessingDate,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save invoice: %w", err)
	}

	return id.String(), nil
}

const selectColumns = `
	SELECT id, COALESCE(invoice_number, ''), COALESCE(issue_date, ''),
	       COALESCE(recipient, ''), COALESCE(address, ''),
	       items, total_amount::text, COALESCE(currency, ''),
	       COALESCE(raw_text, ''), quality,
	       COALESCE(source_blob, ''), COALESCE(source_url, ''), processed_at
	FROM invoices
`

// GetByID retrieves a single record; a missing row returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*models.InvoiceRecord, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, parsed)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return record, nil
}

// List returns every record, newest processing first.
func (s *Store) List(ctx context.Context) ([]models.InvoiceRecord, error) {
	rows, err := s.pool.Query(ctx, selectColumns+` ORDER BY processed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []models.InvoiceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*models.InvoiceRecord, error) {
	var (
		record      models.InvoiceRecord
		id          uuid.UUID
		itemsJSON   []byte
		qualityJSON []byte
		total       *string
	)

	err := row.Scan(
		&id, &record.InvoiceNumber, &record.Date,
		&record.Recipient, &record.Address,
		&itemsJSON, &total, &record.Currency,
		&record.RawText, &qualityJSON,
		&record.SourceBlob, &record.SourceURL, &record.ProcessingDate,
	)
	if err != nil {
		return nil, err
	}

	record.ID = id.String()

	record.Items = []models.LineItem{}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &record.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
	}
	if len(qualityJSON) > 0 {
		if err := json.Unmarshal(qualityJSON, &record.QualityMetrics); err != nil {
			return nil, fmt.Errorf("failed to decode quality metrics: %w", err)
		}
	}
	if total != nil {
		d, err := decimal.NewFromString(*total)
		if err != nil {
			return nil, fmt.Errorf("failed to decode total amount: %w", err)
		}
		record.TotalAmount = &d
	}

	return &record, nil
}
