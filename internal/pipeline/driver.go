package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/sebbdxia/OCR-developpement-interface/internal/db"
	"github.com/sebbdxia/OCR-developpement-interface/internal/extract"
	"github.com/sebbdxia/OCR-developpement-interface/internal/ocr"
	"github.com/sebbdxia/OCR-developpement-interface/internal/storage"
)

// Error kinds recorded on per-item outcomes.
const (
	ErrKindFetch       = "fetch"
	ErrKindOCR         = "ocr"
	ErrKindPersistence = "persistence"
)

// Outcome is the per-item result of one pipeline run. A persistence failure
// still counts as processed (Success true, Stored false) so a storage hiccup
// never hides a good extraction; the error kind makes it observable.
type Outcome struct {
	BlobName      string `json:"blobName"`
	InvoiceID     string `json:"invoiceId,omitempty"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Success       bool   `json:"success"`
	Stored        bool   `json:"stored"`
	ErrorKind     string `json:"errorKind,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Driver runs the ingestion pipeline: for each item in the source, fetch the
// scan, OCR it, extract a structured record, and persist it. Failures are
// isolated per item; one bad scan never aborts the batch.
type Driver struct {
	source  storage.Source
	engine  ocr.Engine
	repo    db.Repository // nil means extraction-only mode, nothing stored
	timeout time.Duration
}

// NewDriver wires the pipeline. timeout bounds the fetch and OCR steps for a
// single item; zero means 30 seconds.
func NewDriver(source storage.Source, engine ocr.Engine, repo db.Repository, timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Driver{
		source:  source,
		engine:  engine,
		repo:    repo,
		timeout: timeout,
	}
}

// ProcessAll lists the source and processes every item in listed order. It
// only fails when the listing itself does.
func (d *Driver) ProcessAll(ctx context.Context) ([]Outcome, error) {
	items, err := d.source.List(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(items))
	for _, item := range items {
		outcome := d.processItem(ctx, item)
		if outcome.Error != "" {
			log.Printf("Warning: %s failed for %s: %s", outcome.ErrorKind, item.Name, outcome.Error)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (d *Driver) processItem(ctx context.Context, item storage.Item) Outcome {
	outcome := Outcome{BlobName: item.Name}

	fetchCtx, cancel := context.WithTimeout(ctx, d.timeout)
	image, err := d.source.Fetch(fetchCtx, item)
	cancel()
	if err != nil {
		outcome.ErrorKind = ErrKindFetch
		outcome.Error = err.Error()
		return outcome
	}

	ocrCtx, cancel := context.WithTimeout(ctx, d.timeout)
	text, err := d.engine.Recognize(ocrCtx, image)
	cancel()
	if err != nil {
		outcome.ErrorKind = ErrKindOCR
		outcome.Error = err.Error()
		return outcome
	}

	record := extract.Process(text)
	record.SourceBlob = item.Name
	record.SourceURL = item.URL

	outcome.InvoiceNumber = record.InvoiceNumber
	outcome.Success = true

	if d.repo == nil {
		outcome.ErrorKind = ErrKindPersistence
		outcome.Error = "persistence not configured"
		return outcome
	}

	id, err := d.repo.Save(ctx, &record)
	if err != nil {
		outcome.ErrorKind = ErrKindPersistence
		outcome.Error = err.Error()
		return outcome
	}

	outcome.InvoiceID = id
	outcome.Stored = true
	return outcome
}
