package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, matching the stored documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// InvoiceRecord is the structured result of processing one scanned invoice.
// Optional fields stay at their zero value when the corresponding pattern did
// not match in the OCR text; absence is reflected in the quality metrics, not
// reported as an error.
type InvoiceRecord struct {
	ID            string `json:"_id,omitempty"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"` // canonical FAC/YYYY/NNNN
	Date          string `json:"date,omitempty"`          // YYYY-MM-DD, verbatim from the document
	Recipient     string `json:"recipient,omitempty"`
	Address       string `json:"address,omitempty"`

	// Items preserves the order of appearance in the OCR text.
	Items []LineItem `json:"items"`

	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
	Currency    string           `json:"currency,omitempty"`

	// ProcessingDate is when the record was produced, not a document date.
	ProcessingDate time.Time `json:"processingDate"`

	// RawText keeps the complete OCR output for audit and debugging.
	RawText string `json:"rawText,omitempty"`

	QualityMetrics QualityMetrics `json:"qualityMetrics"`

	// Source provenance, set by the ingestion driver.
	SourceBlob string `json:"sourceBlob,omitempty"`
	SourceURL  string `json:"sourceUrl,omitempty"`
}

// LineItem is a single billed line. Amount is always derived from quantity
// and unit price, never parsed independently.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// QualityMetrics scores how complete and internally consistent an extracted
// record is. All values are in [0,1].
type QualityMetrics struct {
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	OverallScore float64 `json:"overallScore"`
}
