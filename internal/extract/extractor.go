package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
	"github.com/shopspring/decimal"
)

// Patterns for the single supported invoice template. First match wins unless
// noted otherwise; a miss leaves the field absent.
var (
	// Invoice number: "INVOICE FAC/2024/0007". The prefix token is
	// case-insensitive, the result is re-normalized with "FAC/".
	invoiceNumberRe = regexp.MustCompile(`(?i)INVOICE\s+FAC/(\d{4}/\d{4})`)
	// Fallback: a bare reference anywhere in the text, case-sensitive.
	bareInvoiceNumberRe = regexp.MustCompile(`FAC/\d{4}/\d{4}`)

	issueDateRe = regexp.MustCompile(`(?i)Issue\s+date\s+(\d{4}-\d{2}-\d{2})`)

	// The capture stops at the first character outside word/space, so
	// punctuation in a name truncates the match.
	recipientRe = regexp.MustCompile(`(?i)Bill\s+to\s+([\w\s]+)`)

	addressRe = regexp.MustCompile(`(?i)Address[:\s]+([\d\w\s,]+)`)
	// City/state/ZIP fragment, often printed on its own line away from the
	// street address.
	locationRe = regexp.MustCompile(`([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*,\s+[A-Z]{2}\s+\d+)`)

	// Line items: "<description> <qty> x <unit price> Euro", repeated.
	lineItemRe = regexp.MustCompile(`([A-Za-z\s.]+)\s+(\d+)\s+x\s+(\d+\.\d+)\s+Euro`)

	totalRe = regexp.MustCompile(`(?i)TOTAL\s+(\d+\.\d+)\s+Euro`)
)

// Fields derives an invoice record from raw OCR text. It never fails:
// unmatched fields simply remain absent and items may be empty. Quality
// metrics are not populated here; see Score.
func Fields(text string) models.InvoiceRecord {
	record := models.InvoiceRecord{
		Items: []models.LineItem{},
	}

	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		record.InvoiceNumber = "FAC/" + m[1]
	} else if m := bareInvoiceNumberRe.FindString(text); m != "" {
		record.InvoiceNumber = m
	}

	if m := issueDateRe.FindStringSubmatch(text); m != nil {
		record.Date = m[1]
	}

	if m := recipientRe.FindStringSubmatch(text); m != nil {
		record.Recipient = strings.TrimSpace(m[1])
	}

	if m := addressRe.FindStringSubmatch(text); m != nil {
		address := strings.TrimSpace(m[1])
		// The city/state/ZIP line may sit elsewhere in the document; append
		// it when found. It is never used without the street fragment.
		if loc := locationRe.FindString(text); loc != "" {
			address += ", " + loc
		}
		record.Address = address
	}

	for _, m := range lineItemRe.FindAllStringSubmatch(text, -1) {
		item, ok := parseLineItem(m)
		if !ok {
			continue
		}
		record.Items = append(record.Items, item)
	}

	if m := totalRe.FindStringSubmatch(text); m != nil {
		if total, err := decimal.NewFromString(m[1]); err == nil {
			record.TotalAmount = &total
			record.Currency = "Euro"
		}
	}

	return record
}

// parseLineItem converts one regex match into a line item. A malformed
// numeric field drops the single item, not the whole record.
func parseLineItem(m []string) (models.LineItem, bool) {
	quantity, err := strconv.Atoi(m[2])
	if err != nil {
		return models.LineItem{}, false
	}
	unitPrice, err := decimal.NewFromString(m[3])
	if err != nil {
		return models.LineItem{}, false
	}
	return models.LineItem{
		Description: strings.TrimSpace(m[1]),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, true
}
