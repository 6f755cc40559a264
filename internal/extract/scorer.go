package extract

import (
	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
	"github.com/shopspring/decimal"
)

// consistencyTolerance is one currency unit: smaller differences between the
// stated total and the computed item sum are treated as rounding noise.
var consistencyTolerance = decimal.NewFromInt(1)

// Score computes quality metrics for an extracted record.
//
// Completeness counts how many of the four key fields (invoice number, date,
// recipient, total) were found. Consistency cross-checks the stated total
// against the sum of line-item amounts; when either side of the check is
// missing there is nothing to contradict, so the score stays at 1.
// The overall score weights completeness 0.7 and consistency 0.3.
func Score(record models.InvoiceRecord) models.QualityMetrics {
	present := 0
	if record.InvoiceNumber != "" {
		present++
	}
	if record.Date != "" {
		present++
	}
	if record.Recipient != "" {
		present++
	}
	if record.TotalAmount != nil {
		present++
	}
	completeness := float64(present) / 4

	consistency := 1.0
	if len(record.Items) > 0 && record.TotalAmount != nil {
		calculated := decimal.Zero
		for _, item := range record.Items {
			calculated = calculated.Add(item.Amount)
		}
		diff := calculated.Sub(*record.TotalAmount).Abs()
		if diff.GreaterThan(consistencyTolerance) {
			if record.TotalAmount.IsZero() {
				consistency = 0
			} else {
				ratio, _ := diff.Div(*record.TotalAmount).Float64()
				consistency = 1 - ratio
				if consistency < 0 {
					consistency = 0
				}
			}
		}
	}

	return models.QualityMetrics{
		Completeness: completeness,
		Consistency:  consistency,
		OverallScore: 0.7*completeness + 0.3*consistency,
	}
}
