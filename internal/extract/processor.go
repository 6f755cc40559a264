package extract

import (
	"time"

	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
)

// Process runs field extraction and quality scoring over raw OCR text and
// returns the finished record. The result is complete except for source
// provenance and storage identifier; callers must not mutate the extracted
// fields afterwards.
func Process(text string) models.InvoiceRecord {
	record := Fields(text)
	record.RawText = text
	record.ProcessingDate = time.Now()
	record.QualityMetrics = Score(record)
	return record
}
