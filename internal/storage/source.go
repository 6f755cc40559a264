package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// Item is one scanned invoice available from a source. URL is an opaque
// locator: an object path for remote storage, a file path for local
// directories. It also serves as provenance on stored records.
type Item struct {
	Name string
	URL  string
}

// Source enumerates and fetches scanned invoices. The pipeline does not care
// whether items come from a bucket listing or a local folder.
type Source interface {
	List(ctx context.Context) ([]Item, error)
	Fetch(ctx context.Context, item Item) ([]byte, error)
}

// scanExtensions are the file types accepted as invoice scans.
var scanExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// IsScanFile reports whether a file name looks like an invoice scan.
func IsScanFile(name string) bool {
	_, ok := scanExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ContentTypeForFile guesses the MIME type from the file extension.
func ContentTypeForFile(name string) string {
	if ct, ok := scanExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
