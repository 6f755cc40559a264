package ocr

import "context"

// Engine turns a scanned invoice image into raw text. Implementations are
// free to shell out, call a remote API, or anything else; the caller only
// sees text or an error.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
