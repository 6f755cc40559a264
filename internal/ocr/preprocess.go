package ocr

import (
	"bytes"
	"fmt"
	"log"

	"github.com/disintegration/imaging"
)

// PreprocessImage enhances a scan for better OCR results: grayscale for
// contrast, then contrast and sharpening passes to clean up text edges.
// If the image cannot be decoded the original bytes are returned so the
// engine can still try.
func PreprocessImage(image []byte) []byte {
	src, err := imaging.Decode(bytes.NewReader(image))
	if err != nil {
		log.Printf("Warning: image preprocessing skipped: %v", err)
		return image
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		log.Printf("Warning: image preprocessing skipped: %v", err)
		return image
	}

	log.Printf("Image enhanced for OCR: %d bytes -> %d bytes", len(image), buf.Len())
	return buf.Bytes()
}

// DetectImageFormat returns the short format name ("jpeg", "png", ...) used
// by vision APIs, guessed from magic bytes.
func DetectImageFormat(image []byte) string {
	switch {
	case bytes.HasPrefix(image, []byte("\x89PNG")):
		return "png"
	case bytes.HasPrefix(image, []byte("\xff\xd8")):
		return "jpeg"
	case bytes.HasPrefix(image, []byte("GIF8")):
		return "gif"
	case bytes.HasPrefix(image, []byte("RIFF")):
		return "webp"
	default:
		return "jpeg"
	}
}

// formatMIME maps a short format name to its MIME type.
func formatMIME(format string) string {
	return fmt.Sprintf("image/%s", format)
}
