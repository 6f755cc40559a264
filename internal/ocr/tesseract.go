package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Tesseract runs the tesseract binary over a preprocessed scan. The binary
// must be on PATH; Available reports whether it is.
type Tesseract struct {
	language string
}

// NewTesseract creates a tesseract-backed engine for the given language.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// Available reports whether the tesseract binary can be executed.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// Recognize writes the image to a temp file and runs tesseract with stdout
// output. The image is enhanced first; tesseract reads thermal-print scans
// poorly without it.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	processed := PreprocessImage(image)

	input, err := writeTempImage(processed)
	if err != nil {
		return "", err
	}
	defer os.Remove(input)

	cmd := exec.CommandContext(ctx, "tesseract", input, "stdout", "-l", t.language)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w - %s", err, stderr.String())
	}

	return stdout.String(), nil
}

// writeTempImage stores the scan under a unique path. Recognitions can run
// concurrently, so the input file must never be shared between calls.
func writeTempImage(image []byte) (string, error) {
	f, err := os.CreateTemp("", "ocr_input_*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	if _, err := f.Write(image); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	return f.Name(), nil
}
