package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/sebbdxia/OCR-developpement-interface/internal/db"
	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
	"github.com/sebbdxia/OCR-developpement-interface/internal/pipeline"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.0.0"
)

// Uploader pushes a new scan into the remote container the pipeline reads
// from. Nil when the configured source does not accept uploads.
type Uploader interface {
	Upload(ctx context.Context, name string, reader io.Reader, size int64) (string, error)
}

// Handler handles HTTP requests for the invoice pipeline
type Handler struct {
	config   *models.Config
	driver   *pipeline.Driver
	repo     db.Repository
	uploader Uploader
}

// NewHandler creates a new API handler. repo and uploader may be nil when
// the corresponding backends are not configured.
func NewHandler(config *models.Config, driver *pipeline.Driver, repo db.Repository, uploader Uploader) *Handler {
	return &Handler{
		config:   config,
		driver:   driver,
		repo:     repo,
		uploader: uploader,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", h.Health).Methods("GET")
	router.HandleFunc("/api/process", h.ProcessInvoices).Methods("POST")
	router.HandleFunc("/api/invoices", h.GetInvoices).Methods("GET")
	router.HandleFunc("/api/invoices/{id}", h.GetInvoice).Methods("GET")
	router.HandleFunc("/api/upload", h.UploadScan).Methods("POST")

	return router
}

// Health reports service status and dependency availability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
		"database":  h.repo != nil,
		"ocrEngine": h.config.OCR.Engine,
		"tesseract": checkTesseract(),
	})
}

// checkTesseract returns the local tesseract version, or "" when absent.
func checkTesseract() string {
	out, err := exec.Command("tesseract", "--version").CombinedOutput()
	if err != nil {
		return ""
	}
	lines := strings.Split(string(out), "\n")
	return strings.TrimSpace(lines[0])
}

// ProcessInvoices runs the ingestion pipeline over every scan in the
// configured source and reports per-item outcomes.
func (h *Handler) ProcessInvoices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	results, err := h.driver.ProcessAll(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list scans: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "success",
		"processed": len(results),
		"results":   results,
	})
}

// GetInvoices returns all stored records, newest processing first.
func (h *Handler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.repo == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	invoices, err := h.repo.List(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get invoices: %v", err))
		return
	}
	if invoices == nil {
		invoices = []models.InvoiceRecord{}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "success",
		"count":    len(invoices),
		"invoices": invoices,
	})
}

// GetInvoice returns a single stored record.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.repo == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	invoice, err := h.repo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get invoice: %v", err))
		return
	}
	if invoice == nil {
		h.sendError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"invoice": invoice,
	})
}

// UploadScan stores a new scan in the remote container so the next pipeline
// run picks it up.
func (h *Handler) UploadScan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.uploader == nil {
		h.sendError(w, http.StatusServiceUnavailable, "uploads require an object storage backend")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' field)")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to upload scan: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "success",
		"blobName": header.Filename,
		"url":      url,
	})
}

// sendError sends an error envelope.
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
