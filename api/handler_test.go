package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
	"github.com/sebbdxia/OCR-developpement-interface/internal/pipeline"
	"github.com/sebbdxia/OCR-developpement-interface/internal/storage"
)

type fakeRepo struct {
	records []models.InvoiceRecord
	listErr error
}

func (f *fakeRepo) Save(ctx context.Context, record *models.InvoiceRecord) (string, error) {
	return "stored-id-1", nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.InvoiceRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]models.InvoiceRecord, error) {
	return f.records, f.listErr
}

type fakeSource struct {
	items   []storage.Item
	listErr error
}

func (f *fakeSource) List(ctx context.Context) ([]storage.Item, error) {
	return f.items, f.listErr
}

func (f *fakeSource) Fetch(ctx context.Context, item storage.Item) ([]byte, error) {
	return []byte("INVOICE FAC/2024/0001\nTOTAL 10.00 Euro"), nil
}

type fakeEngine struct{}

func (fakeEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	return string(image), nil
}

type fakeUploader struct {
	name string
	size int64
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, name string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.name = name
	f.size = size
	return "invoices-2018/" + name, nil
}

func testConfig() *models.Config {
	return &models.Config{
		Port: 8080,
		OCR:  models.OCRConfig{Engine: "tesseract"},
	}
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h := NewHandler(testConfig(), nil, &fakeRepo{}, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, true, body["database"])
	assert.Equal(t, "tesseract", body["ocrEngine"])
}

func TestHealthWithoutDatabase(t *testing.T) {
	h := NewHandler(testConfig(), nil, nil, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, false, decodeBody(t, recorder)["database"])
}

func TestGetInvoices(t *testing.T) {
	repo := &fakeRepo{records: []models.InvoiceRecord{
		{ID: "id-1", InvoiceNumber: "FAC/2024/0002", Items: []models.LineItem{}},
		{ID: "id-2", InvoiceNumber: "FAC/2024/0001", Items: []models.LineItem{}},
	}}
	h := NewHandler(testConfig(), nil, repo, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	invoices, ok := body["invoices"].([]interface{})
	require.True(t, ok)
	require.Len(t, invoices, 2)
	first, ok := invoices[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "id-1", first["_id"])
}

func TestGetInvoicesEmpty(t *testing.T) {
	h := NewHandler(testConfig(), nil, &fakeRepo{}, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(0), body["count"])
	// An empty store yields an array, not null.
	assert.Equal(t, []interface{}{}, body["invoices"])
}

func TestGetInvoicesWithoutDatabase(t *testing.T) {
	h := NewHandler(testConfig(), nil, nil, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "error", decodeBody(t, recorder)["status"])
}

func TestGetInvoicesListFailure(t *testing.T) {
	h := NewHandler(testConfig(), nil, &fakeRepo{listErr: errors.New("boom")}, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestGetInvoice(t *testing.T) {
	repo := &fakeRepo{records: []models.InvoiceRecord{
		{ID: "id-1", InvoiceNumber: "FAC/2024/0002", Items: []models.LineItem{}},
	}}
	h := NewHandler(testConfig(), nil, repo, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices/id-1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "success", body["status"])
	invoice, ok := body["invoice"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "FAC/2024/0002", invoice["invoiceNumber"])
}

func TestGetInvoiceNotFound(t *testing.T) {
	h := NewHandler(testConfig(), nil, &fakeRepo{}, nil)

	recorder := serve(h, httptest.NewRequest("GET", "/api/invoices/nope", nil))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invoice not found", body["message"])
}

func TestProcessInvoices(t *testing.T) {
	source := &fakeSource{items: []storage.Item{
		{Name: "a.jpg", URL: "invoices-2018/a.jpg"},
		{Name: "b.jpg", URL: "invoices-2018/b.jpg"},
	}}
	driver := pipeline.NewDriver(source, fakeEngine{}, &fakeRepo{}, 0)
	h := NewHandler(testConfig(), driver, &fakeRepo{}, nil)

	recorder := serve(h, httptest.NewRequest("POST", "/api/process", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["processed"])

	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)
	first, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a.jpg", first["blobName"])
	assert.Equal(t, true, first["success"])
	assert.Equal(t, true, first["stored"])
	assert.Equal(t, "FAC/2024/0001", first["invoiceNumber"])
}

func TestProcessInvoicesListFailure(t *testing.T) {
	source := &fakeSource{listErr: errors.New("bucket unreachable")}
	driver := pipeline.NewDriver(source, fakeEngine{}, nil, 0)
	h := NewHandler(testConfig(), driver, nil, nil)

	recorder := serve(h, httptest.NewRequest("POST", "/api/process", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestUploadScan(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "new_scan.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	uploader := &fakeUploader{}
	h := NewHandler(testConfig(), nil, nil, uploader)

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	recorder := serve(h, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "new_scan.jpg", body["blobName"])
	assert.Equal(t, "invoices-2018/new_scan.jpg", body["url"])
	assert.Equal(t, "new_scan.jpg", uploader.name)
	assert.Equal(t, int64(len("image-bytes")), uploader.size)
}

func TestUploadScanWithoutUploader(t *testing.T) {
	h := NewHandler(testConfig(), nil, nil, nil)

	recorder := serve(h, httptest.NewRequest("POST", "/api/upload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestUploadScanMissingFile(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("notfile", "x"))
	require.NoError(t, writer.Close())

	h := NewHandler(testConfig(), nil, nil, &fakeUploader{})

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	recorder := serve(h, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
