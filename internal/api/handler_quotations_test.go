package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/pricing"
)

// createQuote submits a valid multipart quote request and returns the body.
func createQuote(t *testing.T, r *gin.Engine) map[string]any {
	t.Helper()
	req := multipartRequest(t, "/api/quotations", quoteFields(), []formFile{stlFile("bracket.stl")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return decodeBody(t, w)
}

func TestCreateQuotation(t *testing.T) {
	r, s, rec := newTestServer(t)
	seedCatalog(t, s)

	body := createQuote(t, r)
	assert.Regexp(t, `^QT[A-Z0-9]{6}$`, body["quoteId"])
	assert.Equal(t, pricing.Delivery3DPrinting, body["deliveryTime"])
	assert.Greater(t, body["estimatedPrice"].(float64), 0.0)
	assert.Equal(t, "Quote generated successfully", body["message"])

	require.Len(t, rec.dispatched(), 1, "admin notification dispatched")

	var files []model.QuoteFile
	require.NoError(t, s.DB().Find(&files).Error)
	require.Len(t, files, 1)
	assert.Equal(t, "bracket.stl", files[0].OriginalName)
	_, err := os.Stat(files[0].FilePath)
	assert.NoError(t, err, "uploaded file persisted to disk")
}

func TestCreateQuotationRejectsDisallowedType(t *testing.T) {
	r, s, rec := newTestServer(t)
	seedCatalog(t, s)

	req := multipartRequest(t, "/api/quotations", quoteFields(), []formFile{
		{Name: "malware.exe", ContentType: "application/x-msdownload", Content: "MZ"},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "invalid file type")

	var count int64
	require.NoError(t, s.DB().Model(&model.Quotation{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, rec.dispatched())
}

func TestCreateQuotationRequiresFiles(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)

	req := multipartRequest(t, "/api/quotations", quoteFields(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one file is required", decodeBody(t, w)["error"])
}

func TestCreateQuotationTooManyFiles(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)

	files := []formFile{stlFile("a.stl"), stlFile("b.stl"), stlFile("c.stl"), stlFile("d.stl")}
	req := multipartRequest(t, "/api/quotations", quoteFields(), files)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateQuotationServiceNotAvailable(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s) // PLA+ only

	fields := quoteFields()
	fields["material"] = "Titanium"
	req := multipartRequest(t, "/api/quotations", fields, []formFile{stlFile("bracket.stl")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Service not available", decodeBody(t, w)["error"])
}

func TestListQuotations(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)
	createQuote(t, r)

	unauthenticated := doJSON(r, http.MethodGet, "/api/quotations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, unauthenticated.Code)

	token := login(t, r)
	w := doJSON(r, http.MethodGet, "/api/quotations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	quotations := body["quotations"].([]any)
	require.Len(t, quotations, 1)
	first := quotations[0].(map[string]any)
	assert.Equal(t, []any{"bracket.stl"}, first["files"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, 1.0, pagination["total"])
}

func TestUpdateQuotationStatus(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)
	createQuote(t, r)
	token := login(t, r)

	bad := doJSON(r, http.MethodPatch, "/api/quotations/1/status", token, gin.H{"status": "Archived"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "Invalid status", decodeBody(t, bad)["error"])

	w := doJSON(r, http.MethodPatch, "/api/quotations/1/status", token, gin.H{
		"status": model.QuotationSent,
		"notes":  "sent by email",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, model.QuotationSent, body["status"])
	assert.Equal(t, "sent by email", body["notes"])

	missing := doJSON(r, http.MethodPatch, "/api/quotations/999/status", token, gin.H{"status": model.QuotationSent})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestConvertQuotation(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)
	createQuote(t, r)
	token := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/quotations/1/convert-to-order", token, gin.H{
		"deadline": "2026-09-15",
		"notes":    "rush job",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "FI001", body["orderId"])
	assert.Equal(t, "Order created successfully", body["message"])

	var order model.Order
	require.NoError(t, s.DB().Preload("Files").First(&order).Error)
	assert.Equal(t, model.OrderPending, order.Status)
	require.NotNil(t, order.Deadline)
	assert.Equal(t, "2026-09-15", order.Deadline.Format("2006-01-02"))
	assert.Len(t, order.Files, 1)

	badDeadline := doJSON(r, http.MethodPost, "/api/quotations/1/convert-to-order", token, gin.H{
		"deadline": "next week",
	})
	assert.Equal(t, http.StatusBadRequest, badDeadline.Code)

	missing := doJSON(r, http.MethodPost, "/api/quotations/999/convert-to-order", token, gin.H{})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestGetQuotation(t *testing.T) {
	r, s, _ := newTestServer(t)
	seedCatalog(t, s)
	created := createQuote(t, r)
	token := login(t, r)

	w := doJSON(r, http.MethodGet, "/api/quotations/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["quoteId"], decodeBody(t, w)["quote_id"])

	missing := doJSON(r, http.MethodGet, "/api/quotations/999", token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Quotation not found", decodeBody(t, missing)["error"])

	bad := doJSON(r, http.MethodGet, fmt.Sprintf("/api/quotations/%s", "abc"), token, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
