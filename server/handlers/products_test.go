package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeQueryStorage отдаёт заранее заданные записи справочника.
type fakeQueryStorage struct {
	records []map[string]any
	err     error

	table string
	where map[string]any
}

func (f *fakeQueryStorage) DeleteAll(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeQueryStorage) InsertBatch(_ context.Context, _ string, _ []map[string]any) error {
	return nil
}

func (f *fakeQueryStorage) Query(_ context.Context, table string, where map[string]any) ([]map[string]any, error) {
	f.table = table
	f.where = where
	return f.records, f.err
}

func productRouter(storage *fakeQueryStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/product-guide/:product", NewProductGuideHandler(storage).HandleGetProduct)
	return router
}

func TestHandleGetProduct(t *testing.T) {
	storage := &fakeQueryStorage{
		records: []map[string]any{
			{"id": "abc", "product": "Насіння кукурудзи П1 2025", "line_of_business": "Насіння"},
		},
	}
	router := productRouter(storage)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-guide/Насіння%20кукурудзи%20П1%202025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if storage.table != "product_guide" {
		t.Errorf("queried table = %q, want product_guide", storage.table)
	}
	if storage.where["product"] != "Насіння кукурудзи П1 2025" {
		t.Errorf("where = %v", storage.where)
	}

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if payload["id"] != "abc" {
		t.Errorf("response id = %v, want abc", payload["id"])
	}
}

func TestHandleGetProductNotFound(t *testing.T) {
	router := productRouter(&fakeQueryStorage{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-guide/невідомий", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleGetProductQueryFailure(t *testing.T) {
	router := productRouter(&fakeQueryStorage{err: errors.New("database is gone")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-guide/будь-що", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
