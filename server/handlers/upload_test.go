package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agribot/pipeline"
	"agribot/server/services"
)

// fakeStarter запоминает переданные файлы и возвращает заданную ошибку.
type fakeStarter struct {
	files  pipeline.Files
	called bool
	err    error
}

func (f *fakeStarter) StartRun(files pipeline.Files) error {
	f.called = true
	f.files = files
	return f.err
}

func uploadRouter(starter *fakeStarter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/upload", NewUploadHandler(starter, nil).HandleUpload)
	return router
}

// multipartBody собирает тело запроса из пяти файлов; имена файлов задаются
// по полям, отсутствующие поля пропускаются.
func multipartBody(t *testing.T, filenames map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, filename := range filenames {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("вміст " + field)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func allFiles() map[string]string {
	return map[string]string{
		"submissions_file": "submissions.xlsx",
		"av_stock_file":    "stock.xlsx",
		"remains_file":     "remains.xls",
		"payment_file":     "payments.xlsx",
		"moved_data_file":  "moved.xlsx",
	}
}

func TestHandleUpload(t *testing.T) {
	starter := &fakeStarter{}
	router := uploadRouter(starter)

	body, contentType := multipartBody(t, allFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", w.Code, w.Body.String())
	}
	if !starter.called {
		t.Fatal("StartRun was not called")
	}
	if string(starter.files.Stock) != "вміст av_stock_file" {
		t.Errorf("stock bytes = %q", starter.files.Stock)
	}
	if string(starter.files.Movements) != "вміст moved_data_file" {
		t.Errorf("movement bytes = %q", starter.files.Movements)
	}
}

func TestHandleUploadRejectsWrongExtension(t *testing.T) {
	starter := &fakeStarter{}
	router := uploadRouter(starter)

	files := allFiles()
	files["payment_file"] = "payments.csv"
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if starter.called {
		t.Error("StartRun should not be called for an invalid file type")
	}
}

func TestHandleUploadMissingFile(t *testing.T) {
	starter := &fakeStarter{}
	router := uploadRouter(starter)

	files := allFiles()
	delete(files, "remains_file")
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if starter.called {
		t.Error("StartRun should not be called when a file is missing")
	}
}

func TestHandleUploadBusy(t *testing.T) {
	starter := &fakeStarter{err: services.ErrRunInProgress}
	router := uploadRouter(starter)

	body, contentType := multipartBody(t, allFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestHandleUploadStartFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.New("database is gone")}
	router := uploadRouter(starter)

	body, contentType := multipartBody(t, allFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHasExcelExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{filename: "report.xlsx", want: true},
		{filename: "report.XLSX", want: true},
		{filename: "report.xls", want: true},
		{filename: "report.csv", want: false},
		{filename: "report.xlsx.exe", want: false},
		{filename: "report", want: false},
	}

	for _, tt := range tests {
		if got := hasExcelExtension(tt.filename); got != tt.want {
			t.Errorf("hasExcelExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
