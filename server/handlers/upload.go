package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agribot/pipeline"
	"agribot/server/services"
)

// Имена полей multipart-формы, по одному на тип выгрузки.
const (
	fieldSubmissions = "submissions_file"
	fieldStock       = "av_stock_file"
	fieldRemains     = "remains_file"
	fieldPayments    = "payment_file"
	fieldMovements   = "moved_data_file"
)

// UploadStarter принимает пять выгрузок и запускает прогон в фоне.
type UploadStarter interface {
	StartRun(files pipeline.Files) error
}

// UploadHandler принимает пять Excel-файлов и передаёт их в ETL.
type UploadHandler struct {
	etl    UploadStarter
	logger *slog.Logger
}

// NewUploadHandler создаёт обработчик загрузки файлов.
func NewUploadHandler(etl UploadStarter, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{etl: etl, logger: logger}
}

// HandleUpload обрабатывает POST с пятью выгрузками. Расширения файлов
// проверяются до какой-либо обработки; при уже идущем прогоне запрос
// отклоняется с 409.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	fields := []string{fieldSubmissions, fieldStock, fieldRemains, fieldPayments, fieldMovements}
	contents := make(map[string][]byte, len(fields))

	for _, field := range fields {
		file, err := c.FormFile(field)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("missing file %q", field),
			})
			return
		}
		if !hasExcelExtension(file.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid file type for %q: only .xlsx or .xls files are allowed", field),
			})
			return
		}

		data, err := readMultipartFile(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("failed to read file %q", field),
			})
			return
		}
		contents[field] = data
	}

	files := pipeline.Files{
		Stock:       contents[fieldStock],
		Remains:     contents[fieldRemains],
		Submissions: contents[fieldSubmissions],
		Payments:    contents[fieldPayments],
		Movements:   contents[fieldMovements],
	}

	if err := h.etl.StartRun(files); err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "data load already in progress"})
			return
		}
		h.logger.Error("failed to start ETL run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start data load"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "data processing started in the background",
	})
}

// hasExcelExtension проверяет расширение файла выгрузки.
func hasExcelExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
