package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agribot/database"
)

// ProductGuideHandler отдаёт записи справочника продуктов.
type ProductGuideHandler struct {
	storage database.Storage
}

// NewProductGuideHandler создаёт обработчик справочника продуктов.
func NewProductGuideHandler(storage database.Storage) *ProductGuideHandler {
	return &ProductGuideHandler{storage: storage}
}

// HandleGetProduct ищет запись справочника по имени продукта.
func (h *ProductGuideHandler) HandleGetProduct(c *gin.Context) {
	product := strings.TrimSpace(c.Param("product"))
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product name is required"})
		return
	}

	records, err := h.storage.Query(c.Request.Context(), "product_guide", map[string]any{
		"product": product,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query product guide"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found in guide"})
		return
	}

	c.JSON(http.StatusOK, records[0])
}
