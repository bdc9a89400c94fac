package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"DF-CONTRATOS/internal/models"
	"DF-CONTRATOS/internal/services"
	"DF-CONTRATOS/internal/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	contracts *services.ContractService
	documents *services.DocumentService
	logger    *zap.Logger
}

func NewDocumentHandler(contracts *services.ContractService, documents *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{contracts: contracts, documents: documents, logger: logger}
}

// Preview lays out the posted contract without exporting or saving it.
func (h *DocumentHandler) Preview(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body"})
		return
	}

	preview, err := h.documents.Preview(c.Request.Context(), &contract)
	if err != nil {
		h.generationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pages":      preview.Document.Pages,
		"page_count": preview.Document.PageCount(),
		"layout":     preview.Document.Layout,
		"warnings":   preview.Warnings,
		"template":   preview.Template,
	})
}

// Generate exports a saved contract as PDF. Saved contracts are validated
// again before export.
func (h *DocumentHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	contract, err := h.contracts.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		h.generationError(c, err)
		return
	}

	if err := h.contracts.Validate(contract); err != nil {
		var fieldErrors services.FieldErrors
		if errors.As(err, &fieldErrors) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "errors": fieldErrors})
			return
		}
		h.generationError(c, err)
		return
	}

	result, err := h.documents.Generate(ctx, contract)
	if err != nil {
		h.generationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *DocumentHandler) Download(c *gin.Context) {
	reader, document, err := h.documents.GetDocumentReader(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("failed to open document", zap.String("document_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read document"})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename))
	if document.FileSize > 0 {
		c.Header("Content-Length", strconv.FormatInt(document.FileSize, 10))
	}
	c.Header("Content-Type", document.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("download interrupted", zap.String("document_id", document.ID), zap.Error(err))
	}
}

func (h *DocumentHandler) generationError(c *gin.Context, err error) {
	requestID := c.GetString(services.RequestIDKey)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		h.logger.Error("contract template unavailable", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contract template not found"})
		return
	}
	h.logger.Error("failed to generate document", zap.String("request_id", requestID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
}
