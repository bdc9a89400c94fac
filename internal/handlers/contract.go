package handlers

import (
	"errors"
	"net/http"

	"DF-CONTRATOS/internal/models"
	"DF-CONTRATOS/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContractHandler struct {
	contracts *services.ContractService
	logger    *zap.Logger
}

func NewContractHandler(contracts *services.ContractService, logger *zap.Logger) *ContractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractHandler{contracts: contracts, logger: logger}
}

// NewContract returns the defaults a blank form starts from.
func (h *ContractHandler) NewContract(c *gin.Context) {
	c.JSON(http.StatusOK, h.contracts.New())
}

func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to list contracts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts, "total": len(contracts)})
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) Create(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body"})
		return
	}

	created, err := h.contracts.Create(c.Request.Context(), &contract)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContractHandler) Update(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body"})
		return
	}

	updated, err := h.contracts.Update(c.Request.Context(), c.Param("id"), &contract)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.contracts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateContract reports field errors without saving anything.
func (h *ContractHandler) ValidateContract(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract body"})
		return
	}
	if err := h.contracts.Validate(&contract); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "errors": services.FieldErrors{}})
}

func (h *ContractHandler) storeError(c *gin.Context, err error) {
	var fieldErrors services.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "errors": fieldErrors})
	case errors.Is(err, services.ErrContractNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
	default:
		h.internalError(c, "Failed to process contract", err)
	}
}

func (h *ContractHandler) internalError(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", c.GetString(services.RequestIDKey)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
