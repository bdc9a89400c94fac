package handlers

import (
	"net/http"

	"DF-CONTRATOS/internal/fiscal"
	"DF-CONTRATOS/internal/mask"

	"github.com/gin-gonic/gin"
)

type ValueRequest struct {
	Value string `json:"value"`
}

type MaskResponse struct {
	Kind   mask.Kind `json:"kind"`
	Masked string    `json:"masked"`
	Digits string    `json:"digits"`
}

type IdentifierResponse struct {
	Kind   mask.Kind `json:"kind"`
	Digits string    `json:"digits"`
	Valid  bool      `json:"valid"`
}

// MaskValue formats a raw input the way the form field shows it while typing.
// An unknown kind passes the value through unchanged with an empty kind.
func MaskValue(c *gin.Context) {
	kind := mask.ParseKind(c.Param("kind"))

	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	masked := mask.Apply(req.Value, kind)
	c.JSON(http.StatusOK, MaskResponse{
		Kind:   kind,
		Masked: masked,
		Digits: mask.Remove(masked),
	})
}

// ValidateIdentifier checks CPF or CNPJ check digits; masked input is accepted.
func ValidateIdentifier(c *gin.Context) {
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	digits := mask.Remove(req.Value)
	var valid bool
	kind := mask.ParseKind(c.Param("kind"))
	switch kind {
	case mask.KindCPF:
		valid = fiscal.ValidCPF(digits)
	case mask.KindCNPJ:
		valid = fiscal.ValidCNPJ(digits)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Only cpf and cnpj can be validated"})
		return
	}

	c.JSON(http.StatusOK, IdentifierResponse{
		Kind:   kind,
		Digits: digits,
		Valid:  valid,
	})
}
