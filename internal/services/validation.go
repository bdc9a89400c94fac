package services

import (
	"reflect"
	"sort"
	"strings"

	"DF-CONTRATOS/internal/fiscal"
	"DF-CONTRATOS/internal/mask"
	"DF-CONTRATOS/internal/models"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a contract field (JSON name) to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + e[field]
	}
	return "invalid contract: " + strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"nomeEscola":       "Nome da escola é obrigatório",
	"nomeResponsavel":  "Nome do responsável é obrigatório",
	"nomeAluno":        "Nome do aluno é obrigatório",
	"cpfResponsavel":   "CPF inválido",
	"cnpjEscola":       "CNPJ inválido",
	"valorMensalidade": "Valor da mensalidade deve ser positivo",
	"dataTermino":      "Data de término deve ser posterior à data de início",
}

// ContractValidator checks a contract form before it is saved.
type ContractValidator struct {
	validate *validator.Validate
}

func NewContractValidator() *ContractValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return fiscal.ValidCPF(mask.Remove(fl.Field().String()))
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return fiscal.ValidCNPJ(mask.Remove(fl.Field().String()))
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		amount, err := models.ParseAmount(fl.Field().String())
		return err == nil && amount > 0
	})
	v.RegisterStructValidation(validatePeriod, models.Contract{})

	return &ContractValidator{validate: v}
}

// Validate returns nil or a FieldErrors describing every failed rule.
func (cv *ContractValidator) Validate(contract *models.Contract) error {
	err := cv.validate.Struct(contract)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		message, known := fieldMessages[fe.Field()]
		if !known {
			message = "valor inválido"
		}
		fieldErrors[fe.Field()] = message
	}
	return fieldErrors
}

// validatePeriod rejects an end date on or before the start date. Dates that
// don't parse are left alone.
func validatePeriod(sl validator.StructLevel) {
	contract := sl.Current().Interface().(models.Contract)
	if contract.DataInicio == "" || contract.DataTermino == "" {
		return
	}

	start, err := models.ParseDate(contract.DataInicio)
	if err != nil {
		return
	}
	end, err := models.ParseDate(contract.DataTermino)
	if err != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(contract.DataTermino, "dataTermino", "DataTermino", "after_start", "")
	}
}
