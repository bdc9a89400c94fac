package services

import (
	"errors"
	"testing"

	"DF-CONTRATOS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContract() *models.Contract {
	return &models.Contract{
		NomeEscola:       "Escola Modelo",
		CNPJEscola:       "11.222.333/0001-81",
		NomeResponsavel:  "Maria Silva",
		CPFResponsavel:   "529.982.247-25",
		NomeAluno:        "Ana Silva",
		AnoLetivo:        "2024",
		DataInicio:       "2024-02-01",
		DataTermino:      "2024-12-15",
		ValorMensalidade: "450.5",
		DiaVencimento:    "10",
		PercentualMulta:  "2",
		PercentualJuros:  "1",
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestValidatorAcceptsValidContract(t *testing.T) {
	assert.NoError(t, NewContractValidator().Validate(validContract()))
}

func TestValidatorOptionalFieldsMayBeEmpty(t *testing.T) {
	c := validContract()
	c.CNPJEscola = ""
	c.CPFResponsavel = ""
	c.ValorMensalidade = ""
	c.DataInicio = ""
	assert.NoError(t, NewContractValidator().Validate(c))
}

func TestValidatorRequiredFields(t *testing.T) {
	c := validContract()
	c.NomeEscola = ""
	c.NomeResponsavel = "   "
	c.NomeAluno = "\t"

	fe := fieldErrors(t, NewContractValidator().Validate(c))
	assert.Equal(t, FieldErrors{
		"nomeEscola":      "Nome da escola é obrigatório",
		"nomeResponsavel": "Nome do responsável é obrigatório",
		"nomeAluno":       "Nome do aluno é obrigatório",
	}, fe)
}

func TestValidatorIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		cnpj  string
		wants []string
	}{
		{name: "masked valid", cpf: "529.982.247-25", cnpj: "11.222.333/0001-81"},
		{name: "unmasked valid", cpf: "11144477735", cnpj: "11444777000161"},
		{name: "bad check digits", cpf: "529.982.247-24", cnpj: "11.222.333/0001-80", wants: []string{"cpfResponsavel", "cnpjEscola"}},
		{name: "repeated digits", cpf: "111.111.111-11", cnpj: "00000000000000", wants: []string{"cpfResponsavel", "cnpjEscola"}},
		{name: "whitespace only", cpf: " ", cnpj: "  ", wants: []string{"cpfResponsavel", "cnpjEscola"}},
		{name: "too short", cpf: "529.982", cnpj: "11.222", wants: []string{"cpfResponsavel", "cnpjEscola"}},
	}

	v := NewContractValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContract()
			c.CPFResponsavel = tt.cpf
			c.CNPJEscola = tt.cnpj

			err := v.Validate(c)
			if len(tt.wants) == 0 {
				assert.NoError(t, err)
				return
			}
			fe := fieldErrors(t, err)
			assert.Len(t, fe, len(tt.wants))
			assert.Equal(t, "CPF inválido", fe["cpfResponsavel"])
			assert.Equal(t, "CNPJ inválido", fe["cnpjEscola"])
		})
	}
}

func TestValidatorMonthlyFee(t *testing.T) {
	v := NewContractValidator()
	for _, value := range []string{"0", "-10", "abc", "12abc", "Inf", "NaN", "0x1p4", "1_000", "1e3"} {
		c := validContract()
		c.ValorMensalidade = value
		fe := fieldErrors(t, v.Validate(c))
		assert.Equal(t, "Valor da mensalidade deve ser positivo", fe["valorMensalidade"], value)
	}

	for _, value := range []string{"0.01", "450,50", "1200"} {
		c := validContract()
		c.ValorMensalidade = value
		assert.NoError(t, v.Validate(c), value)
	}
}

func TestValidatorPeriod(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		invalid bool
	}{
		{name: "end after start", start: "2024-02-01", end: "2024-12-15"},
		{name: "end before start", start: "2024-02-01", end: "2024-01-01", invalid: true},
		{name: "same day", start: "2024-02-01", end: "2024-02-01", invalid: true},
		{name: "unparseable start", start: "01/02/2024", end: "2024-01-01"},
		{name: "missing end", start: "2024-02-01", end: ""},
	}

	v := NewContractValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContract()
			c.DataInicio = tt.start
			c.DataTermino = tt.end

			err := v.Validate(c)
			if !tt.invalid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, FieldErrors{
				"dataTermino": "Data de término deve ser posterior à data de início",
			}, fieldErrors(t, err))
		})
	}
}

func TestValidatorReportsEveryFailure(t *testing.T) {
	c := &models.Contract{
		NomeAluno:        "Ana Silva",
		ValorMensalidade: "450.5",
		DataInicio:       "2024-02-01",
		DataTermino:      "2024-01-01",
	}

	fe := fieldErrors(t, NewContractValidator().Validate(c))
	assert.ElementsMatch(t, []string{"nomeEscola", "nomeResponsavel", "dataTermino"}, keys(fe))
	assert.NotContains(t, fe, "nomeAluno")
	assert.NotContains(t, fe, "valorMensalidade")
}

func TestFieldErrorsMessageIsSorted(t *testing.T) {
	fe := FieldErrors{"nomeAluno": "b", "cpfResponsavel": "a"}
	assert.Equal(t, "invalid contract: cpfResponsavel: a; nomeAluno: b", fe.Error())
}

func keys(fe FieldErrors) []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	return out
}
