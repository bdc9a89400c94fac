package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the ISO date format contract dates are entered in.
const DateLayout = "2006-01-02"

// Contract is one school enrollment contract as filled in on the form. Every
// field keeps the text typed by the user, numeric fields are parsed on use.
type Contract struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id" yaml:"id"`

	NomeEscola     string `gorm:"type:varchar(255)" json:"nomeEscola" yaml:"nomeEscola" validate:"notblank"`
	CNPJEscola     string `gorm:"column:cnpj_escola;type:varchar(32)" json:"cnpjEscola" yaml:"cnpjEscola" validate:"omitempty,cnpj"`
	EnderecoEscola string `gorm:"type:text" json:"enderecoEscola" yaml:"enderecoEscola"`

	NomeResponsavel     string `gorm:"type:varchar(255)" json:"nomeResponsavel" yaml:"nomeResponsavel" validate:"notblank"`
	CPFResponsavel      string `gorm:"column:cpf_responsavel;type:varchar(32)" json:"cpfResponsavel" yaml:"cpfResponsavel" validate:"omitempty,cpf"`
	RGResponsavel       string `gorm:"column:rg_responsavel;type:varchar(32)" json:"rgResponsavel" yaml:"rgResponsavel"`
	EnderecoResponsavel string `gorm:"type:text" json:"enderecoResponsavel" yaml:"enderecoResponsavel"`

	NomeAluno   string `gorm:"type:varchar(255)" json:"nomeAluno" yaml:"nomeAluno" validate:"notblank"`
	AnoLetivo   string `gorm:"type:varchar(8)" json:"anoLetivo" yaml:"anoLetivo"`
	DataInicio  string `gorm:"type:varchar(32)" json:"dataInicio" yaml:"dataInicio"`
	DataTermino string `gorm:"type:varchar(32)" json:"dataTermino" yaml:"dataTermino"`

	ValorMensalidade string `gorm:"type:varchar(32)" json:"valorMensalidade" yaml:"valorMensalidade" validate:"omitempty,positive"`
	DiaVencimento    string `gorm:"type:varchar(8)" json:"diaVencimento" yaml:"diaVencimento"`
	PercentualMulta  string `gorm:"type:varchar(16)" json:"percentualMulta" yaml:"percentualMulta"`
	PercentualJuros  string `gorm:"type:varchar(16)" json:"percentualJuros" yaml:"percentualJuros"`

	Local          string `gorm:"type:varchar(255)" json:"local" yaml:"local"`
	DataAssinatura string `gorm:"type:varchar(32)" json:"dataAssinatura" yaml:"dataAssinatura"`

	CreatedAt time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" yaml:"-"`
}

func (Contract) TableName() string {
	return "contracts"
}

// NewContract returns a blank contract for a new form session, with the
// academic year and signature date taken from now.
func NewContract(now time.Time) *Contract {
	return &Contract{
		AnoLetivo:       strconv.Itoa(now.Year()),
		DiaVencimento:   "10",
		PercentualMulta: "2",
		PercentualJuros: "1",
		DataAssinatura:  now.Format(DateLayout),
	}
}

// amountPattern is the decimal grammar accepted on the form: an optional sign,
// digits and an optional fraction after "." or ",".
var amountPattern = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)

// ParseAmount parses a decimal amount typed on the form. Both "450.5" and
// "450,5" are accepted; hex, exponents, underscores and Inf/NaN are not.
func ParseAmount(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if !amountPattern.MatchString(value) {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
}

// ParseDate parses a contract date, either a plain YYYY-MM-DD date or a full
// RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
