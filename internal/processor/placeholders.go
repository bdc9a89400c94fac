package processor

import (
	"math"
	"regexp"
	"strings"

	"DF-CONTRATOS/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Delimiter wraps a field name to form a placeholder token, e.g. $nomeAluno$.
const Delimiter = "$"

// displayDateLayout is the Brazilian DD/MM/YYYY format used in documents.
const displayDateLayout = "02/01/2006"

// tokenPattern matches anything shaped like a placeholder token. Bare dollar
// signs, as in "R$ 450,00", never match.
var tokenPattern = regexp.MustCompile(`\$[A-Za-z][A-Za-z0-9_]*\$`)

var brazilianPrinter = message.NewPrinter(language.BrazilianPortuguese)

// placeholderField describes how one contract field becomes the text that
// replaces its token.
type placeholderField struct {
	name     string
	value    func(*models.Contract) string
	format   func(value, fallback string) string
	fallback string
}

func (f placeholderField) token() string {
	return Delimiter + f.name + Delimiter
}

// fields is the closed set of substitutions, in evaluation order.
var fields = []placeholderField{
	{"nomeEscola", func(c *models.Contract) string { return c.NomeEscola }, valueOrFallback, "[NOME DA ESCOLA]"},
	{"cnpjEscola", func(c *models.Contract) string { return c.CNPJEscola }, valueOrFallback, "[CNPJ]"},
	{"enderecoEscola", func(c *models.Contract) string { return c.EnderecoEscola }, valueOrFallback, "[ENDEREÇO DA ESCOLA]"},
	{"nomeResponsavel", func(c *models.Contract) string { return c.NomeResponsavel }, valueOrFallback, "[NOME DO RESPONSÁVEL]"},
	{"cpfResponsavel", func(c *models.Contract) string { return c.CPFResponsavel }, valueOrFallback, "[CPF]"},
	{"rgResponsavel", func(c *models.Contract) string { return c.RGResponsavel }, valueOrFallback, "[RG]"},
	{"enderecoResponsavel", func(c *models.Contract) string { return c.EnderecoResponsavel }, valueOrFallback, "[ENDEREÇO DO RESPONSÁVEL]"},
	{"nomeAluno", func(c *models.Contract) string { return c.NomeAluno }, valueOrFallback, "[NOME DO ALUNO]"},
	{"anoLetivo", func(c *models.Contract) string { return c.AnoLetivo }, valueOrFallback, "[ANO LETIVO]"},
	{"dataInicio", func(c *models.Contract) string { return c.DataInicio }, formatDate, "[DATA INÍCIO]"},
	{"dataTermino", func(c *models.Contract) string { return c.DataTermino }, formatDate, "[DATA TÉRMINO]"},
	{"valorMensalidade", func(c *models.Contract) string { return c.ValorMensalidade }, formatCurrency, "0,00"},
	{"diaVencimento", func(c *models.Contract) string { return c.DiaVencimento }, valueOrFallback, "10"},
	{"percentualMulta", func(c *models.Contract) string { return c.PercentualMulta }, valueOrFallback, "2"},
	{"percentualJuros", func(c *models.Contract) string { return c.PercentualJuros }, valueOrFallback, "1"},
	{"local", func(c *models.Contract) string { return c.Local }, valueOrFallback, "[LOCAL]"},
	{"dataAssinatura", func(c *models.Contract) string { return c.DataAssinatura }, formatDate, "[DATA ASSINATURA]"},
}

// Tokens returns every known placeholder token in evaluation order.
func Tokens() []string {
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = f.token()
	}
	return tokens
}

// Placeholders builds the token -> value map for a contract. Every value is
// either the formatted field or its fallback, never empty.
func Placeholders(c *models.Contract) map[string]string {
	if c == nil {
		c = &models.Contract{}
	}
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.token()] = f.format(f.value(c), f.fallback)
	}
	return values
}

// FindTokens returns the distinct placeholder-shaped tokens of text in order
// of first appearance.
func FindTokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if !seen[token] {
			tokens = append(tokens, token)
			seen[token] = true
		}
	}
	return tokens
}

func valueOrFallback(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func formatDate(value, fallback string) string {
	t, err := models.ParseDate(value)
	if err != nil {
		return fallback
	}
	return t.Format(displayDateLayout)
}

// formatCurrency renders an amount with two decimals in pt-BR notation
// (1.234,50). Unparseable input renders as the fallback.
func formatCurrency(value, fallback string) string {
	amount, err := models.ParseAmount(value)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fallback
	}
	return brazilianPrinter.Sprintf("%.2f", amount)
}
