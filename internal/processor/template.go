package processor

import (
	"strings"

	"DF-CONTRATOS/internal/models"

	"go.uber.org/zap"
)

// RenderResult is a fully substituted contract body. Unresolved lists the
// placeholder-shaped tokens left in the template text of Body; tokens carried in
// by substituted values are not reported.
type RenderResult struct {
	Body       string   `json:"body"`
	Unresolved []string `json:"unresolved,omitempty"`
}

type TemplateRenderer struct {
	logger *zap.Logger
}

func NewTemplateRenderer(logger *zap.Logger) *TemplateRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateRenderer{logger: logger}
}

// Render substitutes every known token of template with the contract's value.
// Matching is literal, case-sensitive and global; substituted values are not
// scanned again, so a value that happens to contain a token stays verbatim.
func (r *TemplateRenderer) Render(template string, contract *models.Contract) RenderResult {
	body, literals := substitute(template, Placeholders(contract))

	var unresolved []string
	seen := make(map[string]bool)
	for _, literal := range literals {
		for _, token := range FindTokens(literal) {
			if !seen[token] {
				unresolved = append(unresolved, token)
				seen[token] = true
			}
		}
	}
	if len(unresolved) > 0 {
		r.logger.Warn("template has unresolved placeholders", zap.Strings("placeholders", unresolved))
	}

	r.logger.Debug("template rendered",
		zap.Int("template_size", len(template)),
		zap.Int("body_size", len(body)),
	)
	return RenderResult{Body: body, Unresolved: unresolved}
}

// substitute replaces, left to right in a single pass, each known token of
// template with its value. It also returns the runs of template text copied
// between substitutions, which is where any leftover token must live.
func substitute(template string, values map[string]string) (string, []string) {
	var body strings.Builder
	var literals []string
	literalStart := 0

	for i := 0; i < len(template); {
		if template[i] != '$' {
			i++
			continue
		}
		end := strings.IndexByte(template[i+1:], '$')
		if end < 0 {
			break
		}
		token := template[i : i+end+2]
		value, known := values[token]
		if !known {
			i++
			continue
		}
		if i > literalStart {
			literals = append(literals, template[literalStart:i])
		}
		body.WriteString(template[literalStart:i])
		body.WriteString(value)
		i += len(token)
		literalStart = i
	}
	if literalStart < len(template) {
		literals = append(literals, template[literalStart:])
		body.WriteString(template[literalStart:])
	}
	return body.String(), literals
}
