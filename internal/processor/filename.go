package processor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	filenameUnsafe    = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SuggestFilename builds the download name of a contract PDF, e.g.
// "contrato_Ana_Silva_1706745600000.pdf". Accents are folded so "Sílvia"
// keeps its letters; anything else outside [A-Za-z0-9_] is dropped.
func SuggestFilename(studentName, token string) string {
	name := foldAccents(strings.TrimSpace(studentName))
	name = whitespacePattern.ReplaceAllString(name, "_")
	name = filenameUnsafe.ReplaceAllString(name, "")
	if name == "" {
		name = "novo"
	}
	return fmt.Sprintf("contrato_%s_%s.pdf", name, token)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
