package processor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	require.NoError(t, layout.Validate())
	assert.Equal(t, 180.0, layout.TextWidth())
	assert.Equal(t, 277.0, layout.ContentBottom())
	assert.Equal(t, 94, layout.MaxLineChars())
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "uma linha", 10, []string{"uma linha"}},
		{"wraps at spaces", "o contratante pagara", 10, []string{"o", "contratante"[:10], "e pagara"}},
		{"keeps line breaks", "a\n\nb", 10, []string{"a", "", "b"}},
		{"keeps runs of spaces", "a    b", 10, []string{"a    b"}},
		{"keeps indentation", "    CLÁUSULA 1   indentada", 94, []string{"    CLÁUSULA 1   indentada"}},
		{"drops spaces at wrap point", "aaa     bbb", 5, []string{"aaa", "bbb"}},
		{"drops trailing spaces", "fim   ", 10, []string{"fim"}},
		{"blank line of spaces", "   ", 10, []string{""}},
		{"indent moves with long word", "  palavra", 5, []string{"  pal", "avra"}},
		{"indent dropped when word fits alone", "    texto", 6, []string{"texto"}},
		{"expands tabs", "\tx", 10, []string{"    x"}},
		{"splits long words", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"counts runes", "ação ação", 4, []string{"ação", "ação"}},
		{"windows newlines", "a\r\nb", 10, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Wrap(tt.text, tt.maxChars)); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapLinesFitWidth(t *testing.T) {
	text := strings.Repeat("Cláusula contratual com palavras de tamanhos variados ", 40)
	for _, line := range Wrap(text, 30) {
		assert.LessOrEqual(t, len([]rune(line)), 30, line)
	}
}

func TestWrapIndentedLinesFitWidth(t *testing.T) {
	text := "        " + strings.Repeat("item   com   espaços  ", 30)
	for _, width := range []int{1, 3, 8, 9, 30} {
		for _, line := range Wrap(text, width) {
			assert.LessOrEqual(t, len([]rune(line)), width, line)
			assert.NotEmpty(t, strings.TrimSpace(line), line)
		}
	}
}

func TestPaginateSinglePage(t *testing.T) {
	doc, err := Paginate("primeira\nsegunda", DefaultLayout())
	require.NoError(t, err)

	want := []Page{{Number: 1, Lines: []Line{{Text: "primeira", Y: 15}, {Text: "segunda", Y: 22}}}}
	if diff := cmp.Diff(want, doc.Pages); diff != "" {
		t.Errorf("Paginate() mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginateBoundary(t *testing.T) {
	layout := DefaultLayout()
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = fmt.Sprintf("linha %d", i+1)
	}

	doc, err := Paginate(strings.Join(lines, "\n"), layout)
	require.NoError(t, err)

	// y runs 15, 22, ..., 267: 37 lines per page.
	require.Equal(t, 3, doc.PageCount())
	assert.Len(t, doc.Pages[0].Lines, 37)
	assert.Len(t, doc.Pages[1].Lines, 37)
	assert.Len(t, doc.Pages[2].Lines, 26)

	total := 0
	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.Equal(t, layout.Margin, page.Lines[0].Y)
		for _, line := range page.Lines {
			assert.LessOrEqual(t, line.Y+layout.LineHeight, layout.ContentBottom())
			assert.LessOrEqual(t, line.Y, layout.PageHeight-layout.BottomMargin)
		}
		total += len(page.Lines)
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, "linha 38", doc.Pages[1].Lines[0].Text)
}

func TestPaginateWrapsBeforeCounting(t *testing.T) {
	layout := DefaultLayout()
	layout.PageHeight = 15 + 7*3 + layout.BottomMargin // room for exactly three lines

	doc, err := Paginate(strings.Repeat("palavra ", 60), layout)
	require.NoError(t, err)

	wrapped := Wrap(strings.Repeat("palavra ", 60), layout.MaxLineChars())
	require.Len(t, wrapped, 6)
	assert.Equal(t, 2, doc.PageCount())
}

func TestPaginateIsDeterministic(t *testing.T) {
	text := strings.Repeat("O CONTRATANTE se obriga ao pagamento das mensalidades.\n", 80)
	first, err := Paginate(text, DefaultLayout())
	require.NoError(t, err)
	second, err := Paginate(text, DefaultLayout())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Paginate() is not deterministic:\n%s", diff)
	}
}

func TestPaginateInvalidLayout(t *testing.T) {
	tooShort := DefaultLayout()
	tooShort.PageHeight = 30

	noWidth := DefaultLayout()
	noWidth.Margin = 105

	for _, layout := range []DocumentLayout{tooShort, noWidth, {}} {
		_, err := Paginate("texto", layout)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	}
}

func TestRenderedDocumentText(t *testing.T) {
	doc := &RenderedDocument{Pages: []Page{
		{Number: 1, Lines: []Line{{Text: "a"}, {Text: "b"}}},
		{Number: 2, Lines: []Line{{Text: "c"}}},
	}}
	assert.Equal(t, "a\nb\fc", doc.Text())
}

func TestSuggestFilename(t *testing.T) {
	assert.Equal(t, "contrato_Ana_Silva_1700000000000.pdf", SuggestFilename("Ana Silva", "1700000000000"))
	assert.Equal(t, "contrato_Ana_Silvia_Souza_1.pdf", SuggestFilename("  Ana Sílvia   Souza ", "1"))
	assert.Equal(t, "contrato_Joao_dAvila_1.pdf", SuggestFilename("João d'Ávila", "1"))
	assert.Equal(t, "contrato_novo_1.pdf", SuggestFilename("", "1"))
	assert.Equal(t, "contrato_novo_1.pdf", SuggestFilename("?!", "1"))
}
