package processor

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

var ErrInvalidLayout = errors.New("invalid document layout")

const (
	millimetersPerPoint = 25.4 / 72
	// courierAdvance is the advance width of every Courier glyph, in ems.
	courierAdvance = 0.6
)

// DocumentLayout describes the printable page. Lengths are in millimeters,
// FontSize in points.
type DocumentLayout struct {
	PageWidth    float64 `json:"page_width"`
	PageHeight   float64 `json:"page_height"`
	Margin       float64 `json:"margin"`        // left, right and top
	BottomMargin float64 `json:"bottom_margin"` // kept free for the footer
	LineHeight   float64 `json:"line_height"`
	FontSize     float64 `json:"font_size"`
}

// DefaultLayout is an A4 portrait page set in 9 pt Courier.
func DefaultLayout() DocumentLayout {
	return DocumentLayout{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		BottomMargin: 20,
		LineHeight:   7,
		FontSize:     9,
	}
}

func (l DocumentLayout) Validate() error {
	switch {
	case l.PageWidth <= 0 || l.PageHeight <= 0:
		return fmt.Errorf("%w: page size %.2fx%.2f", ErrInvalidLayout, l.PageWidth, l.PageHeight)
	case l.Margin < 0 || l.BottomMargin < 0:
		return fmt.Errorf("%w: negative margin", ErrInvalidLayout)
	case l.LineHeight <= 0 || l.FontSize <= 0:
		return fmt.Errorf("%w: line height and font size must be positive", ErrInvalidLayout)
	case l.TextWidth() < l.CharWidth():
		return fmt.Errorf("%w: margins leave no room for text", ErrInvalidLayout)
	case l.Margin+l.LineHeight > l.ContentBottom():
		return fmt.Errorf("%w: a single line does not fit between the margins", ErrInvalidLayout)
	}
	return nil
}

// TextWidth is the horizontal space available to a line.
func (l DocumentLayout) TextWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// ContentBottom is the lowest position a line may reach.
func (l DocumentLayout) ContentBottom() float64 {
	return l.PageHeight - l.BottomMargin
}

// CharWidth is the width of one monospaced glyph at the layout's font size.
func (l DocumentLayout) CharWidth() float64 {
	return l.FontSize * courierAdvance * millimetersPerPoint
}

// MaxLineChars is how many glyphs fit in TextWidth.
func (l DocumentLayout) MaxLineChars() int {
	// Small epsilon so exact fits are not lost to float rounding.
	return int(math.Floor(l.TextWidth()/l.CharWidth() + 1e-9))
}

// MeasureText estimates the printed width of text.
func (l DocumentLayout) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * l.CharWidth()
}

// Wrap splits text into lines of at most maxChars runes. Existing line breaks
// are kept, words are wrapped at spaces and only words longer than a full
// line are broken mid-word. Leading indentation and runs of spaces inside a
// line are kept; spaces at a wrap point and at the end of a line are dropped.
func Wrap(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 1
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxChars)...)
	}
	return lines
}

// tabSpaces is how a tab is printed in the monospace layout.
const tabSpaces = "    "

func wrapParagraph(paragraph string, maxChars int) []string {
	paragraph = strings.TrimRight(strings.ReplaceAll(paragraph, "\t", tabSpaces), " ")
	trimmed := strings.TrimLeft(paragraph, " ")
	if trimmed == "" {
		return []string{""}
	}

	var lines []string
	var current []rune
	hasWord := false
	gap := len(paragraph) - len(trimmed) // indentation of the first line
	for _, field := range strings.Split(trimmed, " ") {
		if field == "" {
			gap++
			continue
		}
		w := []rune(field)

		if hasWord && len(current)+gap+len(w) <= maxChars {
			current = append(current, []rune(strings.Repeat(" ", gap))...)
			current = append(current, w...)
			gap = 1
			continue
		}
		if hasWord {
			lines = append(lines, string(current))
			gap = 0
		}
		if gap >= maxChars || (gap+len(w) > maxChars && len(w) <= maxChars) {
			gap = 0
		}
		current = []rune(strings.Repeat(" ", gap))
		for len(current)+len(w) > maxChars {
			n := maxChars - len(current)
			lines = append(lines, string(current)+string(w[:n]))
			current = nil
			w = w[n:]
		}
		current = append(current, w...)
		hasWord = true
		gap = 1
	}
	return append(lines, string(current))
}
