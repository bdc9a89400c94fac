package processor

import (
	"strings"
)

// Line is one printed line and the vertical position it is written at.
type Line struct {
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

type Page struct {
	Number int    `json:"number"`
	Lines  []Line `json:"lines"`
}

// RenderedDocument is the paginated contract body, ready for an exporter.
type RenderedDocument struct {
	Layout DocumentLayout `json:"layout"`
	Pages  []Page         `json:"pages"`
}

func (d *RenderedDocument) PageCount() int {
	return len(d.Pages)
}

// Text returns the document as plain text, pages separated by form feeds.
func (d *RenderedDocument) Text() string {
	var b strings.Builder
	for i, page := range d.Pages {
		if i > 0 {
			b.WriteString("\f")
		}
		for j, line := range page.Lines {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(line.Text)
		}
	}
	return b.String()
}

// Paginate wraps text to the layout's line width and distributes the lines
// over pages. A line starts a new page when it would reach past the bottom
// margin.
func Paginate(text string, layout DocumentLayout) (*RenderedDocument, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	doc := &RenderedDocument{Layout: layout}
	page := Page{Number: 1}
	y := layout.Margin

	for _, text := range Wrap(text, layout.MaxLineChars()) {
		if y+layout.LineHeight > layout.ContentBottom() {
			doc.Pages = append(doc.Pages, page)
			page = Page{Number: page.Number + 1}
			y = layout.Margin
		}
		page.Lines = append(page.Lines, Line{Text: text, Y: y})
		y += layout.LineHeight
	}
	doc.Pages = append(doc.Pages, page)

	return doc, nil
}
