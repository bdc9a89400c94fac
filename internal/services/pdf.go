package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DF-CONTRATOS/internal/processor"

	"github.com/go-pdf/fpdf"
	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
	"go.uber.org/zap"
)

const pdfMimeType = "application/pdf"

// Exporter turns a paginated document into PDF bytes.
type Exporter interface {
	Export(ctx context.Context, doc *processor.RenderedDocument, title string) ([]byte, error)
}

// FPDFExporter writes the PDF locally, one page per rendered page, each line
// at the position the paginator chose.
type FPDFExporter struct {
	fontFamily string
	now        func() time.Time
}

func NewFPDFExporter() *FPDFExporter {
	return &FPDFExporter{fontFamily: "Courier", now: time.Now}
}

func (e *FPDFExporter) Export(ctx context.Context, doc *processor.RenderedDocument, title string) ([]byte, error) {
	layout := doc.Layout
	orientation := "P"
	if layout.PageWidth > layout.PageHeight {
		orientation = "L"
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, layout.BottomMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("DF-CONTRATOS", true)
	pdf.SetCreationDate(e.now())

	// Core fonts are cp1252; the translator keeps accented Portuguese intact.
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		pdf.SetFont(e.fontFamily, "", layout.FontSize)
		for _, line := range page.Lines {
			if line.Text == "" {
				continue
			}
			pdf.Text(layout.Margin, line.Y, translate(line.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GotenbergExporter sends the document as plain text to Gotenberg's
// LibreOffice route. Pages are separated by form feeds.
type GotenbergExporter struct {
	client     *gotenberg.Client
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

func NewGotenbergExporter(gotenbergURL, timeoutStr string, maxRetries int, logger *zap.Logger) (*GotenbergExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		logger.Warn("invalid Gotenberg timeout, using default",
			zap.String("timeout", timeoutStr),
			zap.Duration("default", timeout),
			zap.Error(err),
		)
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	client, err := gotenberg.NewClient(gotenbergURL, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &GotenbergExporter{
		client:     client,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

func (e *GotenbergExporter) Export(ctx context.Context, doc *processor.RenderedDocument, title string) ([]byte, error) {
	text := doc.Text()
	landscape := doc.Layout.PageWidth > doc.Layout.PageHeight

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		data, err := e.convert(ctx, text, title, landscape)
		if err == nil {
			return data, nil
		}
		lastErr = err
		e.logger.Warn("PDF conversion attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", e.maxRetries),
			zap.Error(err),
		)

		if attempt < e.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	return nil, fmt.Errorf("failed to convert document after %d attempts: %w", e.maxRetries, lastErr)
}

func (e *GotenbergExporter) convert(ctx context.Context, text, title string, landscape bool) ([]byte, error) {
	convertCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// The reader is consumed by each request, so every attempt builds its own.
	doc, err := document.FromReader(textFilename(title), strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to create document from reader: %w", err)
	}

	req := gotenberg.NewLibreOfficeRequest(doc)
	if landscape {
		req.Landscape()
	}

	resp, err := e.client.Send(convertCtx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gotenberg returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

func textFilename(title string) string {
	name := strings.TrimSuffix(title, ".pdf")
	if name == "" {
		name = "contrato"
	}
	return name + ".txt"
}
