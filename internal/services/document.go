package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"DF-CONTRATOS/internal/models"
	"DF-CONTRATOS/internal/processor"
	"DF-CONTRATOS/internal/storage"
	"DF-CONTRATOS/internal/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreviewResult is a contract laid out on pages but not yet exported.
type PreviewResult struct {
	Document *processor.RenderedDocument `json:"document"`
	Warnings []string                    `json:"warnings"`
	Template string                      `json:"template"`
}

type GenerateResult struct {
	Document *models.Document `json:"document"`
	Warnings []string         `json:"warnings"`
}

type DocumentService struct {
	source   templates.Source
	renderer *processor.TemplateRenderer
	layout   processor.DocumentLayout
	exporter Exporter
	store    storage.ObjectStore
	docs     DocumentRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewDocumentService(
	source templates.Source,
	layout processor.DocumentLayout,
	exporter Exporter,
	store storage.ObjectStore,
	docs DocumentRepository,
	logger *zap.Logger,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		source:   source,
		renderer: processor.NewTemplateRenderer(logger),
		layout:   layout,
		exporter: exporter,
		store:    store,
		docs:     docs,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *DocumentService) Preview(ctx context.Context, contract *models.Contract) (*PreviewResult, error) {
	tmpl, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	rendered := s.renderer.Render(tmpl, contract)
	doc, err := processor.Paginate(rendered.Body, s.layout)
	if err != nil {
		return nil, fmt.Errorf("failed to paginate contract: %w", err)
	}

	warnings := rendered.Unresolved
	if warnings == nil {
		warnings = []string{}
	}
	return &PreviewResult{
		Document: doc,
		Warnings: warnings,
		Template: s.source.Location(),
	}, nil
}

// Generate renders, exports and stores a contract PDF. Nothing is kept when
// any step fails: an uploaded object whose metadata cannot be saved is removed.
func (s *DocumentService) Generate(ctx context.Context, contract *models.Contract) (*GenerateResult, error) {
	preview, err := s.Preview(ctx, contract)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	document, err := s.exportAndStore(ctx, contract, preview)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	s.logger.Info("contract document generated",
		zap.String("document_id", document.ID),
		zap.String("contract_id", document.ContractID),
		zap.Int("pages", document.PageCount),
		zap.Int64("size", document.FileSize),
		zap.Int("warnings", len(preview.Warnings)),
	)
	return &GenerateResult{Document: document, Warnings: preview.Warnings}, nil
}

func (s *DocumentService) exportAndStore(ctx context.Context, contract *models.Contract, preview *PreviewResult) (*models.Document, error) {
	documentID := uuid.New().String()
	filename := processor.SuggestFilename(contract.NomeAluno, strconv.FormatInt(s.now().UnixMilli(), 10))

	data, err := s.exporter.Export(ctx, preview.Document, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to export PDF: %w", err)
	}

	objectName := storage.GenerateDocumentObjectName(documentID, filename)
	result, err := s.store.UploadFile(ctx, bytes.NewReader(data), objectName, pdfMimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	warningsJSON, err := json.Marshal(preview.Warnings)
	if err != nil {
		s.removeObject(ctx, objectName)
		return nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	document := &models.Document{
		ID:          documentID,
		ContractID:  contract.ID,
		Filename:    filename,
		StoragePath: objectName,
		FileSize:    result.Size,
		MimeType:    pdfMimeType,
		PageCount:   preview.Document.PageCount(),
		Warnings:    string(warningsJSON),
		Status:      models.DocumentStatusCompleted,
	}
	if err := s.docs.Save(ctx, document); err != nil {
		s.removeObject(ctx, objectName)
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}
	return document, nil
}

func (s *DocumentService) removeObject(ctx context.Context, objectName string) {
	if err := s.store.DeleteFile(ctx, objectName); err != nil {
		s.logger.Warn("failed to remove orphaned document", zap.String("object", objectName), zap.Error(err))
	}
}

func (s *DocumentService) GetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	return s.docs.Get(ctx, documentID)
}

// GetDocumentReader opens a stored PDF and marks the document downloaded.
// The caller closes the reader.
func (s *DocumentService) GetDocumentReader(ctx context.Context, documentID string) (io.ReadCloser, *models.Document, error) {
	document, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.ReadFile(ctx, document.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, fmt.Errorf("%w: file for %s is gone", ErrDocumentNotFound, documentID)
		}
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	if document.Status != models.DocumentStatusDownloaded {
		if err := s.docs.UpdateStatus(ctx, documentID, models.DocumentStatusDownloaded); err != nil {
			s.logger.Warn("failed to update document status", zap.String("document_id", documentID), zap.Error(err))
		} else {
			document.Status = models.DocumentStatusDownloaded
		}
	}
	return reader, document, nil
}
