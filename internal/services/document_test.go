package services

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"DF-CONTRATOS/internal/models"
	"DF-CONTRATOS/internal/processor"
	"DF-CONTRATOS/internal/storage"
	"DF-CONTRATOS/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	text string
	err  error
}

func (s stubSource) Load(ctx context.Context) (string, error) { return s.text, s.err }
func (s stubSource) Location() string                         { return "stub" }

type stubExporter struct {
	calls int
	err   error
}

func (e *stubExporter) Export(ctx context.Context, doc *processor.RenderedDocument, title string) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []byte("%PDF-stub " + title), nil
}

type failingDocs struct{ MemoryDocumentStore }

func (*failingDocs) Save(ctx context.Context, document *models.Document) error {
	return errors.New("database is down")
}

func newTestDocumentService(t *testing.T, source templates.Source, exporter Exporter, docs DocumentRepository) (*DocumentService, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewDocumentService(source, processor.DefaultLayout(), exporter, store, docs, nil)
	svc.now = func() time.Time { return time.UnixMilli(1706745600000) }
	return svc, store
}

func TestDocumentServicePreview(t *testing.T) {
	svc, _ := newTestDocumentService(t, stubSource{text: "Aluno: $nomeAluno$ $desconhecido$"}, &stubExporter{}, NewMemoryDocumentStore())

	preview, err := svc.Preview(context.Background(), &models.Contract{NomeAluno: "Ana Silva"})
	require.NoError(t, err)
	assert.Equal(t, "stub", preview.Template)
	assert.Equal(t, []string{"$desconhecido$"}, preview.Warnings)
	require.Equal(t, 1, preview.Document.PageCount())
	assert.Equal(t, "Aluno: Ana Silva $desconhecido$", preview.Document.Pages[0].Lines[0].Text)
}

func TestDocumentServicePreviewWarningsNeverNil(t *testing.T) {
	svc, _ := newTestDocumentService(t, templates.EmbeddedSource{}, &stubExporter{}, NewMemoryDocumentStore())

	preview, err := svc.Preview(context.Background(), validContract())
	require.NoError(t, err)
	assert.NotNil(t, preview.Warnings)
	assert.Empty(t, preview.Warnings)
}

func TestDocumentServiceGenerate(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocumentStore()
	svc, store := newTestDocumentService(t, templates.EmbeddedSource{}, &stubExporter{}, docs)

	contract := validContract()
	contract.ID = "contract-1"
	result, err := svc.Generate(ctx, contract)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "contrato_Ana_Silva_1706745600000.pdf", doc.Filename)
	assert.Equal(t, "contract-1", doc.ContractID)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, models.DocumentStatusCompleted, doc.Status)
	assert.Equal(t, "[]", doc.Warnings)
	assert.Positive(t, doc.PageCount)
	assert.Equal(t, storage.GenerateDocumentObjectName(doc.ID, doc.Filename), doc.StoragePath)

	_, err = docs.Get(ctx, doc.ID)
	require.NoError(t, err)

	reader, meta, err := svc.GetDocumentReader(ctx, doc.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub "+doc.Filename, string(data))
	assert.Equal(t, models.DocumentStatusDownloaded, meta.Status)

	_, err = store.ReadFile(ctx, doc.StoragePath)
	assert.NoError(t, err)
}

func TestDocumentServiceMissingTemplate(t *testing.T) {
	exporter := &stubExporter{}
	source := templates.FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}
	svc, _ := newTestDocumentService(t, source, exporter, NewMemoryDocumentStore())

	_, err := svc.Generate(context.Background(), validContract())
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
	assert.Zero(t, exporter.calls)
}

func TestDocumentServiceExportFailure(t *testing.T) {
	exporter := &stubExporter{err: errors.New("gotenberg unavailable")}
	svc, store := newTestDocumentService(t, templates.EmbeddedSource{}, exporter, NewMemoryDocumentStore())

	_, err := svc.Generate(context.Background(), validContract())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate document")
	assert.Contains(t, err.Error(), "gotenberg unavailable")
	assertEmptyDir(t, store.BaseDir())
}

func TestDocumentServiceRemovesUploadWhenMetadataFails(t *testing.T) {
	svc, store := newTestDocumentService(t, templates.EmbeddedSource{}, &stubExporter{}, &failingDocs{})

	_, err := svc.Generate(context.Background(), validContract())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save document metadata")
	assertEmptyDir(t, store.BaseDir())
}

func TestDocumentServiceInvalidLayout(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	layout := processor.DefaultLayout()
	layout.LineHeight = 0

	svc := NewDocumentService(templates.EmbeddedSource{}, layout, &stubExporter{}, store, NewMemoryDocumentStore(), nil)
	_, err = svc.Generate(context.Background(), validContract())
	assert.ErrorIs(t, err, processor.ErrInvalidLayout)
}

func TestDocumentServiceUnknownDocument(t *testing.T) {
	svc, _ := newTestDocumentService(t, templates.EmbeddedSource{}, &stubExporter{}, NewMemoryDocumentStore())

	_, _, err := svc.GetDocumentReader(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentServiceStoredFileGone(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestDocumentService(t, templates.EmbeddedSource{}, &stubExporter{}, NewMemoryDocumentStore())

	result, err := svc.Generate(ctx, validContract())
	require.NoError(t, err)
	require.NoError(t, store.DeleteFile(ctx, result.Document.StoragePath))

	_, _, err = svc.GetDocumentReader(ctx, result.Document.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// assertEmptyDir fails when any regular file remains below dir.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}
