// Package templates loads contract templates: plain text with $field$
// placeholders, kept embedded, on disk, behind a URL or in a GCS bucket.
package templates

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"DF-CONTRATOS/internal/storage"
)

// ErrTemplateNotFound means the template resource could not be reached.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed assets/modelo_contrato.txt
var defaultTemplate string

// DefaultLocation names the embedded template in logs and errors.
const DefaultLocation = "embedded:modelo_contrato.txt"

// Source fetches a template's text.
type Source interface {
	Load(ctx context.Context) (string, error)
	Location() string
}

// BucketReader is the part of the GCS client a gs:// source needs.
type BucketReader interface {
	ReadObject(ctx context.Context, bucket, objectName string) (io.ReadCloser, error)
}

// Open picks a Source for location: "" is the embedded default, http(s)://
// URLs are fetched, gs://bucket/object is read through gcs and anything else
// is a file path.
func Open(location string, gcs BucketReader, client *http.Client) (Source, error) {
	switch {
	case location == "":
		return EmbeddedSource{}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{URL: location, Client: client}, nil
	case strings.HasPrefix(location, "gs://"):
		if gcs == nil {
			return nil, fmt.Errorf("template %s needs a GCS client", location)
		}
		bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("invalid GCS template location %q", location)
		}
		return &GCSSource{Bucket: bucket, Object: object, Reader: gcs}, nil
	default:
		return FileSource{Path: location}, nil
	}
}

type EmbeddedSource struct{}

func (EmbeddedSource) Load(ctx context.Context) (string, error) {
	return defaultTemplate, nil
}

func (EmbeddedSource) Location() string {
	return DefaultLocation
}

type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w at %s", ErrTemplateNotFound, s.Path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.Path, err)
	}
	return string(data), nil
}

func (s FileSource) Location() string {
	return s.Path
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build template request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w at %s: %v", ErrTemplateNotFound, s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w at %s: status %d", ErrTemplateNotFound, s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.URL, err)
	}
	return string(data), nil
}

func (s *HTTPSource) Location() string {
	return s.URL
}

type GCSSource struct {
	Bucket string
	Object string
	Reader BucketReader
}

func (s *GCSSource) Load(ctx context.Context) (string, error) {
	reader, err := s.Reader.ReadObject(ctx, s.Bucket, s.Object)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", fmt.Errorf("%w at %s", ErrTemplateNotFound, s.Location())
	}
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.Location(), err)
	}
	return string(data), nil
}

func (s *GCSSource) Location() string {
	return "gs://" + s.Bucket + "/" + s.Object
}
