package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

type UploadResult struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
}

// ObjectStore keeps generated documents. Implementations return
// ErrObjectNotFound (possibly wrapped) for missing objects.
type ObjectStore interface {
	UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error)
	ReadFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectName string) error
}

// GenerateDocumentObjectName places a document under its own prefix so two
// contracts with the same student name never collide.
func GenerateDocumentObjectName(documentID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", documentID, filename)
}
