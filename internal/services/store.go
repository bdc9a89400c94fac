package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"DF-CONTRATOS/internal/models"

	"github.com/google/uuid"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// ContractRepository is the contract collection: the editing session's saved
// contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Contract, error)
	List(ctx context.Context) ([]*models.Contract, error)
}

// DocumentRepository keeps the metadata of generated documents.
type DocumentRepository interface {
	Save(ctx context.Context, document *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// MemoryContractStore holds contracts for the lifetime of the process.
type MemoryContractStore struct {
	mu        sync.RWMutex
	contracts map[string]*models.Contract
	order     []string // IDs in creation order
	now       func() time.Time
}

func NewMemoryContractStore() *MemoryContractStore {
	return &MemoryContractStore{
		contracts: make(map[string]*models.Contract),
		now:       time.Now,
	}
}

func (s *MemoryContractStore) Create(ctx context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	contract.ID = uuid.New().String()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	stored := *contract
	s.contracts[contract.ID] = &stored
	s.order = append(s.order, contract.ID)
	return nil
}

func (s *MemoryContractStore) Update(ctx context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contracts[contract.ID]
	if !ok {
		return ErrContractNotFound
	}
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = s.now()

	stored := *contract
	s.contracts[contract.ID] = &stored
	return nil
}

func (s *MemoryContractStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return ErrContractNotFound
	}
	delete(s.contracts, id)
	s.order = slices.DeleteFunc(s.order, func(existing string) bool { return existing == id })
	return nil
}

// Get returns a copy; callers edit it and hand it back through Update.
func (s *MemoryContractStore) Get(ctx context.Context, id string) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrContractNotFound
	}
	copied := *c
	return &copied, nil
}

// List returns copies in creation order.
func (s *MemoryContractStore) List(ctx context.Context) ([]*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Contract, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.contracts[id]
		result = append(result, &copied)
	}
	return result, nil
}

type MemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*models.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{documents: make(map[string]*models.Document)}
}

func (s *MemoryDocumentStore) Save(ctx context.Context, document *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	document.UpdatedAt = now

	stored := *document
	s.documents[document.ID] = &stored
	return nil
}

func (s *MemoryDocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *MemoryDocumentStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok {
		return ErrDocumentNotFound
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}
