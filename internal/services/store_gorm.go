package services

import (
	"context"
	"errors"
	"fmt"

	"DF-CONTRATOS/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContractStore persists contracts in the contracts table.
type GormContractStore struct {
	db *gorm.DB
}

func NewGormContractStore(db *gorm.DB) *GormContractStore {
	return &GormContractStore{db: db}
}

func (s *GormContractStore) Create(ctx context.Context, contract *models.Contract) error {
	contract.ID = uuid.New().String()
	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

func (s *GormContractStore) Update(ctx context.Context, contract *models.Contract) error {
	existing, err := s.Get(ctx, contract.ID)
	if err != nil {
		return err
	}
	contract.CreatedAt = existing.CreatedAt

	if err := s.db.WithContext(ctx).Save(contract).Error; err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

func (s *GormContractStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Contract{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (s *GormContractStore) Get(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contract: %w", err)
	}
	return &contract, nil
}

func (s *GormContractStore) List(ctx context.Context) ([]*models.Contract, error) {
	var contracts []*models.Contract
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}
	return contracts, nil
}

// GormDocumentStore persists document metadata in the documents table.
type GormDocumentStore struct {
	db *gorm.DB
}

func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{db: db}
}

func (s *GormDocumentStore) Save(ctx context.Context, document *models.Document) error {
	if err := s.db.WithContext(ctx).Save(document).Error; err != nil {
		return fmt.Errorf("failed to save document metadata: %w", err)
	}
	return nil
}

func (s *GormDocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	var document models.Document
	err := s.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &document, nil
}

func (s *GormDocumentStore) UpdateStatus(ctx context.Context, id, status string) error {
	result := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update document status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
