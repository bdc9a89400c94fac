package services

import (
	"context"
	"time"

	"DF-CONTRATOS/internal/models"

	"go.uber.org/zap"
)

type ContractService struct {
	repo      ContractRepository
	validator *ContractValidator
	logger    *zap.Logger
	now       func() time.Time
}

func NewContractService(repo ContractRepository, validator *ContractValidator, logger *zap.Logger) *ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// New returns a fresh, unsaved contract with today's defaults.
func (s *ContractService) New() *models.Contract {
	return models.NewContract(s.now())
}

func (s *ContractService) Validate(contract *models.Contract) error {
	return s.validator.Validate(contract)
}

func (s *ContractService) Create(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if err := s.validator.Validate(contract); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract created", zap.String("contract_id", contract.ID))
	return contract, nil
}

func (s *ContractService) Update(ctx context.Context, id string, contract *models.Contract) (*models.Contract, error) {
	if err := s.validator.Validate(contract); err != nil {
		return nil, err
	}
	contract.ID = id
	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract updated", zap.String("contract_id", id))
	return contract, nil
}

func (s *ContractService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contract deleted", zap.String("contract_id", id))
	return nil
}

func (s *ContractService) Get(ctx context.Context, id string) (*models.Contract, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContractService) List(ctx context.Context) ([]*models.Contract, error) {
	return s.repo.List(ctx)
}
