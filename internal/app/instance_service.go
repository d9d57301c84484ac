package app

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"kbbridge/internal/model"
	"kbbridge/internal/repository"
)

// InstanceService manages remote connection profiles.
type InstanceService struct {
	db       *gorm.DB
	gateways GatewayFactory
}

func NewInstanceService(db *gorm.DB, gateways GatewayFactory) *InstanceService {
	return &InstanceService{db: db, gateways: gateways}
}

type CreateInstanceInput struct {
	Name           string
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

func (s *InstanceService) Create(input CreateInstanceInput) (*model.Instance, error) {
	name := strings.TrimSpace(input.Name)
	baseURL := strings.TrimSpace(input.BaseURL)
	if name == "" || baseURL == "" || input.APIKey == "" {
		return nil, ErrInvalidInput
	}
	inst := &model.Instance{
		Name:           name,
		BaseURL:        baseURL,
		APIKey:         input.APIKey,
		TimeoutSeconds: input.TimeoutSeconds,
		Enabled:        true,
	}
	if err := repository.NewInstanceRepository(s.db).Create(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *InstanceService) List() ([]model.Instance, error) {
	return repository.NewInstanceRepository(s.db).List()
}

func (s *InstanceService) Get(id uint) (*model.Instance, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	inst, err := repository.NewInstanceRepository(s.db).GetByID(id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	return inst, nil
}

// CheckHealth probes the remote side with a cheap listing call and stores
// the result on the instance.
func (s *InstanceService) CheckHealth(ctx context.Context, id uint) (bool, error) {
	repo := repository.NewInstanceRepository(s.db)
	inst, err := repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if inst == nil {
		return false, ErrInstanceNotFound
	}

	_, _, probeErr := s.gateways(inst).ListDatasets(ctx, 1, 1)
	healthy := probeErr == nil
	if err := repo.SetHealthy(inst.ID, healthy); err != nil {
		return healthy, err
	}
	return healthy, nil
}
