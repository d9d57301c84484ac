package app

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"kbbridge/internal/mapper"
	"kbbridge/internal/model"
	"kbbridge/internal/repository"
)

// Collection status values for the outbound create flow.
const (
	CollectionStatusPending    = "PENDING"
	CollectionStatusSynced     = "SYNCED"
	CollectionStatusSyncFailed = "SYNC_FAILED"
)

// CollectionService handles locally initiated collection mutations: create
// pushes a remote dataset, delete attempts a best-effort remote delete
// before removing local rows.
type CollectionService struct {
	db       *gorm.DB
	gateways GatewayFactory
}

func NewCollectionService(db *gorm.DB, gateways GatewayFactory) *CollectionService {
	return &CollectionService{db: db, gateways: gateways}
}

type CreateCollectionInput struct {
	InstanceID     uint
	Name           string
	Description    string
	ChunkMethod    string
	ChunkSize      int
	Language       string
	EmbeddingModel string
}

// Create stores the collection locally, then attempts the remote create.
// The local row survives a remote failure with status SYNC_FAILED so the
// create can be retried by a later sync.
func (s *CollectionService) Create(ctx context.Context, input CreateCollectionInput) (*model.Collection, error) {
	name := strings.TrimSpace(input.Name)
	if input.InstanceID == 0 || name == "" {
		return nil, ErrInvalidInput
	}
	inst, err := repository.NewInstanceRepository(s.db).GetByID(input.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	if !inst.Enabled {
		return nil, ErrInstanceDisabled
	}

	repo := repository.NewCollectionRepository(s.db)
	col := &model.Collection{
		InstanceID:     input.InstanceID,
		Name:           name,
		Description:    input.Description,
		ChunkMethod:    input.ChunkMethod,
		ChunkSize:      input.ChunkSize,
		Language:       input.Language,
		EmbeddingModel: input.EmbeddingModel,
		Status:         CollectionStatusPending,
	}
	if err := repo.Create(col); err != nil {
		return nil, err
	}

	fields := map[string]any{"name": col.Name}
	if col.Description != "" {
		fields["description"] = col.Description
	}
	if col.ChunkMethod != "" {
		fields["chunk_method"] = col.ChunkMethod
	}
	if col.ChunkSize > 0 {
		fields["chunk_size"] = col.ChunkSize
	}
	if col.Language != "" {
		fields["language"] = col.Language
	}
	if col.EmbeddingModel != "" {
		fields["embedding_model"] = col.EmbeddingModel
	}

	payload, err := s.gateways(inst).CreateDataset(ctx, fields)
	if err != nil {
		log.Printf("remote create dataset for collection %d (%s) failed: %v", col.ID, col.Name, err)
		col.Status = CollectionStatusSyncFailed
		if saveErr := repo.Save(col); saveErr != nil {
			return nil, saveErr
		}
		return col, nil
	}

	outcome := mapper.ApplyCollection(payload, col)
	if outcome.HasSkips() {
		for _, skip := range outcome.Skipped {
			log.Printf("create collection %d: skipped field %s: %s", col.ID, skip.Field, skip.Reason)
		}
	}
	now := time.Now()
	col.Status = CollectionStatusSynced
	col.LastSyncTime = &now
	if err := repo.Save(col); err != nil {
		return nil, err
	}
	return col, nil
}

// Delete removes a collection and everything under it. The remote delete is
// best-effort and never blocks the local removal.
func (s *CollectionService) Delete(ctx context.Context, collectionID uint) error {
	repo := repository.NewCollectionRepository(s.db)
	col, err := repo.GetByID(collectionID)
	if err != nil {
		return err
	}
	if col == nil {
		return ErrCollectionNotFound
	}

	if col.RemoteID != nil {
		inst, err := repository.NewInstanceRepository(s.db).GetByID(col.InstanceID)
		if err != nil {
			return err
		}
		if inst != nil && inst.Enabled {
			if err := s.gateways(inst).DeleteDatasets(ctx, []string{*col.RemoteID}); err != nil {
				log.Printf("remote delete dataset for collection %d (%s) failed: %v", col.ID, col.Name, err)
			}
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docRepo := repository.NewDocumentRepository(tx)
		chunkRepo := repository.NewChunkRepository(tx)
		docs, err := docRepo.ListByCollectionID(col.ID)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if err := chunkRepo.DeleteByDocumentID(d.ID); err != nil {
				return err
			}
			if err := docRepo.Delete(d.ID); err != nil {
				return err
			}
		}
		return repository.NewCollectionRepository(tx).Delete(col.ID)
	})
}

// List returns the collections synced under one instance.
func (s *CollectionService) List(instanceID uint) ([]model.Collection, error) {
	if instanceID == 0 {
		return nil, ErrInvalidInput
	}
	return repository.NewCollectionRepository(s.db).ListByInstanceID(instanceID)
}
