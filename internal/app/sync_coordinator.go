package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"kbbridge/internal/mapper"
	"kbbridge/internal/model"
	"kbbridge/internal/remote"
	"kbbridge/internal/repository"
)

// SyncCoordinator implements find-or-create-by-remote-identity upserts.
// Every sync runs under a per-key lock and inside one transaction: lookup by
// (scope, remote id), fall back to the natural key, construct if absent,
// apply the mapper, stamp the sync time, commit. The unique indexes on
// (scope, remote_id) close the remaining insert race.
type SyncCoordinator struct {
	db    *gorm.DB
	locks *keyedMutex
}

func NewSyncCoordinator(db *gorm.DB) *SyncCoordinator {
	return &SyncCoordinator{db: db, locks: newKeyedMutex()}
}

func (s *SyncCoordinator) logSkips(kind string, remoteID string, o mapper.Outcome) {
	if !o.HasSkips() {
		return
	}
	for _, skip := range o.Skipped {
		log.Printf("sync %s %s: skipped field %s: %s", kind, remoteID, skip.Field, skip.Reason)
	}
}

// SyncCollection upserts one dataset payload under an instance.
func (s *SyncCoordinator) SyncCollection(ctx context.Context, instanceID uint, payload remote.Payload) (*model.Collection, error) {
	remoteID := payload.ID()
	if remoteID == "" {
		return nil, fmt.Errorf("%w: dataset payload", ErrMissingRemoteID)
	}
	unlock := s.locks.lock(fmt.Sprintf("collection:%d:%s", instanceID, remoteID))
	defer unlock()

	var result *model.Collection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewCollectionRepository(tx)
		c, err := repo.GetByRemoteID(instanceID, remoteID)
		if err != nil {
			return err
		}
		if c == nil {
			if name, ok := payload.String("name"); ok && name != "" {
				c, err = repo.GetByName(instanceID, name)
				if err != nil {
					return err
				}
			}
		}
		if c == nil {
			c = &model.Collection{InstanceID: instanceID}
		}

		outcome := mapper.ApplyCollection(payload, c)
		s.logSkips("collection", remoteID, outcome)

		now := time.Now()
		c.LastSyncTime = &now
		if err := repo.Save(c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncDocument upserts one document payload under a collection. Documents
// ingested from a remote listing that carry no recognizable status start as
// UPLOADED: they exist remotely but were never parsed.
func (s *SyncCoordinator) SyncDocument(ctx context.Context, collectionID uint, payload remote.Payload) (*model.Document, error) {
	remoteID := payload.ID()
	if remoteID == "" {
		return nil, fmt.Errorf("%w: document payload", ErrMissingRemoteID)
	}
	unlock := s.locks.lock(fmt.Sprintf("document:%d:%s", collectionID, remoteID))
	defer unlock()

	var result *model.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewDocumentRepository(tx)
		d, err := repo.GetByRemoteID(collectionID, remoteID)
		if err != nil {
			return err
		}
		if d == nil {
			if name, ok := payload.String("name"); ok && name != "" {
				d, err = repo.GetByName(collectionID, name)
				if err != nil {
					return err
				}
			}
		}
		if d == nil {
			d = &model.Document{CollectionID: collectionID}
		}

		outcome := mapper.ApplyDocument(payload, d)
		s.logSkips("document", remoteID, outcome)
		if d.Status == "" {
			d.Status = model.DocumentStatusUploaded
		}

		if err := repo.Save(d); err != nil {
			return err
		}
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncAssistant upserts one chat-assistant payload under an instance and
// links it to the local collection mirroring its first bound dataset.
func (s *SyncCoordinator) SyncAssistant(ctx context.Context, instanceID uint, payload remote.Payload) (*model.ChatAssistant, error) {
	remoteID := payload.ID()
	if remoteID == "" {
		return nil, fmt.Errorf("%w: assistant payload", ErrMissingRemoteID)
	}
	unlock := s.locks.lock(fmt.Sprintf("assistant:%d:%s", instanceID, remoteID))
	defer unlock()

	var result *model.ChatAssistant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAssistantRepository(tx)
		a, err := repo.GetByRemoteID(instanceID, remoteID)
		if err != nil {
			return err
		}
		if a == nil {
			if name, ok := payload.String("name"); ok && name != "" {
				a, err = repo.GetByName(instanceID, name)
				if err != nil {
					return err
				}
			}
		}
		if a == nil {
			a = &model.ChatAssistant{InstanceID: instanceID}
		}

		outcome := mapper.ApplyAssistant(payload, a)
		s.logSkips("assistant", remoteID, outcome)

		if ids := mapper.AssistantDatasetIDs(payload); len(ids) > 0 {
			colRepo := repository.NewCollectionRepository(tx)
			col, err := colRepo.GetByRemoteID(instanceID, ids[0])
			if err != nil {
				return err
			}
			if col != nil {
				a.CollectionID = &col.ID
			}
		}

		now := time.Now()
		a.LastSyncTime = &now
		if err := repo.Save(a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncAgent upserts one agent payload under an instance.
func (s *SyncCoordinator) SyncAgent(ctx context.Context, instanceID uint, payload remote.Payload) (*model.Agent, error) {
	remoteID := payload.ID()
	if remoteID == "" {
		return nil, fmt.Errorf("%w: agent payload", ErrMissingRemoteID)
	}
	unlock := s.locks.lock(fmt.Sprintf("agent:%d:%s", instanceID, remoteID))
	defer unlock()

	var result *model.Agent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAgentRepository(tx)
		a, err := repo.GetByRemoteID(instanceID, remoteID)
		if err != nil {
			return err
		}
		if a == nil {
			if name, ok := payload.String("name", "title"); ok && name != "" {
				a, err = repo.GetByName(instanceID, name)
				if err != nil {
					return err
				}
			}
		}
		if a == nil {
			a = &model.Agent{InstanceID: instanceID}
		}

		outcome := mapper.ApplyAgent(payload, a)
		s.logSkips("agent", remoteID, outcome)

		now := time.Now()
		a.LastSyncTime = &now
		if err := repo.Save(a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncModel upserts one model-catalog payload under an instance. Model
// catalogs key on the model name when no id is present.
func (s *SyncCoordinator) SyncModel(ctx context.Context, instanceID uint, payload remote.Payload) (*model.LLMModel, error) {
	remoteID := payload.ID()
	if remoteID == "" {
		if name, ok := payload.String("name", "llm_name", "model_name"); ok {
			remoteID = name
		}
	}
	if remoteID == "" {
		return nil, fmt.Errorf("%w: model payload", ErrMissingRemoteID)
	}
	unlock := s.locks.lock(fmt.Sprintf("model:%d:%s", instanceID, remoteID))
	defer unlock()

	var result *model.LLMModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewLLMModelRepository(tx)
		m, err := repo.GetByRemoteID(instanceID, remoteID)
		if err != nil {
			return err
		}
		if m == nil {
			if name, ok := payload.String("name", "llm_name", "model_name"); ok && name != "" {
				m, err = repo.GetByName(instanceID, name)
				if err != nil {
					return err
				}
			}
		}
		if m == nil {
			m = &model.LLMModel{InstanceID: instanceID}
		}

		outcome := mapper.ApplyLLMModel(payload, m)
		s.logSkips("model", remoteID, outcome)

		now := time.Now()
		m.LastSyncTime = &now
		if err := repo.Save(m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
