package app

import (
	"context"
	"log"

	"gorm.io/gorm"

	"kbbridge/internal/mapper"
	"kbbridge/internal/model"
	"kbbridge/internal/remote"
	"kbbridge/internal/repository"
)

// ChunkSyncResult reports one reconciliation run. Failures are carried in
// the result instead of an error so batch callers can aggregate without
// aborting.
type ChunkSyncResult struct {
	Success     bool   `json:"success"`
	SyncedCount int    `json:"synced_count"`
	TotalCount  int    `json:"total_count"`
	Error       string `json:"error,omitempty"`
}

// ChunkSync reconciles remote chunk listings into local chunk rows.
type ChunkSync struct {
	db       *gorm.DB
	gateways GatewayFactory
	pageSize int
}

func NewChunkSync(db *gorm.DB, gateways GatewayFactory, pageSize int) *ChunkSync {
	if pageSize <= 0 {
		pageSize = remote.DefaultChunkPageSize
	}
	return &ChunkSync{db: db, gateways: gateways, pageSize: pageSize}
}

func failure(total int, err error) ChunkSyncResult {
	return ChunkSyncResult{Success: false, TotalCount: total, Error: err.Error()}
}

// SyncChunks reconciles one document's chunks. remoteTotal is the
// remote-reported chunk total the caller already knows (from a document
// payload); when it equals the locally stored count the listing fetch is
// skipped entirely. Pass a negative remoteTotal when the total is unknown
// to force the fetch.
func (s *ChunkSync) SyncChunks(ctx context.Context, documentID uint, remoteTotal int) ChunkSyncResult {
	docRepo := repository.NewDocumentRepository(s.db)
	doc, err := docRepo.GetByID(documentID)
	if err != nil {
		return failure(0, err)
	}
	if doc == nil {
		return failure(0, ErrDocumentNotFound)
	}
	if doc.RemoteID == nil {
		return failure(0, ErrMissingRemoteID)
	}

	// Short-circuit: the local count already matches what the remote last
	// reported, nothing to fetch.
	if remoteTotal >= 0 && doc.ChunkCount == remoteTotal {
		return ChunkSyncResult{Success: true, SyncedCount: 0, TotalCount: remoteTotal}
	}

	col, err := repository.NewCollectionRepository(s.db).GetByID(doc.CollectionID)
	if err != nil {
		return failure(0, err)
	}
	if col == nil {
		return failure(0, ErrCollectionNotFound)
	}
	if col.RemoteID == nil {
		return failure(0, ErrMissingRemoteID)
	}
	inst, err := repository.NewInstanceRepository(s.db).GetByID(col.InstanceID)
	if err != nil {
		return failure(0, err)
	}
	if inst == nil {
		return failure(0, ErrInstanceNotFound)
	}

	gateway := s.gateways(inst)
	payloads, total, err := gateway.ListChunks(ctx, *col.RemoteID, *doc.RemoteID, 1, s.pageSize)
	if err != nil {
		return failure(0, err)
	}

	synced := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chunkRepo := repository.NewChunkRepository(tx)
		for _, payload := range payloads {
			remoteID := payload.ID()
			if remoteID == "" {
				log.Printf("sync chunks document %d: payload without id skipped", doc.ID)
				continue
			}
			chunk, err := chunkRepo.GetByRemoteID(doc.ID, remoteID)
			if err != nil {
				return err
			}
			if chunk == nil {
				chunk = &model.Chunk{DocumentID: doc.ID}
			}
			outcome := mapper.ApplyChunk(payload, chunk)
			for _, skip := range outcome.Skipped {
				log.Printf("sync chunks document %d: skipped field %s: %s", doc.ID, skip.Field, skip.Reason)
			}
			if err := chunkRepo.Save(chunk); err != nil {
				return err
			}
			synced++
		}

		doc.ChunkCount = total
		return repository.NewDocumentRepository(tx).Save(doc)
	})
	if err != nil {
		return failure(total, err)
	}

	return ChunkSyncResult{Success: true, SyncedCount: synced, TotalCount: total}
}
