package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

func TestSyncChunksShortCircuitSkipsListing(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusCompleted, "doc-1")
	doc.ChunkCount = 5
	require.NoError(t, db.Save(doc).Error)

	gw := newFakeGateway()
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, 5)
	assert.True(t, result.Success)
	assert.Zero(t, result.SyncedCount)
	assert.Equal(t, 5, result.TotalCount)
	assert.Zero(t, gw.calls["ListChunks"], "matching totals must not fetch the listing")
}

func TestSyncChunksFetchesWhenTotalsDiffer(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusCompleted, "doc-1")

	gw := newFakeGateway()
	gw.listChunksFn = func(string, string, int, int) ([]remote.Payload, int, error) {
		return []remote.Payload{
			{"id": "ck-1", "content": "first", "position": float64(0)},
			{"id": "ck-2", "content": "second", "position": float64(1)},
		}, 2, nil
	}
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, 2)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 2, result.TotalCount)

	var stored []model.Chunk
	require.NoError(t, db.Order("position").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "ck-1", stored[0].RemoteID)
	assert.Equal(t, "second", stored[1].Content)

	refreshed := &model.Document{}
	require.NoError(t, db.First(refreshed, doc.ID).Error)
	assert.Equal(t, 2, refreshed.ChunkCount)
}

func TestSyncChunksUpsertsExistingChunks(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusCompleted, "doc-1")
	require.NoError(t, db.Create(&model.Chunk{DocumentID: doc.ID, RemoteID: "ck-1", Content: "stale"}).Error)

	gw := newFakeGateway()
	gw.listChunksFn = func(string, string, int, int) ([]remote.Payload, int, error) {
		return []remote.Payload{{"id": "ck-1", "content": "fresh"}}, 1, nil
	}
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, -1)
	assert.True(t, result.Success)

	var count int64
	require.NoError(t, db.Model(&model.Chunk{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-listing the same chunk must not duplicate it")

	var stored model.Chunk
	require.NoError(t, db.Where("document_id = ? AND remote_id = ?", doc.ID, "ck-1").First(&stored).Error)
	assert.Equal(t, "fresh", stored.Content)
}

func TestSyncChunksNegativeTotalForcesFetch(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusCompleted, "doc-1")

	gw := newFakeGateway()
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, -1)
	assert.True(t, result.Success)
	assert.Equal(t, 1, gw.calls["ListChunks"])
}

func TestSyncChunksReportsFailureInsteadOfPanicking(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusCompleted, "doc-1")

	gw := newFakeGateway()
	gw.listChunksFn = func(string, string, int, int) ([]remote.Payload, int, error) {
		return nil, 0, errors.New("listing unavailable")
	}
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, -1)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "listing unavailable")
}

func TestSyncChunksRequiresDocumentRemoteID(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	doc := seedDocument(t, db, col.ID, model.DocumentStatusPending, "")

	gw := newFakeGateway()
	sync := NewChunkSync(db, gw.factory(), 0)

	result := sync.SyncChunks(context.Background(), doc.ID, -1)
	assert.False(t, result.Success)
	assert.Zero(t, gw.calls["ListChunks"])
}
