package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

func TestSyncCollectionCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	coordinator := NewSyncCoordinator(db)
	ctx := context.Background()

	payload := remote.Payload{"id": "ds-1", "name": "Handbook", "chunk_method": "naive"}
	first, err := coordinator.SyncCollection(ctx, inst.ID, payload)
	require.NoError(t, err)
	require.NotNil(t, first.RemoteID)
	assert.Equal(t, "ds-1", *first.RemoteID)
	assert.NotNil(t, first.LastSyncTime)

	// Same payload again must hit the same row, not create a sibling.
	payload["name"] = "Handbook v2"
	second, err := coordinator.SyncCollection(ctx, inst.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Handbook v2", second.Name)

	var count int64
	require.NoError(t, db.Model(&model.Collection{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSyncCollectionAdoptsRowByNaturalKey(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	coordinator := NewSyncCoordinator(db)

	// A locally created collection has no remote id yet.
	local := &model.Collection{InstanceID: inst.ID, Name: "Handbook"}
	require.NoError(t, db.Create(local).Error)

	synced, err := coordinator.SyncCollection(context.Background(), inst.ID,
		remote.Payload{"id": "ds-9", "name": "Handbook"})
	require.NoError(t, err)

	assert.Equal(t, local.ID, synced.ID, "name match adopts the local row")
	require.NotNil(t, synced.RemoteID)
	assert.Equal(t, "ds-9", *synced.RemoteID)
}

func TestSyncCollectionRejectsPayloadWithoutID(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	coordinator := NewSyncCoordinator(db)

	_, err := coordinator.SyncCollection(context.Background(), inst.ID, remote.Payload{"name": "nameless"})
	assert.ErrorIs(t, err, ErrMissingRemoteID)
}

func TestSyncDocumentDefaultsStatusToUploaded(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	coordinator := NewSyncCoordinator(db)

	doc, err := coordinator.SyncDocument(context.Background(), col.ID,
		remote.Payload{"id": "doc-1", "name": "intro.md"})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusUploaded, doc.Status)
}

func TestSyncDocumentMapsRemoteStatus(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	coordinator := NewSyncCoordinator(db)

	doc, err := coordinator.SyncDocument(context.Background(), col.ID,
		remote.Payload{"id": "doc-1", "name": "intro.md", "run": "RUNNING", "chunk_count": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusProcessing, doc.Status)
	assert.Equal(t, 0, doc.ChunkCount, "chunk count is owned by chunk reconciliation")
}

func TestSyncAssistantLinksCollection(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	col := seedCollection(t, db, inst.ID, "ds-1")
	coordinator := NewSyncCoordinator(db)

	assistant, err := coordinator.SyncAssistant(context.Background(), inst.ID, remote.Payload{
		"id":          "asst-1",
		"name":        "Helper",
		"dataset_ids": []any{"ds-1"},
		"llm":         map[string]any{"model_name": "qwen-max", "temperature": 0.3},
	})
	require.NoError(t, err)
	require.NotNil(t, assistant.CollectionID)
	assert.Equal(t, col.ID, *assistant.CollectionID)
	assert.Equal(t, "qwen-max", assistant.Model)
}

func TestSyncModelFallsBackToNameAsIdentity(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	coordinator := NewSyncCoordinator(db)
	ctx := context.Background()

	first, err := coordinator.SyncModel(ctx, inst.ID,
		remote.Payload{"llm_name": "bge-large", "model_type": "embedding"})
	require.NoError(t, err)

	second, err := coordinator.SyncModel(ctx, inst.ID,
		remote.Payload{"llm_name": "bge-large", "model_type": "embedding"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.LLMModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
