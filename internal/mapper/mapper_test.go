package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

func TestApplyCollectionAliases(t *testing.T) {
	cases := []struct {
		name    string
		payload remote.Payload
	}{
		{"snake_case", remote.Payload{"id": "ds-42", "chunk_method": "naive", "chunk_size": float64(512)}},
		{"camelCase", remote.Payload{"id": "ds-42", "chunkMethod": "naive", "chunkSize": float64(512)}},
		{"parser_method alias", remote.Payload{"id": "ds-42", "parser_method": "naive", "chunk_size": float64(512)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c model.Collection
			o := ApplyCollection(tc.payload, &c)
			require.NotNil(t, c.RemoteID)
			assert.Equal(t, "ds-42", *c.RemoteID)
			assert.Equal(t, "naive", c.ChunkMethod)
			assert.Equal(t, 512, c.ChunkSize)
			assert.False(t, o.HasSkips())
		})
	}
}

func TestApplyCollectionPartialUpdate(t *testing.T) {
	c := model.Collection{
		Name:        "Demo",
		Description: "keep me",
		ChunkSize:   256,
	}
	o := ApplyCollection(remote.Payload{"name": "Renamed"}, &c)

	assert.Equal(t, "Renamed", c.Name)
	assert.Equal(t, "keep me", c.Description, "absent fields stay untouched")
	assert.Equal(t, 256, c.ChunkSize)
	assert.Equal(t, []string{"Name"}, o.Applied)
}

func TestApplyCollectionSkipsMalformedFields(t *testing.T) {
	c := model.Collection{Name: "Demo", ChunkSize: 64}
	o := ApplyCollection(remote.Payload{
		"name":       float64(7),
		"chunk_size": "not a number",
	}, &c)

	assert.Equal(t, "Demo", c.Name, "wrong-typed field never clears the entity")
	assert.Equal(t, 64, c.ChunkSize)
	require.Len(t, o.Skipped, 2)
	assert.True(t, o.HasSkips())
}

func TestApplyDocumentLeavesChunkCountToReconciliation(t *testing.T) {
	d := model.Document{ChunkCount: 4}
	o := ApplyDocument(remote.Payload{"name": "intro.md", "chunk_count": float64(9)}, &d)

	assert.Equal(t, 4, d.ChunkCount, "remote total must not overwrite the locally reconciled count")
	assert.NotContains(t, o.Applied, "ChunkCount")
}

func TestApplyDocumentStatusMapping(t *testing.T) {
	cases := map[string]model.DocumentStatus{
		"UNSTART": model.DocumentStatusUploaded,
		"RUNNING": model.DocumentStatusProcessing,
		"DONE":    model.DocumentStatusCompleted,
		"FAIL":    model.DocumentStatusFailed,
		"CANCEL":  model.DocumentStatusPending,
	}
	for remoteStatus, want := range cases {
		var d model.Document
		o := ApplyDocument(remote.Payload{"status": remoteStatus}, &d)
		assert.Equal(t, want, d.Status)
		assert.False(t, o.HasSkips())
	}

	d := model.Document{Status: model.DocumentStatusPending}
	o := ApplyDocument(remote.Payload{"status": "SOMETHING_NEW"}, &d)
	assert.Equal(t, model.DocumentStatusPending, d.Status, "unknown status is skipped")
	assert.True(t, o.HasSkips())
}

func TestApplyChunkRequiresRemoteID(t *testing.T) {
	var c model.Chunk
	o := ApplyChunk(remote.Payload{"id": "ck-1", "content": "hello", "size": float64(5)}, &c)
	assert.Equal(t, "ck-1", c.RemoteID)
	assert.Equal(t, "hello", c.Content)
	assert.Equal(t, 5, c.Size)
	assert.False(t, o.HasSkips())

	var empty model.Chunk
	o = ApplyChunk(remote.Payload{"id": "", "content": "x"}, &empty)
	assert.Empty(t, empty.RemoteID)
	assert.True(t, o.HasSkips())
}

func TestApplyAssistantNestedLLM(t *testing.T) {
	var a model.ChatAssistant
	o := ApplyAssistant(remote.Payload{
		"id":   "as-1",
		"name": "Helper",
		"llm": map[string]any{
			"model_name":  "qwen3-max",
			"temperature": 0.3,
			"top_p":       0.9,
		},
		"prompt": map[string]any{"prompt": "You are helpful."},
	}, &a)

	require.NotNil(t, a.RemoteID)
	assert.Equal(t, "as-1", *a.RemoteID)
	assert.Equal(t, "qwen3-max", a.Model)
	assert.InDelta(t, 0.3, a.Temperature, 1e-9)
	assert.InDelta(t, 0.9, a.TopP, 1e-9)
	assert.Equal(t, "You are helpful.", a.Prompt)
	assert.False(t, o.HasSkips())
}

func TestAssistantDatasetIDs(t *testing.T) {
	ids := AssistantDatasetIDs(remote.Payload{"dataset_ids": []any{"ds-1", "", float64(3), "ds-2"}})
	assert.Equal(t, []string{"ds-1", "ds-2"}, ids)

	assert.Nil(t, AssistantDatasetIDs(remote.Payload{}))
	assert.Nil(t, AssistantDatasetIDs(remote.Payload{"dataset_ids": "ds-1"}))
}

func TestApplyAgentDSLObject(t *testing.T) {
	var a model.Agent
	o := ApplyAgent(remote.Payload{
		"id":  "ag-1",
		"dsl": map[string]any{"graph": map[string]any{"nodes": []any{}}},
	}, &a)
	require.NotNil(t, a.RemoteID)
	assert.JSONEq(t, `{"graph":{"nodes":[]}}`, a.DSL)
	assert.False(t, o.HasSkips())
}

func TestApplyLLMModelNameAsIdentity(t *testing.T) {
	var m model.LLMModel
	ApplyLLMModel(remote.Payload{"llm_name": "bge-m3", "model_type": "embedding"}, &m)
	require.NotNil(t, m.RemoteID)
	assert.Equal(t, "bge-m3", *m.RemoteID)
	assert.Equal(t, "embedding", m.Kind)
}
