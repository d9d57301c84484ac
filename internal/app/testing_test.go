package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A file-backed database per test: every pooled connection sees the
	// same data and no state leaks between tests.
	dsn := filepath.Join(t.TempDir(), "kbbridge.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Instance{},
		&model.Collection{},
		&model.Document{},
		&model.Chunk{},
		&model.ChatAssistant{},
		&model.Agent{},
		&model.LLMModel{},
		&model.ChatMessage{},
		&model.SyncEvent{},
	))
	return db
}

func seedInstance(t *testing.T, db *gorm.DB) *model.Instance {
	t.Helper()
	inst := &model.Instance{
		Name:    fmt.Sprintf("inst-%s", t.Name()),
		BaseURL: "http://remote.test",
		APIKey:  "key",
		Enabled: true,
	}
	require.NoError(t, db.Create(inst).Error)
	return inst
}

func seedCollection(t *testing.T, db *gorm.DB, instanceID uint, remoteID string) *model.Collection {
	t.Helper()
	col := &model.Collection{
		InstanceID: instanceID,
		Name:       fmt.Sprintf("col-%s", t.Name()),
	}
	if remoteID != "" {
		col.RemoteID = &remoteID
	}
	require.NoError(t, db.Create(col).Error)
	return col
}

func seedDocument(t *testing.T, db *gorm.DB, collectionID uint, status model.DocumentStatus, remoteID string) *model.Document {
	t.Helper()
	doc := &model.Document{
		CollectionID: collectionID,
		Name:         "report.pdf",
		Filename:     "report.pdf",
		Status:       status,
	}
	if remoteID != "" {
		doc.RemoteID = &remoteID
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeGateway satisfies Gateway with overridable behavior and call
// counters, so lifecycle tests can assert which remote calls happened.
type fakeGateway struct {
	listDatasetsFn   func(page, pageSize int) ([]remote.Payload, int, error)
	createDatasetFn  func(fields map[string]any) (remote.Payload, error)
	deleteDatasetsFn func(ids []string) error

	uploadFn    func(datasetID, filename string, content []byte) (remote.Payload, error)
	listDocsFn  func(datasetID string, page, pageSize int) ([]remote.Payload, int, error)
	getDocFn    func(datasetID, documentID string) (remote.Payload, error)
	parseFn     func(datasetID string, ids []string) error
	stopParseFn func(datasetID string, ids []string) error

	listChunksFn func(datasetID, documentID string, page, pageSize int) ([]remote.Payload, int, error)

	listAssistantsFn func(page, pageSize int) ([]remote.Payload, int, error)
	converseFn       func(assistantID, sessionID, question string) (*remote.ConverseReply, error)

	createAgentFn func(fields map[string]any) (remote.Payload, error)
	updateAgentFn func(agentID string, fields map[string]any) error

	listModelsFn func() ([]remote.Payload, error)

	calls map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}}
}

func (f *fakeGateway) factory() GatewayFactory {
	return func(*model.Instance) Gateway { return f }
}

func (f *fakeGateway) record(name string) { f.calls[name]++ }

func (f *fakeGateway) ListDatasets(_ context.Context, page, pageSize int) ([]remote.Payload, int, error) {
	f.record("ListDatasets")
	if f.listDatasetsFn == nil {
		return nil, 0, nil
	}
	return f.listDatasetsFn(page, pageSize)
}

func (f *fakeGateway) CreateDataset(_ context.Context, fields map[string]any) (remote.Payload, error) {
	f.record("CreateDataset")
	if f.createDatasetFn == nil {
		return remote.Payload{"id": "ds-new"}, nil
	}
	return f.createDatasetFn(fields)
}

func (f *fakeGateway) UpdateDataset(_ context.Context, _ string, _ map[string]any) error {
	f.record("UpdateDataset")
	return nil
}

func (f *fakeGateway) DeleteDatasets(_ context.Context, ids []string) error {
	f.record("DeleteDatasets")
	if f.deleteDatasetsFn == nil {
		return nil
	}
	return f.deleteDatasetsFn(ids)
}

func (f *fakeGateway) UploadDocument(_ context.Context, datasetID, filename string, content []byte) (remote.Payload, error) {
	f.record("UploadDocument")
	if f.uploadFn == nil {
		return remote.Payload{"id": "doc-remote"}, nil
	}
	return f.uploadFn(datasetID, filename, content)
}

func (f *fakeGateway) ListDocuments(_ context.Context, datasetID string, page, pageSize int) ([]remote.Payload, int, error) {
	f.record("ListDocuments")
	if f.listDocsFn == nil {
		return nil, 0, nil
	}
	return f.listDocsFn(datasetID, page, pageSize)
}

func (f *fakeGateway) GetDocument(_ context.Context, datasetID, documentID string) (remote.Payload, error) {
	f.record("GetDocument")
	if f.getDocFn == nil {
		return remote.Payload{"id": documentID}, nil
	}
	return f.getDocFn(datasetID, documentID)
}

func (f *fakeGateway) DeleteDocuments(_ context.Context, _ string, _ []string) error {
	f.record("DeleteDocuments")
	return nil
}

func (f *fakeGateway) ParseDocuments(_ context.Context, datasetID string, ids []string) error {
	f.record("ParseDocuments")
	if f.parseFn == nil {
		return nil
	}
	return f.parseFn(datasetID, ids)
}

func (f *fakeGateway) StopParseDocuments(_ context.Context, datasetID string, ids []string) error {
	f.record("StopParseDocuments")
	if f.stopParseFn == nil {
		return nil
	}
	return f.stopParseFn(datasetID, ids)
}

func (f *fakeGateway) ListChunks(_ context.Context, datasetID, documentID string, page, pageSize int) ([]remote.Payload, int, error) {
	f.record("ListChunks")
	if f.listChunksFn == nil {
		return nil, 0, nil
	}
	return f.listChunksFn(datasetID, documentID, page, pageSize)
}

func (f *fakeGateway) ListAssistants(_ context.Context, page, pageSize int) ([]remote.Payload, int, error) {
	f.record("ListAssistants")
	if f.listAssistantsFn == nil {
		return nil, 0, nil
	}
	return f.listAssistantsFn(page, pageSize)
}

func (f *fakeGateway) CreateAssistant(_ context.Context, _ map[string]any) (remote.Payload, error) {
	f.record("CreateAssistant")
	return remote.Payload{"id": "asst-new"}, nil
}

func (f *fakeGateway) UpdateAssistant(_ context.Context, _ string, _ map[string]any) error {
	f.record("UpdateAssistant")
	return nil
}

func (f *fakeGateway) DeleteAssistants(_ context.Context, _ []string) error {
	f.record("DeleteAssistants")
	return nil
}

func (f *fakeGateway) Converse(_ context.Context, assistantID, sessionID, question string) (*remote.ConverseReply, error) {
	f.record("Converse")
	if f.converseFn == nil {
		return &remote.ConverseReply{Answer: "answer", SessionID: "sess-1"}, nil
	}
	return f.converseFn(assistantID, sessionID, question)
}

func (f *fakeGateway) ListAgents(_ context.Context, page, pageSize int) ([]remote.Payload, int, error) {
	f.record("ListAgents")
	return nil, 0, nil
}

func (f *fakeGateway) CreateAgent(_ context.Context, fields map[string]any) (remote.Payload, error) {
	f.record("CreateAgent")
	if f.createAgentFn == nil {
		return remote.Payload{"id": "agent-new"}, nil
	}
	return f.createAgentFn(fields)
}

func (f *fakeGateway) UpdateAgent(_ context.Context, agentID string, fields map[string]any) error {
	f.record("UpdateAgent")
	if f.updateAgentFn == nil {
		return nil
	}
	return f.updateAgentFn(agentID, fields)
}

func (f *fakeGateway) DeleteAgents(_ context.Context, _ []string) error {
	f.record("DeleteAgents")
	return nil
}

func (f *fakeGateway) ListModels(_ context.Context) ([]remote.Payload, error) {
	f.record("ListModels")
	if f.listModelsFn == nil {
		return nil, nil
	}
	return f.listModelsFn()
}
