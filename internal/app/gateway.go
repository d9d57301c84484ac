package app

import (
	"context"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// The gateway interfaces below are defined on the consumer side so services
// can be tested against fakes; remote.Client satisfies all of them.

type DatasetGateway interface {
	ListDatasets(ctx context.Context, page, pageSize int) ([]remote.Payload, int, error)
	CreateDataset(ctx context.Context, fields map[string]any) (remote.Payload, error)
	UpdateDataset(ctx context.Context, datasetID string, fields map[string]any) error
	DeleteDatasets(ctx context.Context, ids []string) error
}

type DocumentGateway interface {
	UploadDocument(ctx context.Context, datasetID, filename string, content []byte) (remote.Payload, error)
	ListDocuments(ctx context.Context, datasetID string, page, pageSize int) ([]remote.Payload, int, error)
	GetDocument(ctx context.Context, datasetID, documentID string) (remote.Payload, error)
	DeleteDocuments(ctx context.Context, datasetID string, ids []string) error
	ParseDocuments(ctx context.Context, datasetID string, ids []string) error
	StopParseDocuments(ctx context.Context, datasetID string, ids []string) error
}

type ChunkGateway interface {
	ListChunks(ctx context.Context, datasetID, documentID string, page, pageSize int) ([]remote.Payload, int, error)
}

type AssistantGateway interface {
	ListAssistants(ctx context.Context, page, pageSize int) ([]remote.Payload, int, error)
	CreateAssistant(ctx context.Context, fields map[string]any) (remote.Payload, error)
	UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) error
	DeleteAssistants(ctx context.Context, ids []string) error
	Converse(ctx context.Context, assistantID, sessionID, question string) (*remote.ConverseReply, error)
}

type AgentGateway interface {
	ListAgents(ctx context.Context, page, pageSize int) ([]remote.Payload, int, error)
	CreateAgent(ctx context.Context, fields map[string]any) (remote.Payload, error)
	UpdateAgent(ctx context.Context, agentID string, fields map[string]any) error
	DeleteAgents(ctx context.Context, ids []string) error
}

type ModelGateway interface {
	ListModels(ctx context.Context) ([]remote.Payload, error)
}

// Gateway is the full remote surface for one instance.
type Gateway interface {
	DatasetGateway
	DocumentGateway
	ChunkGateway
	AssistantGateway
	AgentGateway
	ModelGateway
}

// GatewayFactory builds a gateway from an instance connection profile.
type GatewayFactory func(inst *model.Instance) Gateway

// NewRemoteGateway is the production factory.
func NewRemoteGateway(inst *model.Instance) Gateway {
	return remote.NewClient(inst.BaseURL, inst.APIKey, inst.Timeout())
}
