package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"kbbridge/internal/model"
)

// SyncEventPublisher enqueues sync audit events for asynchronous
// persistence. Publishing is best-effort at the call sites.
type SyncEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewSyncEventPublisher(conn *amqp.Connection, queueName string) *SyncEventPublisher {
	return &SyncEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *SyncEventPublisher) Publish(ctx context.Context, event model.SyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sync event payload failed: %w", err)
	}
	return publish(ctx, p.conn, p.queueName, payload)
}
