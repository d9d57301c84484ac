package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type memoryPublisher struct {
	messages []model.ChatMessage
}

func (p *memoryPublisher) Publish(_ context.Context, msg model.ChatMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

type memoryHistoryCache struct {
	store   map[string][]model.ChatMessage
	deletes int
}

func newMemoryHistoryCache() *memoryHistoryCache {
	return &memoryHistoryCache{store: map[string][]model.ChatMessage{}}
}

func historyKey(assistantID uint, sessionID string) string {
	return fmt.Sprintf("%d:%s", assistantID, sessionID)
}

func (c *memoryHistoryCache) GetHistory(_ context.Context, assistantID uint, sessionID string) ([]model.ChatMessage, bool, error) {
	msgs, ok := c.store[historyKey(assistantID, sessionID)]
	return msgs, ok, nil
}

func (c *memoryHistoryCache) SetHistory(_ context.Context, assistantID uint, sessionID string, messages []model.ChatMessage) error {
	c.store[historyKey(assistantID, sessionID)] = messages
	return nil
}

func (c *memoryHistoryCache) DeleteHistory(_ context.Context, assistantID uint, sessionID string) error {
	c.deletes++
	delete(c.store, historyKey(assistantID, sessionID))
	return nil
}

func seedAssistant(t *testing.T, db *gorm.DB, instanceID uint, remoteID string) *model.ChatAssistant {
	t.Helper()
	assistant := &model.ChatAssistant{InstanceID: instanceID, Name: "Helper"}
	if remoteID != "" {
		assistant.RemoteID = &remoteID
	}
	require.NoError(t, db.Create(assistant).Error)
	return assistant
}

func TestSendMessageEnqueuesBothSides(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	assistant := seedAssistant(t, db, inst.ID, "asst-1")

	gw := newFakeGateway()
	publisher := &memoryPublisher{}
	history := newMemoryHistoryCache()
	service := NewAssistantChatService(db, gw.factory(), publisher, history)

	reply, err := service.SendMessage(context.Background(), SendMessageInput{
		AssistantID: assistant.ID,
		Question:    "what is in the handbook?",
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", reply.Answer)
	assert.Equal(t, "sess-1", reply.SessionID)

	require.Len(t, publisher.messages, 2)
	assert.Equal(t, "user", publisher.messages[0].Role)
	assert.Equal(t, "assistant", publisher.messages[1].Role)
	assert.Equal(t, "sess-1", publisher.messages[0].SessionID)
	assert.Equal(t, 1, history.deletes, "cached history is invalidated after a new turn")
}

func TestSendMessageRequiresSyncedAssistant(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	assistant := seedAssistant(t, db, inst.ID, "")

	gw := newFakeGateway()
	service := NewAssistantChatService(db, gw.factory(), nil, nil)

	_, err := service.SendMessage(context.Background(), SendMessageInput{
		AssistantID: assistant.ID,
		Question:    "hello",
	})
	assert.ErrorIs(t, err, ErrMissingRemoteID)
	assert.Zero(t, gw.calls["Converse"])
}

func TestGetHistoryPrefersCache(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	assistant := seedAssistant(t, db, inst.ID, "asst-1")

	history := newMemoryHistoryCache()
	cached := []model.ChatMessage{{AssistantID: assistant.ID, SessionID: "sess-1", Role: "user", Content: "hi"}}
	require.NoError(t, history.SetHistory(context.Background(), assistant.ID, "sess-1", cached))

	service := NewAssistantChatService(db, newFakeGateway().factory(), nil, history)

	messages, err := service.GetHistory(context.Background(), assistant.ID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, cached, messages)
}

func TestGetHistoryFallsBackToStore(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)
	assistant := seedAssistant(t, db, inst.ID, "asst-1")
	require.NoError(t, db.Create(&model.ChatMessage{
		AssistantID: assistant.ID,
		SessionID:   "sess-1",
		Role:        "user",
		Content:     "from the database",
	}).Error)

	history := newMemoryHistoryCache()
	service := NewAssistantChatService(db, newFakeGateway().factory(), nil, history)

	messages, err := service.GetHistory(context.Background(), assistant.ID, "sess-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "from the database", messages[0].Content)
}
