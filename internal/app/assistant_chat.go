package app

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"kbbridge/internal/model"
	"kbbridge/internal/repository"
)

// AsyncMessagePublisher enqueues chat messages for asynchronous persistence.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

// HistoryCache caches conversation history per assistant session.
type HistoryCache interface {
	GetHistory(ctx context.Context, assistantID uint, sessionID string) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, assistantID uint, sessionID string, messages []model.ChatMessage) error
	DeleteHistory(ctx context.Context, assistantID uint, sessionID string) error
}

// AssistantChatService relays questions to a synced remote chat assistant
// and keeps a local conversation log. Message persistence goes through the
// queue so chat latency is not coupled to the local store.
type AssistantChatService struct {
	db        *gorm.DB
	gateways  GatewayFactory
	publisher AsyncMessagePublisher
	history   HistoryCache
}

func NewAssistantChatService(db *gorm.DB, gateways GatewayFactory, publisher AsyncMessagePublisher, history HistoryCache) *AssistantChatService {
	return &AssistantChatService{db: db, gateways: gateways, publisher: publisher, history: history}
}

type SendMessageInput struct {
	AssistantID uint
	SessionID   string // empty starts a new remote conversation
	Question    string
}

type ChatReply struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

func (s *AssistantChatService) SendMessage(ctx context.Context, input SendMessageInput) (*ChatReply, error) {
	question := strings.TrimSpace(input.Question)
	if input.AssistantID == 0 || question == "" {
		return nil, ErrInvalidInput
	}

	assistant, err := repository.NewAssistantRepository(s.db).GetByID(input.AssistantID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	if assistant.RemoteID == nil {
		return nil, ErrMissingRemoteID
	}
	inst, err := repository.NewInstanceRepository(s.db).GetByID(assistant.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	if !inst.Enabled {
		return nil, ErrInstanceDisabled
	}

	reply, err := s.gateways(inst).Converse(ctx, *assistant.RemoteID, input.SessionID, question)
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, model.ChatMessage{AssistantID: assistant.ID, SessionID: reply.SessionID, Role: "user", Content: question})
	s.enqueue(ctx, model.ChatMessage{AssistantID: assistant.ID, SessionID: reply.SessionID, Role: "assistant", Content: reply.Answer})

	if s.history != nil {
		if err := s.history.DeleteHistory(ctx, assistant.ID, reply.SessionID); err != nil {
			log.Printf("invalidate chat history cache failed: %v", err)
		}
	}

	return &ChatReply{Answer: reply.Answer, SessionID: reply.SessionID}, nil
}

func (s *AssistantChatService) enqueue(ctx context.Context, msg model.ChatMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("enqueue chat message failed: %v", err)
	}
}

// GetHistory returns the conversation log for one assistant session,
// cache-first.
func (s *AssistantChatService) GetHistory(ctx context.Context, assistantID uint, sessionID string) ([]model.ChatMessage, error) {
	if assistantID == 0 || sessionID == "" {
		return nil, ErrInvalidInput
	}
	if s.history != nil {
		cached, hit, err := s.history.GetHistory(ctx, assistantID, sessionID)
		if err != nil {
			log.Printf("read chat history cache failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	messages, err := repository.NewChatMessageRepository(s.db).ListBySessionID(assistantID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.history != nil {
		if err := s.history.SetHistory(ctx, assistantID, sessionID, messages); err != nil {
			log.Printf("write chat history cache failed: %v", err)
		}
	}
	return messages, nil
}
