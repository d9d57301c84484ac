package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kbbridge/internal/app"
	"kbbridge/internal/repository"
	"kbbridge/internal/transport/http/response"
)

type AssistantHandler struct {
	chat       *app.AssistantChatService
	assistants *repository.AssistantRepository
}

type AssistantMessageRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
}

func NewAssistantHandler(chat *app.AssistantChatService, assistants *repository.AssistantRepository) *AssistantHandler {
	return &AssistantHandler{chat: chat, assistants: assistants}
}

func (h *AssistantHandler) ListByInstance(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	assistants, err := h.assistants.ListByInstanceID(instanceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list assistants failed")
		return
	}
	response.OK(c, assistants)
}

func (h *AssistantHandler) SendMessage(c *gin.Context) {
	assistantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AssistantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), app.SendMessageInput{
		AssistantID: assistantID,
		SessionID:   req.SessionID,
		Question:    req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrAssistantNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "assistant not found")
		case errors.Is(err, app.ErrMissingRemoteID):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "assistant is not synced yet")
		case errors.Is(err, app.ErrInstanceDisabled):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "instance is disabled")
		default:
			response.Error(c, http.StatusBadGateway, response.CodeRemoteUnavailable, "assistant conversation failed")
		}
		return
	}
	response.OK(c, reply)
}

func (h *AssistantHandler) GetHistory(c *gin.Context) {
	assistantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing session_id")
		return
	}

	messages, err := h.chat.GetHistory(c.Request.Context(), assistantID, sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch history failed")
		return
	}
	response.OK(c, messages)
}
