package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kbbridge/internal/repository"
	"kbbridge/internal/transport/http/response"
)

// CatalogHandler serves the read side of the synced agent and model rows.
type CatalogHandler struct {
	agents *repository.AgentRepository
	models *repository.LLMModelRepository
}

func NewCatalogHandler(agents *repository.AgentRepository, models *repository.LLMModelRepository) *CatalogHandler {
	return &CatalogHandler{agents: agents, models: models}
}

func (h *CatalogHandler) ListAgents(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	agents, err := h.agents.ListByInstanceID(instanceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list agents failed")
		return
	}
	response.OK(c, agents)
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	models, err := h.models.ListByInstanceID(instanceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list models failed")
		return
	}
	response.OK(c, models)
}
