package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kbbridge/internal/app"
	"kbbridge/internal/transport/http/response"
)

type CollectionHandler struct {
	collections *app.CollectionService
}

type CreateCollectionRequest struct {
	InstanceID     uint   `json:"instance_id" binding:"required"`
	Name           string `json:"name" binding:"required,max=128"`
	Description    string `json:"description" binding:"max=512"`
	ChunkMethod    string `json:"chunk_method"`
	ChunkSize      int    `json:"chunk_size"`
	Language       string `json:"language"`
	EmbeddingModel string `json:"embedding_model"`
}

func NewCollectionHandler(collections *app.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	col, err := h.collections.Create(c.Request.Context(), app.CreateCollectionInput{
		InstanceID:     req.InstanceID,
		Name:           req.Name,
		Description:    req.Description,
		ChunkMethod:    req.ChunkMethod,
		ChunkSize:      req.ChunkSize,
		Language:       req.Language,
		EmbeddingModel: req.EmbeddingModel,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInstanceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "instance not found")
		case errors.Is(err, app.ErrInstanceDisabled):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "instance is disabled")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create collection failed")
		}
		return
	}
	response.OK(c, col)
}

func (h *CollectionHandler) ListByInstance(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	collections, err := h.collections.List(instanceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list collections failed")
		return
	}
	response.OK(c, collections)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.collections.Delete(c.Request.Context(), collectionID); err != nil {
		if errors.Is(err, app.ErrCollectionNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "collection not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete collection failed")
		return
	}
	response.OK(c, gin.H{"deleted": collectionID})
}
