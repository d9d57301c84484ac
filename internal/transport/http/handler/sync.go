package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kbbridge/internal/app"
	"kbbridge/internal/cache"
	"kbbridge/internal/transport/http/response"
)

const cooldownKindCollections = "collections"

// SyncHandler exposes the batch sync triggers. The collection sync carries
// a cooldown: the last run time lives in redis and is handed to the runner
// explicitly, so a ?force=true bypass is a pure parameter change.
type SyncHandler struct {
	runner    *app.BatchRunner
	cooldowns *cache.CooldownCache
}

func NewSyncHandler(runner *app.BatchRunner, cooldowns *cache.CooldownCache) *SyncHandler {
	return &SyncHandler{runner: runner, cooldowns: cooldowns}
}

func (h *SyncHandler) SyncCollections(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	lastSync, err := h.cooldowns.LastSync(c.Request.Context(), cooldownKindCollections, instanceID)
	if err != nil {
		// A broken cooldown store must not block syncing; treat as never synced.
		log.Printf("read sync cooldown failed: %v", err)
		lastSync = time.Time{}
	}

	report, err := h.runner.SyncCollections(c.Request.Context(), instanceID, lastSync, force)
	if err != nil {
		h.writeError(c, err, "sync collections failed")
		return
	}

	if err := h.cooldowns.MarkSynced(c.Request.Context(), cooldownKindCollections, instanceID); err != nil {
		log.Printf("store sync cooldown failed: %v", err)
	}
	response.OK(c, report)
}

func (h *SyncHandler) SyncDocuments(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.runner.SyncDocuments(c.Request.Context(), collectionID)
	if err != nil {
		h.writeError(c, err, "sync documents failed")
		return
	}
	response.OK(c, report)
}

func (h *SyncHandler) RetryFailedDocuments(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.runner.RetryFailedDocuments(c.Request.Context(), collectionID)
	if err != nil {
		h.writeError(c, err, "retry failed documents failed")
		return
	}
	response.OK(c, report)
}

func (h *SyncHandler) SyncAssistants(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.runner.SyncAssistants(c.Request.Context(), instanceID)
	if err != nil {
		h.writeError(c, err, "sync assistants failed")
		return
	}
	response.OK(c, report)
}

func (h *SyncHandler) SyncAgents(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.runner.SyncAgents(c.Request.Context(), instanceID)
	if err != nil {
		h.writeError(c, err, "sync agents failed")
		return
	}
	response.OK(c, report)
}

func (h *SyncHandler) SyncModels(c *gin.Context) {
	instanceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.runner.SyncModels(c.Request.Context(), instanceID)
	if err != nil {
		h.writeError(c, err, "sync models failed")
		return
	}
	response.OK(c, report)
}

func (h *SyncHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrCooldownActive):
		response.Error(c, http.StatusTooManyRequests, response.CodeCooldownActive, err.Error())
	case errors.Is(err, app.ErrInstanceNotFound),
		errors.Is(err, app.ErrCollectionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrInstanceDisabled):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	default:
		response.Error(c, http.StatusBadGateway, response.CodeRemoteUnavailable, fallback)
	}
}
