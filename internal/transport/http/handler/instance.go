package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kbbridge/internal/app"
	"kbbridge/internal/transport/http/response"
)

type InstanceHandler struct {
	instances *app.InstanceService
}

type CreateInstanceRequest struct {
	Name           string `json:"name" binding:"required,max=128"`
	BaseURL        string `json:"base_url" binding:"required,max=512"`
	APIKey         string `json:"api_key" binding:"required"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func NewInstanceHandler(instances *app.InstanceService) *InstanceHandler {
	return &InstanceHandler{instances: instances}
}

// pathID parses a :id path segment shared by every resource handler.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(parsed), true
}

func (h *InstanceHandler) Create(c *gin.Context) {
	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	inst, err := h.instances.Create(app.CreateInstanceInput{
		Name:           req.Name,
		BaseURL:        req.BaseURL,
		APIKey:         req.APIKey,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create instance failed")
		return
	}
	response.OK(c, inst)
}

func (h *InstanceHandler) List(c *gin.Context) {
	instances, err := h.instances.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list instances failed")
		return
	}
	response.OK(c, instances)
}

func (h *InstanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inst, err := h.instances.Get(id)
	if err != nil {
		if errors.Is(err, app.ErrInstanceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "instance not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch instance failed")
		return
	}
	response.OK(c, inst)
}

func (h *InstanceHandler) CheckHealth(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	healthy, err := h.instances.CheckHealth(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrInstanceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "instance not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "health check failed")
		return
	}
	response.OK(c, gin.H{"healthy": healthy})
}
