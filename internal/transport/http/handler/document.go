package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kbbridge/internal/app"
	"kbbridge/internal/pkg/pdfextract"
	"kbbridge/internal/transport/http/response"
)

const (
	maxUploadBytes  = 64 << 20
	maxPreviewRunes = 2000
)

type DocumentHandler struct {
	lifecycle *app.DocumentLifecycle
	chunks    *app.ChunkSync
	uploadDir string
}

func NewDocumentHandler(lifecycle *app.DocumentLifecycle, chunks *app.ChunkSync, uploadDir string) *DocumentHandler {
	return &DocumentHandler{lifecycle: lifecycle, chunks: chunks, uploadDir: uploadDir}
}

// Upload accepts a multipart file, stores it under the upload dir and
// registers a pending document. The remote upload happens on /push.
func (h *DocumentHandler) Upload(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	localPath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filename))
	if err := c.SaveUploadedFile(fileHeader, localPath); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "store uploaded file failed")
		return
	}

	doc, err := h.lifecycle.CreateLocal(app.CreateDocumentInput{
		CollectionID: collectionID,
		Name:         c.DefaultPostForm("name", filename),
		Filename:     filename,
		Type:         strings.TrimPrefix(filepath.Ext(filename), "."),
		Size:         fileHeader.Size,
		LocalPath:    localPath,
		Preview:      extractPreview(localPath, filename),
	})
	if err != nil {
		os.Remove(localPath)
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrCollectionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "collection not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "register document failed")
		}
		return
	}
	response.OK(c, doc)
}

func extractPreview(localPath, filename string) string {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ""
	}
	f, err := os.Open(localPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	text, err := pdfextract.ExtractText(f)
	if err != nil {
		return ""
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > maxPreviewRunes {
		runes = runes[:maxPreviewRunes]
	}
	return string(runes)
}

func (h *DocumentHandler) List(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	docs, err := h.lifecycle.List(collectionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.Get(documentID)
	if err != nil {
		h.writeError(c, err, "fetch document failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Push(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.Upload(c.Request.Context(), documentID)
	if err != nil {
		h.writeError(c, err, "upload document failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) StartParse(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.StartParse(c.Request.Context(), documentID)
	if err != nil {
		h.writeError(c, err, "start parse failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) StopParse(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.StopParse(c.Request.Context(), documentID)
	if err != nil {
		h.writeError(c, err, "stop parse failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Poll(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.PollStatus(c.Request.Context(), documentID)
	if err != nil {
		h.writeError(c, err, "poll status failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Retry(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.lifecycle.Retry(c.Request.Context(), documentID)
	if err != nil {
		h.writeError(c, err, "retry document failed")
		return
	}
	response.OK(c, doc)
}

// SyncChunks forces a chunk reconciliation; the remote total is unknown
// from here so the listing is always fetched.
func (h *DocumentHandler) SyncChunks(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result := h.chunks.SyncChunks(c.Request.Context(), documentID, -1)
	response.OK(c, result)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lifecycle.Delete(c.Request.Context(), documentID); err != nil {
		h.writeError(c, err, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted": documentID})
}

func (h *DocumentHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrDocumentNotFound),
		errors.Is(err, app.ErrCollectionNotFound),
		errors.Is(err, app.ErrInstanceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrInstanceDisabled),
		errors.Is(err, app.ErrMissingRemoteID),
		errors.Is(err, app.ErrLocalFileMissing),
		errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidTransition),
		errors.Is(err, app.ErrRetryNotEligible):
		response.Error(c, http.StatusConflict, response.CodeInvalidTransition, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
