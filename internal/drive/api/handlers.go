package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/service"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/logger"
)

// Handler exposes the folder and file endpoints. All of them sit behind
// AuthMiddleware and operate on the authenticated caller's data only.
type Handler struct {
	service        *service.Service
	logger         *logger.Logger
	maxUploadBytes int64
}

func NewHandler(s *service.Service, l *logger.Logger, maxUploadBytes int64) *Handler {
	return &Handler{service: s, logger: l, maxUploadBytes: maxUploadBytes}
}

// respondError maps service errors onto HTTP responses. Validation errors
// carry their message to the user; missing entities are a plain 404.
// Decryption, authentication and storage faults are collapsed into one
// generic 500 so the response leaks nothing about key state or storage
// layout.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// --- Folder handlers ---

// CreateFolderRequest is the JSON body of the folder creation endpoint.
type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateFolder handles POST /folders.
func (h *Handler) CreateFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.service.CreateFolder(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// ListFolders handles GET /folders?q=&sort=.
func (h *Handler) ListFolders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	folders, err := h.service.ListFolders(c.Request.Context(), userID, c.Query("q"), c.Query("sort"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// DeleteFolder handles DELETE /folders/:slug, cascading to every contained
// file and its blob.
func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	deleted, err := h.service.DeleteFolder(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_files": deleted})
}

// --- File handlers ---

// UploadFile handles POST /folders/:slug/files. The payload comes as a
// multipart form field "file"; an optional "name" field overrides the
// display name, which otherwise defaults to the uploaded file name.
func (h *Handler) UploadFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes)})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = header.Filename
	}

	src, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer src.Close()

	// The whole payload is buffered: encryption is single-pass over the
	// full plaintext, there is no streaming pipeline.
	payload, err := io.ReadAll(src)
	if err != nil {
		h.respondError(c, err)
		return
	}

	file, err := h.service.UploadFile(c.Request.Context(), userID, c.Param("slug"), name, payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

// ListFiles handles GET /folders/:slug/files?q=&sort=.
func (h *Handler) ListFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	files, err := h.service.ListFiles(c.Request.Context(), userID, c.Param("slug"), c.Query("q"), c.Query("sort"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GetFile handles GET /files/:slug, returning the catalog row along with
// the stored blob size.
func (h *Handler) GetFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	file, err := h.service.GetFile(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	size, err := h.service.FileSize(c.Request.Context(), userID, file.Slug)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": file, "size": size})
}

// DownloadFile handles GET /files/:slug/download: decrypts the blob and
// streams the plaintext back as an attachment.
func (h *Handler) DownloadFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	payload, file, err := h.service.DownloadFile(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	contentType := mimetype.Detect(payload).String()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, contentType, payload)
}

// DeleteFile handles DELETE /files/:slug.
func (h *Handler) DeleteFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), userID, c.Param("slug")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
