// Package http implements the protocol endpoints editors call: file
// metadata, content transfer, and lock management.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	apperrors "github.com/allisson/wopihost/internal/errors"
	filesUseCase "github.com/allisson/wopihost/internal/files/usecase"
	"github.com/allisson/wopihost/internal/httputil"
	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
	locksUseCase "github.com/allisson/wopihost/internal/locks/usecase"
)

// Protocol headers.
const (
	HeaderOverride    = "X-WOPI-Override"
	HeaderLock        = "X-WOPI-Lock"
	HeaderOldLock     = "X-WOPI-OldLock"
	HeaderItemVersion = "X-WOPI-ItemVersion"
)

// X-WOPI-Override operation names.
const (
	OverrideLock        = "LOCK"
	OverrideGetLock     = "GET_LOCK"
	OverrideRefreshLock = "REFRESH_LOCK"
	OverrideUnlock      = "UNLOCK"
	OverridePut         = "PUT"
	OverrideDelete      = "DELETE"
)

// maxContentSize bounds PutFile bodies (128 MiB).
const maxContentSize = 128 << 20

// checkFileInfoResponse is the metadata document editors request before
// opening a session. Field names follow the protocol and must not change.
type checkFileInfoResponse struct {
	BaseFileName            string `json:"BaseFileName"`
	Size                    int64  `json:"Size"`
	Version                 string `json:"Version"`
	OwnerID                 string `json:"OwnerId"`
	UserID                  string `json:"UserId"`
	UserFriendlyName        string `json:"UserFriendlyName"`
	LastModifiedTime        string `json:"LastModifiedTime"`
	SupportsLocks           bool   `json:"SupportsLocks"`
	SupportsGetLock         bool   `json:"SupportsGetLock"`
	SupportsUpdate          bool   `json:"SupportsUpdate"`
	SupportsDeleteFile      bool   `json:"SupportsDeleteFile"`
	UserCanWrite            bool   `json:"UserCanWrite"`
	UserCanNotWriteRelative bool   `json:"UserCanNotWriteRelative"`
	ReadOnly                bool   `json:"ReadOnly"`
}

// WopiHandler handles the protocol endpoints for a single file.
type WopiHandler struct {
	files  filesUseCase.FileUseCase
	locks  locksUseCase.LockUseCase
	engine authUseCase.AuthorizationEngine
	logger *slog.Logger
}

// NewWopiHandler creates a protocol handler with required dependencies.
func NewWopiHandler(
	files filesUseCase.FileUseCase,
	locks locksUseCase.LockUseCase,
	engine authUseCase.AuthorizationEngine,
	logger *slog.Logger,
) *WopiHandler {
	return &WopiHandler{
		files:  files,
		locks:  locks,
		engine: engine,
		logger: logger,
	}
}

// handleLockConflict answers a lock conflict with 409 and the current lock
// id echoed in the X-WOPI-Lock header. Returns false when err is not a lock
// conflict.
func (h *WopiHandler) handleLockConflict(c *gin.Context, err error) bool {
	var conflict *locksDomain.ConflictError
	if !errors.As(err, &conflict) {
		return false
	}

	c.Header(HeaderLock, conflict.CurrentLockID)
	c.Status(http.StatusConflict)
	return true
}

// CheckFileInfoHandler returns file metadata and session capabilities.
// GET /wopi/files/:id
func (h *WopiHandler) CheckFileInfoHandler(c *gin.Context) {
	fileID := c.Param("id")

	info, err := h.files.GetInfo(c.Request.Context(), fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	principal, _ := authHTTP.GetPrincipal(c.Request.Context())
	canWrite := h.engine.IsAuthorized(principal, authDomain.PermissionUpdate)

	response := checkFileInfoResponse{
		BaseFileName:            info.Name,
		Size:                    info.Size,
		Version:                 info.Version(),
		OwnerID:                 "wopihost",
		UserFriendlyName:        "wopihost user",
		LastModifiedTime:        info.LastModified.Format(time.RFC3339Nano),
		SupportsLocks:           true,
		SupportsGetLock:         true,
		SupportsUpdate:          true,
		SupportsDeleteFile:      true,
		UserCanWrite:            canWrite,
		UserCanNotWriteRelative: true,
		ReadOnly:                !canWrite,
	}
	if principal != nil {
		response.UserID = principal.UserID
		response.UserFriendlyName = principal.UserID
	}

	c.JSON(http.StatusOK, response)
}

// GetFileHandler streams the file content.
// GET /wopi/files/:id/contents
func (h *WopiHandler) GetFileHandler(c *gin.Context) {
	fileID := c.Param("id")

	content, info, err := h.files.Read(c.Request.Context(), fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer content.Close()

	c.Header(HeaderItemVersion, info.Version())
	c.DataFromReader(http.StatusOK, info.Size, "application/octet-stream", content, nil)
}

// PutFileHandler replaces the file content. The write is rejected with 409
// when the file is locked and the X-WOPI-Lock header does not match.
// POST /wopi/files/:id/contents
func (h *WopiHandler) PutFileHandler(c *gin.Context) {
	fileID := c.Param("id")
	lockID := c.GetHeader(HeaderLock)

	body := io.LimitReader(c.Request.Body, maxContentSize)
	info, err := h.files.Write(c.Request.Context(), fileID, lockID, body)
	if err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header(HeaderItemVersion, info.Version())
	c.Status(http.StatusOK)
}

// FileOperationHandler dispatches the lock and file management operations
// multiplexed onto POST /wopi/files/:id via the X-WOPI-Override header.
func (h *WopiHandler) FileOperationHandler(c *gin.Context) {
	fileID := c.Param("id")

	// Lock operations address a file that must exist; checking up front
	// keeps 404 ahead of 409 in the response order.
	if _, err := h.files.GetInfo(c.Request.Context(), fileID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	override := c.GetHeader(HeaderOverride)
	switch override {
	case OverrideLock:
		if oldLockID := c.GetHeader(HeaderOldLock); oldLockID != "" {
			h.unlockAndRelock(c, fileID, oldLockID)
			return
		}
		h.lock(c, fileID)
	case OverrideGetLock:
		h.getLock(c, fileID)
	case OverrideRefreshLock:
		h.refreshLock(c, fileID)
	case OverrideUnlock:
		h.unlock(c, fileID)
	case OverrideDelete:
		h.deleteFile(c, fileID)
	default:
		h.logger.Debug("unsupported override operation",
			slog.String("file_id", fileID),
			slog.String("override", override))
		httputil.HandleBadRequestGin(c, errors.New("unsupported operation"), h.logger)
	}
}

func (h *WopiHandler) lock(c *gin.Context, fileID string) {
	lockID := c.GetHeader(HeaderLock)
	if lockID == "" {
		httputil.HandleBadRequestGin(c, errors.New("missing lock identifier"), h.logger)
		return
	}

	if _, err := h.locks.AddLock(c.Request.Context(), fileID, lockID); err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

func (h *WopiHandler) unlockAndRelock(c *gin.Context, fileID, oldLockID string) {
	lockID := c.GetHeader(HeaderLock)
	if lockID == "" {
		httputil.HandleBadRequestGin(c, errors.New("missing lock identifier"), h.logger)
		return
	}

	if _, err := h.locks.RefreshLock(c.Request.Context(), fileID, oldLockID, lockID); err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

func (h *WopiHandler) getLock(c *gin.Context, fileID string) {
	record, err := h.locks.TryGetLock(c.Request.Context(), fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// An unlocked file answers 200 with an empty lock header.
	if record == nil {
		c.Header(HeaderLock, "")
		c.Status(http.StatusOK)
		return
	}

	c.Header(HeaderLock, record.LockID)
	c.Status(http.StatusOK)
}

func (h *WopiHandler) refreshLock(c *gin.Context, fileID string) {
	lockID := c.GetHeader(HeaderLock)
	if lockID == "" {
		httputil.HandleBadRequestGin(c, errors.New("missing lock identifier"), h.logger)
		return
	}

	if _, err := h.locks.RefreshLock(c.Request.Context(), fileID, lockID, ""); err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

func (h *WopiHandler) unlock(c *gin.Context, fileID string) {
	lockID := c.GetHeader(HeaderLock)
	if lockID == "" {
		httputil.HandleBadRequestGin(c, errors.New("missing lock identifier"), h.logger)
		return
	}

	if err := h.locks.Unlock(c.Request.Context(), fileID, lockID); err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

func (h *WopiHandler) deleteFile(c *gin.Context, fileID string) {
	principal, _ := authHTTP.GetPrincipal(c.Request.Context())
	if !h.engine.IsAuthorized(principal, authDomain.PermissionDelete) {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	if err := h.files.Delete(c.Request.Context(), fileID, c.GetHeader(HeaderLock)); err != nil {
		if h.handleLockConflict(c, err) {
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}
