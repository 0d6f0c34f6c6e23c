package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/jun/noteful/internal/store"
)

// FolderHandler handles CRUD operations for folders. Every store call is
// scoped to the authenticated owner; the folder id alone is never enough.
type FolderHandler struct {
	store     store.Store
	jwtSecret string
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(s store.Store, jwtSecret string) *FolderHandler {
	return &FolderHandler{store: s, jwtSecret: jwtSecret}
}

// ListFolders returns the caller's folders in name order.
func (h *FolderHandler) ListFolders(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	folders, err := h.store.ListFolders(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("list folders")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, folders), nil
}

// GetFolder retrieves a single folder by id.
func (h *FolderHandler) GetFolder(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	folder, err := h.store.GetFolder(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get folder")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, folder), nil
}

// CreateFolder creates a new folder.
func (h *FolderHandler) CreateFolder(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}
	if payload.Name == "" {
		return errorResponse(http.StatusBadRequest, msgMissingName), nil
	}

	folder, err := h.store.CreateFolder(ctx, ownerID, payload.Name)
	if err != nil {
		log.Error().Err(err).Msg("create folder")
		return internalError(), nil
	}
	return createdResponse(req.Path+"/"+folder.ID, folder), nil
}

// UpdateFolder replaces a folder's name. The updated document is returned
// in full; a miss on the id+owner filter is a 404, never an upsert.
func (h *FolderHandler) UpdateFolder(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}
	if payload.Name == "" {
		return errorResponse(http.StatusBadRequest, msgMissingName), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	folder, err := h.store.UpdateFolder(ctx, id, ownerID, payload.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("update folder")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, folder), nil
}

// DeleteFolder removes a folder and detaches it from any note referencing
// it. The detach runs before the delete and a failure in either aborts the
// request, so success is never reported for a half-finished cascade.
func (h *FolderHandler) DeleteFolder(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	if _, err := h.store.GetFolder(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get folder for delete")
		return internalError(), nil
	}

	if err := h.store.DetachFolder(ctx, id, ownerID); err != nil {
		log.Error().Err(err).Str("id", id).Msg("detach folder from notes")
		return internalError(), nil
	}

	if err := h.store.DeleteFolder(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("delete folder")
		return internalError(), nil
	}
	return noContent(), nil
}
