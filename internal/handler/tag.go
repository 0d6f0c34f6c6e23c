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

// TagHandler handles CRUD operations for tags. It mirrors FolderHandler
// with one extra failure mode: tag names are unique per owner, so creates
// and renames can hit a conflict.
type TagHandler struct {
	store     store.Store
	jwtSecret string
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(s store.Store, jwtSecret string) *TagHandler {
	return &TagHandler{store: s, jwtSecret: jwtSecret}
}

// ListTags returns the caller's tags in name order.
func (h *TagHandler) ListTags(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	tags, err := h.store.ListTags(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("list tags")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, tags), nil
}

// GetTag retrieves a single tag by id.
func (h *TagHandler) GetTag(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	tag, err := h.store.GetTag(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get tag")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, tag), nil
}

// CreateTag creates a new tag.
func (h *TagHandler) CreateTag(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
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

	tag, err := h.store.CreateTag(ctx, ownerID, payload.Name)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return errorResponse(http.StatusBadRequest, msgDuplicateTag), nil
		}
		log.Error().Err(err).Msg("create tag")
		return internalError(), nil
	}
	return createdResponse(req.Path+"/"+tag.ID, tag), nil
}

// UpdateTag renames a tag.
func (h *TagHandler) UpdateTag(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
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

	tag, err := h.store.UpdateTag(ctx, id, ownerID, payload.Name)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return errorResponse(http.StatusBadRequest, msgDuplicateTag), nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("update tag")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, tag), nil
}

// DeleteTag removes a tag and pulls it from every note that carries it.
// Detach-before-delete, same contract as folder deletion.
func (h *TagHandler) DeleteTag(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	if _, err := h.store.GetTag(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get tag for delete")
		return internalError(), nil
	}

	if err := h.store.DetachTag(ctx, id, ownerID); err != nil {
		log.Error().Err(err).Str("id", id).Msg("detach tag from notes")
		return internalError(), nil
	}

	if err := h.store.DeleteTag(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("delete tag")
		return internalError(), nil
	}
	return noContent(), nil
}
