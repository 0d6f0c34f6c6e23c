package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/jun/noteful/internal/render"
	"github.com/jun/noteful/internal/store"
)

// NoteHandler handles CRUD operations for notes plus search and the HTML
// preview.
type NoteHandler struct {
	store     store.Store
	renderer  *render.Renderer
	jwtSecret string
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(s store.Store, r *render.Renderer, jwtSecret string) *NoteHandler {
	return &NoteHandler{store: s, renderer: r, jwtSecret: jwtSecret}
}

type notePayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID string   `json:"folderId"`
	Tags     []string `json:"tags"`
}

// checkPayload validates the writable fields shared by create and update.
// Reference ids are shape-checked before any store access.
func (h *NoteHandler) checkPayload(p notePayload) (events.APIGatewayProxyResponse, bool) {
	if p.Title == "" {
		return errorResponse(http.StatusBadRequest, msgMissingTitle), false
	}
	if p.FolderID != "" && !h.store.IsValidID(p.FolderID) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), false
	}
	for _, tagID := range p.Tags {
		if !h.store.IsValidID(tagID) {
			return errorResponse(http.StatusBadRequest, msgInvalidID), false
		}
	}
	return events.APIGatewayProxyResponse{}, true
}

// ListNotes returns the caller's notes in creation order, tags populated.
// searchTerm (case-insensitive title substring), folderId and tagId query
// parameters combine with AND semantics.
func (h *NoteHandler) ListNotes(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	filter := store.NoteFilter{
		SearchTerm: req.QueryStringParameters["searchTerm"],
		FolderID:   req.QueryStringParameters["folderId"],
		TagID:      req.QueryStringParameters["tagId"],
	}

	notes, err := h.store.ListNotes(ctx, ownerID, filter)
	if err != nil {
		log.Error().Err(err).Msg("list notes")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, notes), nil
}

// GetNote retrieves a single note with its tags populated.
func (h *NoteHandler) GetNote(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	note, err := h.store.GetNote(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get note")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, note), nil
}

// CreateNote creates a new note.
func (h *NoteHandler) CreateNote(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	var payload notePayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}
	if resp, ok := h.checkPayload(payload); !ok {
		return resp, nil
	}

	note, err := h.store.CreateNote(ctx, ownerID, store.NoteChange{
		Title:    payload.Title,
		Content:  payload.Content,
		FolderID: payload.FolderID,
		TagIDs:   payload.Tags,
	})
	if err != nil {
		log.Error().Err(err).Msg("create note")
		return internalError(), nil
	}
	return createdResponse(req.Path+"/"+note.ID, note), nil
}

// UpdateNote replaces a note's writable fields and returns the updated
// document. No upsert: a miss on the id+owner filter is a 404.
func (h *NoteHandler) UpdateNote(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	var payload notePayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}
	if resp, ok := h.checkPayload(payload); !ok {
		return resp, nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	note, err := h.store.UpdateNote(ctx, id, ownerID, store.NoteChange{
		Title:    payload.Title,
		Content:  payload.Content,
		FolderID: payload.FolderID,
		TagIDs:   payload.Tags,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("update note")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, note), nil
}

// DeleteNote deletes a note.
func (h *NoteHandler) DeleteNote(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	if err := h.store.DeleteNote(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("delete note")
		return internalError(), nil
	}
	return noContent(), nil
}

// RenderNote returns the note content rendered as HTML.
func (h *NoteHandler) RenderNote(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID, err := GetUserID(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	id := req.PathParameters["id"]
	if !h.store.IsValidID(id) {
		return errorResponse(http.StatusBadRequest, msgInvalidID), nil
	}

	note, err := h.store.GetNote(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(), nil
		}
		log.Error().Err(err).Str("id", id).Msg("get note for render")
		return internalError(), nil
	}

	html, err := h.renderer.Render([]byte(note.Content))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("render note")
		return internalError(), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(html),
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}, nil
}
