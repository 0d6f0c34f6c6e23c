package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/jun/noteful/internal/auth"
	"github.com/jun/noteful/internal/store"
	"github.com/jun/noteful/internal/validate"
)

// Registration policy. The password bounds exist because bcrypt truncates
// at 72 bytes; the username floor rejects the empty string.
var userSpecs = []validate.Spec{
	{Field: "username", Required: true, Trimmed: true, MinLength: 1},
	{Field: "password", Required: true, Trimmed: true, MinLength: 8, MaxLength: 72},
	{Field: "fullname"},
}

// UserHandler handles user registration. Registration is the one
// unauthenticated write in the API.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// Register creates a new user. Field failures are 422 with the validator's
// message; a taken username is a 400 conflict. Only the bcrypt hash is
// persisted and the response never echoes the password.
func (h *UserHandler) Register(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body map[string]any
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}

	for _, spec := range userSpecs {
		if verr := validate.Field(body, spec); verr != nil {
			return errorResponse(http.StatusUnprocessableEntity, verr.Message), nil
		}
	}

	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	fullname, _ := body["fullname"].(string)
	fullname = strings.TrimSpace(fullname)

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("hash password")
		return internalError(), nil
	}

	user, err := h.store.CreateUser(ctx, username, fullname, hash)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return errorResponse(http.StatusBadRequest, msgDuplicateUser), nil
		}
		log.Error().Err(err).Msg("create user")
		return internalError(), nil
	}
	return createdResponse(req.Path+"/"+user.ID, user), nil
}
