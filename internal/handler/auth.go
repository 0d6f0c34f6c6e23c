package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/jun/noteful/internal/auth"
	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store"
)

// AuthHandler issues session tokens: login against stored credentials and
// refresh for callers holding a still-valid token.
type AuthHandler struct {
	store     store.Store
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s store.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: s, jwtSecret: jwtSecret}
}

// Login verifies a username/password pair and returns a signed session
// token. Unknown usernames and wrong passwords get the same answer.
func (h *AuthHandler) Login(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(http.StatusBadRequest, msgInvalidBody), nil
	}
	if payload.Username == "" || payload.Password == "" {
		return errorResponse(http.StatusBadRequest, "Missing credentials in request body"), nil
	}

	user, err := h.store.GetUserByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errorResponse(http.StatusUnauthorized, "Incorrect username or password"), nil
		}
		log.Error().Err(err).Msg("look up user for login")
		return internalError(), nil
	}

	if !auth.VerifyPassword(user.PasswordHash, payload.Password) {
		return errorResponse(http.StatusUnauthorized, "Incorrect username or password"), nil
	}

	token, err := auth.IssueToken(h.jwtSecret, user)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, map[string]string{"authToken": token}), nil
}

// Refresh issues a fresh token for a caller whose current token still
// verifies, resetting the expiry window.
func (h *AuthHandler) Refresh(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	identity, err := GetIdentity(req, h.jwtSecret)
	if err != nil {
		return unauthorized(), nil
	}

	token, err := auth.IssueToken(h.jwtSecret, &model.User{
		ID:       identity.UserID,
		Username: identity.Username,
	})
	if err != nil {
		log.Error().Err(err).Msg("sign refreshed token")
		return internalError(), nil
	}
	return jsonResponse(http.StatusOK, map[string]string{"authToken": token}), nil
}
