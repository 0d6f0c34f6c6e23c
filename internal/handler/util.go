package handler

import (
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller, extracted from the session token.
type Identity struct {
	UserID   string
	Username string
}

// GetIdentity extracts and verifies the session token from the
// Authorization header or the auth_token cookie.
func GetIdentity(req events.APIGatewayProxyRequest, jwtSecret string) (Identity, error) {
	// Helper for case-insensitive header lookup
	getHeader := func(name string) string {
		for k, v := range req.Headers {
			if strings.EqualFold(k, name) {
				return v
			}
		}
		return ""
	}

	tokenString := ""
	authHeader := getHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString == "" {
		cookies := getHeader("Cookie")
		for _, part := range strings.Split(cookies, ";") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "auth_token=") {
				tokenString = strings.TrimPrefix(part, "auth_token=")
				break
			}
		}
	}

	if tokenString == "" {
		return Identity{}, fmt.Errorf("no authorization token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	id := Identity{UserID: sub}
	if username, ok := claims["username"].(string); ok {
		id.Username = username
	}
	return id, nil
}

// GetUserID returns just the owner identifier for the request.
func GetUserID(req events.APIGatewayProxyRequest, jwtSecret string) (string, error) {
	identity, err := GetIdentity(req, jwtSecret)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}
