package auth_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jun/noteful/internal/auth"
	"github.com/jun/noteful/internal/model"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("Expected hash to differ from plaintext")
	}
	if !auth.VerifyPassword(hash, "hunter2hunter2") {
		t.Error("Expected correct password to verify")
	}
	if auth.VerifyPassword(hash, "wrong-password") {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestIssueToken(t *testing.T) {
	user := &model.User{ID: "user-1", Username: "alice"}
	signed, err := auth.IssueToken("secret", user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("Failed to parse issued token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "user-1" {
		t.Errorf("Expected sub 'user-1', got %v", claims["sub"])
	}
	if claims["username"] != "alice" {
		t.Errorf("Expected username 'alice', got %v", claims["username"])
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Error("Expected numeric exp claim")
	}
}

func TestIssueToken_RejectsWrongSecret(t *testing.T) {
	signed, _ := auth.IssueToken("secret", &model.User{ID: "user-1"})
	_, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	if err == nil {
		t.Error("Expected verification with the wrong secret to fail")
	}
}
