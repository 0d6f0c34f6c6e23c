package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jun/noteful/internal/app"
)

func request(method, path, body string, headers map[string]string) events.APIGatewayProxyRequest {
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Body:       body,
		Headers:    headers,
	}
}

// Full round trip through the router: register, log in, then CRUD a folder
// with the issued token.
func TestApp_RegisterLoginAndUseToken(t *testing.T) {
	t.Setenv("DEV_MODE", "true")
	t.Setenv("JWT_SECRET", "test-secret")

	a := app.NewApp(context.Background())
	ctx := context.Background()

	resp, err := a.HandleRequest(ctx, request("POST", "/users", `{"username":"alice","password":"hunter2hunter2"}`, nil))
	if err != nil {
		t.Fatalf("HandleRequest returned error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Register: expected 201, got %d: %s", resp.StatusCode, resp.Body)
	}

	resp, _ = a.HandleRequest(ctx, request("POST", "/login", `{"username":"alice","password":"hunter2hunter2"}`, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login: expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	var login map[string]string
	json.Unmarshal([]byte(resp.Body), &login)
	authHeaders := map[string]string{"Authorization": "Bearer " + login["authToken"]}

	resp, _ = a.HandleRequest(ctx, request("POST", "/folders", `{"name":"Work"}`, authHeaders))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("CreateFolder: expected 201, got %d: %s", resp.StatusCode, resp.Body)
	}
	var folder struct {
		ID string `json:"id"`
	}
	json.Unmarshal([]byte(resp.Body), &folder)

	// Path parameter extraction
	resp, _ = a.HandleRequest(ctx, request("GET", "/folders/"+folder.ID, "", authHeaders))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GetFolder: expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}

	// The /api prefix is stripped before routing
	resp, _ = a.HandleRequest(ctx, request("GET", "/api/folders/"+folder.ID, "", authHeaders))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GetFolder via /api: expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}

	resp, _ = a.HandleRequest(ctx, request("DELETE", "/folders/"+folder.ID, "", authHeaders))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DeleteFolder: expected 204, got %d: %s", resp.StatusCode, resp.Body)
	}
}

func TestApp_RenderRoute(t *testing.T) {
	t.Setenv("DEV_MODE", "true")
	t.Setenv("JWT_SECRET", "test-secret")

	a := app.NewApp(context.Background())
	ctx := context.Background()

	a.HandleRequest(ctx, request("POST", "/users", `{"username":"bob","password":"hunter2hunter2"}`, nil))
	resp, _ := a.HandleRequest(ctx, request("POST", "/login", `{"username":"bob","password":"hunter2hunter2"}`, nil))
	var login map[string]string
	json.Unmarshal([]byte(resp.Body), &login)
	authHeaders := map[string]string{"Authorization": "Bearer " + login["authToken"]}

	resp, _ = a.HandleRequest(ctx, request("POST", "/notes", `{"title":"doc","content":"# Hi"}`, authHeaders))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("CreateNote: expected 201, got %d: %s", resp.StatusCode, resp.Body)
	}
	var note struct {
		ID string `json:"id"`
	}
	json.Unmarshal([]byte(resp.Body), &note)

	resp, err := a.HandleRequest(ctx, request("GET", "/notes/"+note.ID+"/render", "", authHeaders))
	if err != nil {
		t.Fatalf("HandleRequest returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Render: expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if ct := resp.Headers["Content-Type"]; ct != "text/html; charset=utf-8" {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
}

func TestApp_CORSPreflight(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	a := app.NewApp(context.Background())

	resp, err := a.HandleRequest(context.Background(), request("OPTIONS", "/folders", "", nil))
	if err != nil {
		t.Fatalf("HandleRequest returned error: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected 204 for preflight, got %d", resp.StatusCode)
	}
	if resp.Headers["Access-Control-Allow-Methods"] == "" {
		t.Error("Expected CORS headers on preflight response")
	}
}

func TestApp_UnknownRoute(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	a := app.NewApp(context.Background())

	resp, _ := a.HandleRequest(context.Background(), request("GET", "/nope", "", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", resp.StatusCode)
	}
}

func TestApp_ProtectedRouteWithoutToken(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	a := app.NewApp(context.Background())

	resp, _ := a.HandleRequest(context.Background(), request("GET", "/notes", "", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}
}
