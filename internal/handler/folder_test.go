package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jun/noteful/internal/handler"
	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store/dynamo"
)

const missingID = "00000000-0000-0000-0000-000000000999"

func newFolderHandler() (*handler.FolderHandler, *dynamo.Store) {
	s := dynamo.NewStore(nil)
	return handler.NewFolderHandler(s, testJWTSecret), s
}

func createFolder(t *testing.T, h *handler.FolderHandler, name string) model.Folder {
	t.Helper()
	resp, err := h.CreateFolder(context.Background(), makeRequest("POST", "/folders", `{"name":"`+name+`"}`))
	if err != nil {
		t.Fatalf("CreateFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 Created, got %d: %s", resp.StatusCode, resp.Body)
	}
	var folder model.Folder
	if err := json.Unmarshal([]byte(resp.Body), &folder); err != nil {
		t.Fatalf("Failed to unmarshal created folder: %v", err)
	}
	return folder
}

func TestFolderHandler_CreateAndList(t *testing.T) {
	h, _ := newFolderHandler()
	ctx := context.Background()

	req := makeRequest("POST", "/folders", `{"name":"Work"}`)
	resp, err := h.CreateFolder(ctx, req)
	if err != nil {
		t.Fatalf("CreateFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 Created, got %d: %s", resp.StatusCode, resp.Body)
	}
	if loc := resp.Headers["Location"]; loc == "" {
		t.Error("Expected Location header on create")
	}

	var created model.Folder
	json.Unmarshal([]byte(resp.Body), &created)
	if created.Name != "Work" {
		t.Errorf("Expected name 'Work', got '%s'", created.Name)
	}
	if created.ID == "" {
		t.Error("Expected non-empty ID")
	}

	listResp, err := h.ListFolders(ctx, makeRequest("GET", "/folders", ""))
	if err != nil {
		t.Fatalf("ListFolders returned error: %v", err)
	}
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", listResp.StatusCode)
	}

	var folders []model.Folder
	json.Unmarshal([]byte(listResp.Body), &folders)
	if len(folders) != 1 {
		t.Fatalf("Expected 1 folder, got %d", len(folders))
	}
	if folders[0].ID != created.ID {
		t.Errorf("Folder ID mismatch: got %s, want %s", folders[0].ID, created.ID)
	}
}

func TestFolderHandler_CreateMissingName(t *testing.T) {
	h, _ := newFolderHandler()

	resp, err := h.CreateFolder(context.Background(), makeRequest("POST", "/folders", `{}`))
	if err != nil {
		t.Fatalf("CreateFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", resp.StatusCode, resp.Body)
	}

	var body map[string]string
	json.Unmarshal([]byte(resp.Body), &body)
	if body["message"] != "Missing `name` in request body" {
		t.Errorf("Unexpected message: %q", body["message"])
	}
}

func TestFolderHandler_InvalidID(t *testing.T) {
	h, _ := newFolderHandler()

	req := makeRequest("GET", "/folders/not-a-uuid", "")
	req.PathParameters["id"] = "not-a-uuid"
	resp, err := h.GetFolder(context.Background(), req)
	if err != nil {
		t.Fatalf("GetFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", resp.StatusCode, resp.Body)
	}

	var body map[string]string
	json.Unmarshal([]byte(resp.Body), &body)
	if body["message"] != "The `id` is not valid" {
		t.Errorf("Unexpected message: %q", body["message"])
	}
}

func TestFolderHandler_NotFoundHasEmptyBody(t *testing.T) {
	h, _ := newFolderHandler()

	req := makeRequest("GET", "/folders/"+missingID, "")
	req.PathParameters["id"] = missingID
	resp, err := h.GetFolder(context.Background(), req)
	if err != nil {
		t.Fatalf("GetFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", resp.StatusCode, resp.Body)
	}
	if resp.Body != "" {
		t.Errorf("Expected empty body on 404, got %q", resp.Body)
	}
}

func TestFolderHandler_Update(t *testing.T) {
	h, _ := newFolderHandler()
	ctx := context.Background()
	created := createFolder(t, h, "Before")

	req := makeRequest("PUT", "/folders/"+created.ID, `{"name":"After"}`)
	req.PathParameters["id"] = created.ID
	resp, err := h.UpdateFolder(ctx, req)
	if err != nil {
		t.Fatalf("UpdateFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}

	var updated model.Folder
	json.Unmarshal([]byte(resp.Body), &updated)
	if updated.Name != "After" {
		t.Errorf("Expected name 'After', got '%s'", updated.Name)
	}
	if updated.ID != created.ID {
		t.Errorf("Expected ID unchanged, got '%s'", updated.ID)
	}
}

func TestFolderHandler_UpdateMissing(t *testing.T) {
	h, _ := newFolderHandler()

	req := makeRequest("PUT", "/folders/"+missingID, `{"name":"Ghost"}`)
	req.PathParameters["id"] = missingID
	resp, err := h.UpdateFolder(context.Background(), req)
	if err != nil {
		t.Fatalf("UpdateFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", resp.StatusCode, resp.Body)
	}

	// No upsert: the folder must not have come into existence.
	listResp, _ := h.ListFolders(context.Background(), makeRequest("GET", "/folders", ""))
	var folders []model.Folder
	json.Unmarshal([]byte(listResp.Body), &folders)
	if len(folders) != 0 {
		t.Errorf("Expected no folders after failed update, got %d", len(folders))
	}
}

func TestFolderHandler_Delete(t *testing.T) {
	h, _ := newFolderHandler()
	ctx := context.Background()
	created := createFolder(t, h, "Doomed")

	req := makeRequest("DELETE", "/folders/"+created.ID, "")
	req.PathParameters["id"] = created.ID
	resp, err := h.DeleteFolder(ctx, req)
	if err != nil {
		t.Fatalf("DeleteFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", resp.StatusCode, resp.Body)
	}

	// Second delete is a 404, not an idempotent 204.
	resp2, _ := h.DeleteFolder(ctx, req)
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 on repeated delete, got %d", resp2.StatusCode)
	}
}

func TestFolderHandler_CrossTenant(t *testing.T) {
	h, _ := newFolderHandler()
	ctx := context.Background()
	created := createFolder(t, h, "Private")

	req := makeRequestAs(otherUserID, "GET", "/folders/"+created.ID, "")
	req.PathParameters["id"] = created.ID
	resp, err := h.GetFolder(ctx, req)
	if err != nil {
		t.Fatalf("GetFolder returned error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 for foreign folder, got %d: %s", resp.StatusCode, resp.Body)
	}

	del := makeRequestAs(otherUserID, "DELETE", "/folders/"+created.ID, "")
	del.PathParameters["id"] = created.ID
	delResp, _ := h.DeleteFolder(ctx, del)
	if delResp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for foreign delete, got %d", delResp.StatusCode)
	}
}

func TestFolderHandler_Unauthorized(t *testing.T) {
	h, _ := newFolderHandler()

	req := events.APIGatewayProxyRequest{
		HTTPMethod: "GET",
		Path:       "/folders",
		Headers:    map[string]string{},
	}
	resp, err := h.ListFolders(context.Background(), req)
	if err != nil {
		t.Fatalf("ListFolders returned error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", resp.StatusCode, resp.Body)
	}
}
