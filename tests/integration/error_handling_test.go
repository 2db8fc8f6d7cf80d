//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestUnauthorizedAccess(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/users/me", baseURL), "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if errResp["error"] == nil {
		t.Fatal("error field is missing")
	}
}

func TestInvalidToken(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/users/me", baseURL), "invalid.token.here", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMalformedRegisterPayload(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	resp, err := http.Post(fmt.Sprintf("%s/v1/auth/register", baseURL), "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUnknownTestStart(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	resp, err := http.Get(fmt.Sprintf("%s/v1/tests/00000000-0000-0000-0000-000000000000/start", baseURL))
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSubmitWithoutAuth(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	body, _ := json.Marshal(map[string]interface{}{"answers": []interface{}{}})
	resp, err := http.Post(fmt.Sprintf("%s/v1/tests/00000000-0000-0000-0000-000000000000/submit", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())

	_ = createRegisteredUser(t, baseURL, email, "testpassword123")

	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "testpassword123",
		"name":     "Duplicate",
	})
	resp, err := http.Post(fmt.Sprintf("%s/v1/auth/register", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
}
