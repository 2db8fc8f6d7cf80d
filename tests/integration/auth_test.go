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

func TestRegisterFlow(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	password := "testpassword123"

	user := createRegisteredUser(t, baseURL, email, password)

	if user.ID == "" {
		t.Fatal("user ID is empty")
	}
	if user.AccessToken == "" {
		t.Fatal("access token is empty")
	}
	if user.RefreshToken == "" {
		t.Fatal("refresh token is empty")
	}
}

func TestLoginFlow(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	password := "testpassword123"

	_ = createRegisteredUser(t, baseURL, email, password)

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(fmt.Sprintf("%s/v1/auth/login", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("empty access token in login response")
	}
}

func TestRefreshFlow(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())

	user := createRegisteredUser(t, baseURL, email, "testpassword123")

	body, _ := json.Marshal(map[string]string{"refresh_token": user.RefreshToken})
	resp, err := http.Post(fmt.Sprintf("%s/v1/auth/refresh", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("refresh request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected refresh status: %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode refresh response failed: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("empty access token after refresh")
	}
}

func TestGetProfile(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())

	user := createRegisteredUser(t, baseURL, email, "testpassword123")

	resp := makeAuthenticatedRequest(t, "GET", fmt.Sprintf("%s/v1/users/me", baseURL), user.AccessToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected profile status: %d", resp.StatusCode)
	}

	var profile struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		SolvedStats struct {
			Easy   int `json:"easy"`
			Medium int `json:"medium"`
			Hard   int `json:"hard"`
			Total  int `json:"total"`
		} `json:"solvedStats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile failed: %v", err)
	}

	if profile.ID != user.ID {
		t.Fatalf("profile id mismatch: expected %s, got %s", user.ID, profile.ID)
	}
	if profile.Email != email {
		t.Fatalf("profile email mismatch: expected %s, got %s", email, profile.Email)
	}
	if profile.SolvedStats.Total != 0 {
		t.Fatalf("fresh account should have zero solved, got %d", profile.SolvedStats.Total)
	}
}
