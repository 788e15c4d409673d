package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		Owner:   "atelier-studio",
		Repo:    "registry",
		Path:    "registry.json",
		Branch:  "main",
		Token:   "test-token",
	}, zerolog.Nop())
}

func TestFetchDocument(t *testing.T) {
	doc := domain.Document{
		Users:    []domain.User{{ID: 1, Username: "admin", Role: domain.RoleAdmin}},
		Products: []domain.Product{{ID: 1, Name: "Oak board", Stock: 5}},
		Metadata: domain.Metadata{Version: "1.0"},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/repos/atelier-studio/registry/contents/registry.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("expected ref=main, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		// The contents API wraps stored content in newlines.
		_ = json.NewEncoder(w).Encode(map[string]string{
			"content": EncodeContent(raw)[:10] + "\n" + EncodeContent(raw)[10:],
			"sha":     "abc123",
		})
	})

	got, token, err := client.FetchDocument(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("expected sha abc123, got %q", token)
	}
	if len(got.Users) != 1 || got.Users[0].Username != "admin" {
		t.Fatalf("unexpected users: %+v", got.Users)
	}
	if len(got.Products) != 1 || got.Products[0].Name != "Oak board" {
		t.Fatalf("unexpected products: %+v", got.Products)
	}
}

func TestFetchDocument_RemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.FetchDocument(context.Background())
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestWriteDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var req struct {
			Message string `json:"message"`
			Content string `json:"content"`
			SHA     string `json:"sha"`
			Branch  string `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SHA != "old-sha" {
			t.Errorf("expected sha old-sha, got %q", req.SHA)
		}
		if req.Branch != "main" {
			t.Errorf("expected branch main, got %q", req.Branch)
		}
		if req.Message != "Update quotes" {
			t.Errorf("unexpected message %q", req.Message)
		}
		raw, err := DecodeContent(req.Content)
		if err != nil {
			t.Fatalf("decode content: %v", err)
		}
		var doc domain.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("content is not a registry document: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]string{"sha": "new-sha"},
		})
	})

	token, err := client.WriteDocument(context.Background(), &domain.Document{
		Quotes: []domain.Quote{{ID: 1, Text: "q", Author: "a"}},
	}, "old-sha", "Update quotes")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if token != "new-sha" {
		t.Fatalf("expected new-sha, got %q", token)
	}
}

func TestWriteDocument_Conflict(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.WriteDocument(context.Background(), &domain.Document{}, "stale", "msg")
		if !errors.Is(err, domain.ErrVersionConflict) {
			t.Fatalf("status %d: expected ErrVersionConflict, got %v", status, err)
		}
	}
}

func TestWriteDocument_RemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.WriteDocument(context.Background(), &domain.Document{}, "sha", "msg")
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestDecodeContent_StripsWhitespace(t *testing.T) {
	encoded := EncodeContent([]byte(`{"atelier":"Gürtelstraße"}`))
	wrapped := encoded[:8] + "\n " + encoded[8:] + "\r\n"

	raw, err := DecodeContent(wrapped)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw) != `{"atelier":"Gürtelstraße"}` {
		t.Fatalf("round trip mismatch: %q", raw)
	}
}

func TestDecodeContent_Invalid(t *testing.T) {
	if _, err := DecodeContent("%%% not base64 %%%"); err == nil {
		t.Fatal("expected error for invalid content")
	}
}
