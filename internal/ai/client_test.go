package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnalyzeSymptoms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "I am experiencing: headache" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Rest and hydrate.  "}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := client.AnalyzeSymptoms(context.Background(), "headache")
	if err != nil {
		t.Fatalf("AnalyzeSymptoms: %v", err)
	}
	if got != "Rest and hydrate." {
		t.Fatalf("analysis = %q", got)
	}
}

func TestAnalyzeSymptoms_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.AnalyzeSymptoms(context.Background(), "headache"); err == nil {
		t.Fatal("expected an error on non-200 response")
	}
}

func TestAnalyzeSymptoms_NotConfigured(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.AnalyzeSymptoms(context.Background(), "headache")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
