package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptarena/arena/internal/domain"
)

func TestAnthropicResponse_JoinedText(t *testing.T) {
	resp := anthropicResponse{
		Content: []anthropicContentBlock{
			{Type: "text", Text: "Hello, "},
			{Type: "tool_use"},
			{Type: "text", Text: "world!"},
		},
	}

	if got := resp.JoinedText(); got != "Hello, world!" {
		t.Errorf("JoinedText() = %q, want %q", got, "Hello, world!")
	}
}

func TestAnthropicAdapter_Complete(t *testing.T) {
	var gotKey, gotVersion string
	var gotReq anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := anthropicResponse{
			Model:      "claude-3-5-sonnet-20241022",
			StopReason: "end_turn",
			Content:    []anthropicContentBlock{{Type: "text", Text: "4"}},
			Usage:      anthropicUsage{InputTokens: 12, OutputTokens: 1},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewAnthropicAdapter("claude-3-5-sonnet-20241022", WithBaseURL(server.URL))

	completion, err := adapter.Complete(context.Background(), "sk-ant-test", Request{
		Prompt:       "What is 2+2?",
		SystemPrompt: "Answer with one token.",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q, want the passed key", gotKey)
	}
	if gotVersion != anthropicVersion {
		t.Errorf("anthropic-version = %q, want %q", gotVersion, anthropicVersion)
	}
	if gotReq.System != "Answer with one token." {
		t.Errorf("request system = %q, want top-level system field", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want a single user turn", gotReq.Messages)
	}
	if completion.Text != "4" {
		t.Errorf("Text = %q, want \"4\"", completion.Text)
	}
	if completion.Usage.TotalTokens != 13 {
		t.Errorf("Usage.TotalTokens = %d, want 13", completion.Usage.TotalTokens)
	}
}

func TestAnthropicAdapter_Complete_Overloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	adapter := NewAnthropicAdapter("", WithBaseURL(server.URL))

	_, err := adapter.Complete(context.Background(), "sk-ant-test", Request{Prompt: "hello"})
	if err == nil {
		t.Fatal("Complete() error = nil, want APIError")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != anthropicOverloaded {
		t.Errorf("StatusCode = %d, want %d (overloaded_error remapped)", apiErr.StatusCode, anthropicOverloaded)
	}
	if Classify(err) != domain.StatusQuotaError {
		t.Errorf("Classify() = %s, want quota_error", Classify(err))
	}
}

func TestAnthropicAdapter_Name(t *testing.T) {
	adapter := NewAnthropicAdapter("")
	if adapter.Name() != domain.ProviderAnthropic {
		t.Errorf("Name() = %s, want anthropic", adapter.Name())
	}
}
