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

func TestBuildChatMessages(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		roles []string
	}{
		{
			name:  "prompt only",
			req:   Request{Prompt: "Hello"},
			roles: []string{"user"},
		},
		{
			name:  "system prompt comes first",
			req:   Request{Prompt: "Hello", SystemPrompt: "You are terse."},
			roles: []string{"system", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := buildChatMessages(tt.req)
			if len(messages) != len(tt.roles) {
				t.Fatalf("len(messages) = %d, want %d", len(messages), len(tt.roles))
			}
			for i, role := range tt.roles {
				if messages[i].Role != role {
					t.Errorf("messages[%d].Role = %s, want %s", i, messages[i].Role, role)
				}
			}
			if messages[len(messages)-1].Content != tt.req.Prompt {
				t.Errorf("last message content = %q, want the prompt", messages[len(messages)-1].Content)
			}
		})
	}
}

func TestChatCompletionResponse_FirstText(t *testing.T) {
	tests := []struct {
		name   string
		resp   ChatCompletionResponse
		want   string
		wantOK bool
	}{
		{
			name: "message content shape",
			resp: ChatCompletionResponse{Choices: []ChatChoice{
				{Message: ChatMessage{Role: "assistant", Content: "Hi there"}},
			}},
			want:   "Hi there",
			wantOK: true,
		},
		{
			name: "bare text shape",
			resp: ChatCompletionResponse{Choices: []ChatChoice{
				{Text: "Hi there"},
			}},
			want:   "Hi there",
			wantOK: true,
		},
		{
			name:   "no choices",
			resp:   ChatCompletionResponse{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.resp.FirstText()
			if ok != tt.wantOK {
				t.Fatalf("FirstText() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FirstText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAIAdapter_Complete(t *testing.T) {
	var gotAuth string
	var gotReq ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := ChatCompletionResponse{
			Model: "gpt-4",
			Choices: []ChatChoice{
				{Message: ChatMessage{Role: "assistant", Content: "4"}},
			},
			Usage: Usage{PromptTokens: 8, CompletionTokens: 1, TotalTokens: 9},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter("gpt-4", WithBaseURL(server.URL))

	completion, err := adapter.Complete(context.Background(), "sk-test-key", Request{
		Prompt:       "What is 2+2?",
		SystemPrompt: "Answer with one token.",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if gotAuth != "Bearer sk-test-key" {
		t.Errorf("Authorization = %q, want Bearer token", gotAuth)
	}
	if gotReq.Model != "gpt-4" {
		t.Errorf("request model = %s, want gpt-4", gotReq.Model)
	}
	if gotReq.MaxTokens != DefaultMaxTokens {
		t.Errorf("request max_tokens = %d, want %d", gotReq.MaxTokens, DefaultMaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system then user", gotReq.Messages)
	}
	if completion.Text != "4" {
		t.Errorf("Text = %q, want \"4\"", completion.Text)
	}
	if completion.Usage.TotalTokens != 9 {
		t.Errorf("Usage.TotalTokens = %d, want 9", completion.Usage.TotalTokens)
	}
}

func TestOpenAIAdapter_Complete_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter("gpt-4", WithBaseURL(server.URL))

	_, err := adapter.Complete(context.Background(), "sk-bad-key", Request{Prompt: "hello"})
	if err == nil {
		t.Fatal("Complete() error = nil, want APIError")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect API key provided" {
		t.Errorf("Message = %q, want provider message", apiErr.Message)
	}
	if Classify(err) != domain.StatusAuthError {
		t.Errorf("Classify() = %s, want auth_error", Classify(err))
	}
}

func TestOpenAIAdapter_Name(t *testing.T) {
	adapter := NewOpenAIAdapter("gpt-4")
	if adapter.Name() != domain.ProviderOpenAI {
		t.Errorf("Name() = %s, want openai", adapter.Name())
	}
}
