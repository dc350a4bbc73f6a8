package aggregator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/promptarena/arena/internal/adapter"
	"github.com/promptarena/arena/internal/domain"
)

// newEntry builds an entry whose fake client answers the given key with the
// given outcome.
func newEntry(provider domain.ProviderType, cfg domain.ProviderConfig, responses map[string]fakeResponse) Entry {
	return Entry{
		Config: cfg,
		Client: &fakeClient{provider: provider, responses: responses},
	}
}

func TestAggregator_RunBatch_OrderAndIsolation(t *testing.T) {
	// The canonical mixed-outcome batch: one success, one timeout path
	// (simulated as a wrapped deadline), one auth failure rescued by the
	// backup key, one success with a different answer.
	entries := []Entry{
		newEntry(domain.ProviderOpenAI,
			domain.ProviderConfig{Name: domain.ProviderOpenAI, PrimaryKey: "openai-key"},
			map[string]fakeResponse{"openai-key": {text: "4"}}),
		newEntry(domain.ProviderAnthropic,
			domain.ProviderConfig{Name: domain.ProviderAnthropic, PrimaryKey: "anthropic-key"},
			map[string]fakeResponse{"anthropic-key": {err: context.DeadlineExceeded}}),
		newEntry(domain.ProviderGoogle,
			domain.ProviderConfig{Name: domain.ProviderGoogle, PrimaryKey: "google-key", BackupKey: "google-backup"},
			map[string]fakeResponse{
				"google-key":    {err: &adapter.APIError{Provider: domain.ProviderGoogle, StatusCode: 401, Message: "invalid key"}},
				"google-backup": {text: "4"},
			}),
		newEntry(domain.ProviderMeta,
			domain.ProviderConfig{Name: domain.ProviderMeta, PrimaryKey: "llama-key"},
			map[string]fakeResponse{"llama-key": {text: "Four"}}),
	}

	agg := New(entries)

	batch, err := agg.RunBatch(context.Background(), "What is 2+2?", "")
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if len(batch.Results) != len(entries) {
		t.Fatalf("len(Results) = %d, want %d", len(batch.Results), len(entries))
	}

	wantOrder := []domain.ProviderType{
		domain.ProviderOpenAI,
		domain.ProviderAnthropic,
		domain.ProviderGoogle,
		domain.ProviderMeta,
	}
	for i, want := range wantOrder {
		if batch.Results[i].Provider != want {
			t.Errorf("Results[%d].Provider = %s, want %s", i, batch.Results[i].Provider, want)
		}
	}

	if !batch.Results[0].OK() || batch.Results[0].Text != "4" {
		t.Errorf("openai result = %+v, want ok with \"4\"", batch.Results[0])
	}
	if batch.Results[1].Status != domain.StatusTimeout {
		t.Errorf("anthropic status = %s, want timeout", batch.Results[1].Status)
	}
	if !batch.Results[2].OK() || batch.Results[2].KeyUsed != domain.KeyBackup {
		t.Errorf("google result = %+v, want ok via backup key", batch.Results[2])
	}
	if !batch.Results[3].OK() || batch.Results[3].Text != "Four" {
		t.Errorf("meta result = %+v, want ok with \"Four\"", batch.Results[3])
	}

	if got := batch.SuccessCount(); got != 3 {
		t.Errorf("SuccessCount() = %d, want 3", got)
	}
}

func TestAggregator_RunBatch_EmptyPrompt(t *testing.T) {
	calls := 0
	entry := Entry{
		Config: domain.ProviderConfig{Name: domain.ProviderOpenAI, PrimaryKey: "k"},
		Client: &countingClient{calls: &calls},
	}
	agg := New([]Entry{entry})

	for _, prompt := range []string{"", "   ", "\n\t"} {
		if _, err := agg.RunBatch(context.Background(), prompt, ""); !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("RunBatch(%q) error = %v, want ErrEmptyPrompt", prompt, err)
		}
	}

	if calls != 0 {
		t.Errorf("provider called %d times for blank prompts, want 0", calls)
	}
}

func TestAggregator_RunBatch_NoProviders(t *testing.T) {
	agg := New(nil)

	batch, err := agg.RunBatch(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if len(batch.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(batch.Results))
	}
}

func TestAggregator_RunBatch_SystemPromptPassedThrough(t *testing.T) {
	var got adapter.Request
	entry := Entry{
		Config: domain.ProviderConfig{Name: domain.ProviderOpenAI, PrimaryKey: "k"},
		Client: &capturingClient{captured: &got},
	}
	agg := New([]Entry{entry}, WithGeneration(123, 0.5))

	batch, err := agg.RunBatch(context.Background(), "hello", "be brief")
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if got.SystemPrompt != "be brief" {
		t.Errorf("SystemPrompt = %q, want passed through", got.SystemPrompt)
	}
	if got.MaxTokens != 123 || got.Temperature != 0.5 {
		t.Errorf("generation params = (%d, %v), want (123, 0.5)", got.MaxTokens, got.Temperature)
	}
	if batch.SystemPrompt != "be brief" {
		t.Errorf("batch.SystemPrompt = %q, want recorded on the batch", batch.SystemPrompt)
	}
}

func TestAggregator_ConnectionCheck(t *testing.T) {
	entries := []Entry{
		newEntry(domain.ProviderOpenAI,
			domain.ProviderConfig{Name: domain.ProviderOpenAI, PrimaryKey: "k"},
			map[string]fakeResponse{"k": {text: "Connection successful!"}}),
	}
	agg := New(entries)

	batch := agg.ConnectionCheck(context.Background())
	if len(batch.Results) != 1 || !batch.Results[0].OK() {
		t.Errorf("ConnectionCheck() results = %+v, want one ok result", batch.Results)
	}
}

func TestNewFromConfigs_UnknownProvider(t *testing.T) {
	_, err := NewFromConfigs([]domain.ProviderConfig{
		{Name: "mystery", Model: "m", BaseURL: "https://example.com", PrimaryKey: "k"},
	}, nil)
	if err == nil {
		t.Fatal("NewFromConfigs() error = nil, want error for unknown provider")
	}
}

// stubTransport answers every request with a canned OpenAI-style success,
// never touching the network.
type stubTransport struct {
	calls int
}

func (s *stubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.calls++
	body := `{"model":"gpt-4","choices":[{"message":{"role":"assistant","content":"4"}}]}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

func TestNewFromConfigs_AdapterOptionsApplied(t *testing.T) {
	transport := &stubTransport{}
	configs := []domain.ProviderConfig{
		// An unreachable base URL: the batch only succeeds if the injected
		// client actually reaches the adapter.
		{Name: domain.ProviderOpenAI, Model: "gpt-4", BaseURL: "https://unreachable.invalid/v1", PrimaryKey: "k", Enabled: true},
	}

	agg, err := NewFromConfigs(configs, []adapter.Option{
		adapter.WithHTTPClient(&http.Client{Transport: transport}),
	})
	if err != nil {
		t.Fatalf("NewFromConfigs() error = %v", err)
	}

	batch, err := agg.RunBatch(context.Background(), "What is 2+2?", "")
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if !batch.Results[0].OK() {
		t.Fatalf("Status = %s, want ok via the injected client (detail: %s)",
			batch.Results[0].Status, batch.Results[0].Detail)
	}
	if transport.calls != 1 {
		t.Errorf("transport calls = %d, want 1", transport.calls)
	}
}

// countingClient counts invocations without answering meaningfully.
type countingClient struct {
	calls *int
}

func (c *countingClient) Complete(ctx context.Context, apiKey string, req adapter.Request) (adapter.Completion, error) {
	*c.calls++
	return adapter.Completion{Text: "x"}, nil
}

func (c *countingClient) Name() domain.ProviderType {
	return domain.ProviderOpenAI
}

// capturingClient records the request it was given.
type capturingClient struct {
	captured *adapter.Request
}

func (c *capturingClient) Complete(ctx context.Context, apiKey string, req adapter.Request) (adapter.Completion, error) {
	*c.captured = req
	return adapter.Completion{Text: "ok"}, nil
}

func (c *capturingClient) Name() domain.ProviderType {
	return domain.ProviderOpenAI
}
