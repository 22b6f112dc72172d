package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ghostwood/internal/generation"
)

func chatReply(t *testing.T, w http.ResponseWriter, message map[string]any) {
	t.Helper()
	payload := map[string]any{
		"choices": []any{
			map[string]any{"finish_reason": "stop", "message": message},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		chatReply(t, w, map[string]any{"content": "```json\n{\"ok\":true}\n```"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestGenerateSendsJSONSchema(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		chatReply(t, w, map[string]any{"content": `{"tonalDifference":"a","playingExperience":"b","recommendation":"c"}`})
	}))
	defer server.Close()

	schema := generation.Object(generation.Prop("tonalDifference", generation.String()))
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model", Title: "Ghostwood"})
	out, err := client.Generate(context.Background(), generation.Request{
		Op:     generation.OpCompare,
		Prompt: "Compare two designs",
		Schema: schema,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(out, "tonalDifference") {
		t.Fatalf("unexpected content %q", out)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", captured.ResponseFormat)
	}
	if captured.ResponseFormat.JSONSchema.Name != "ghostwood_compare" {
		t.Fatalf("unexpected schema name %q", captured.ResponseFormat.JSONSchema.Name)
	}
	if captured.ResponseFormat.JSONSchema.Schema.Properties["tonalDifference"] == nil {
		t.Fatal("schema properties not sent")
	}
	if len(captured.Plugins) != 0 {
		t.Fatalf("plain generation should not enable plugins: %+v", captured.Plugins)
	}
	if len(captured.Messages) != 2 || captured.Messages[1].Content != "Compare two designs" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestGenerateToolCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, map[string]any{
			"content": "",
			"tool_calls": []any{
				map[string]any{
					"type":     "function",
					"id":       "call_1",
					"function": map[string]any{"name": "spec", "arguments": `{"type":"P90"}`},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	out, err := client.Generate(context.Background(), generation.Request{Op: generation.OpSpec, Prompt: "design"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != `{"type":"P90"}` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestSearchGroundedReturnsCitations(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		chatReply(t, w, map[string]any{
			"content": "Found some demos.",
			"annotations": []any{
				map[string]any{"type": "url_citation", "url_citation": map[string]any{"url": "https://www.youtube.com/watch?v=1", "title": "Bench test"}},
				map[string]any{"type": "url_citation", "url_citation": map[string]any{"url": "https://example.com"}},
				map[string]any{"type": "file"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	got, err := client.SearchGrounded(context.Background(), generation.Request{Op: generation.OpDemos, Prompt: "find demos"})
	if err != nil {
		t.Fatalf("SearchGrounded returned error: %v", err)
	}
	if len(captured.Plugins) != 1 || captured.Plugins[0].ID != "web" {
		t.Fatalf("expected web plugin, got %+v", captured.Plugins)
	}
	if captured.ResponseFormat != nil {
		t.Fatalf("grounded call without schema should not set response_format: %+v", captured.ResponseFormat)
	}
	if len(got.Links) != 2 || got.Links[0].Title != "Bench test" || got.Links[1].Title != "" {
		t.Fatalf("unexpected links %+v", got.Links)
	}
	if got.Text != "Found some demos." {
		t.Fatalf("unexpected text %q", got.Text)
	}
}

func TestGenerateRequiresKeyAndPrompt(t *testing.T) {
	client := NewClient(Config{Model: "demo"})
	if _, err := client.Generate(context.Background(), generation.Request{Prompt: "x"}); err == nil {
		t.Fatal("expected missing key error")
	}
	client = NewClient(Config{APIKey: "k", Model: "demo"})
	if _, err := client.Generate(context.Background(), generation.Request{Prompt: "  "}); err == nil {
		t.Fatal("expected missing prompt error")
	}
}

func TestEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, map[string]any{"content": ""})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Generate(context.Background(), generation.Request{Op: generation.OpSpec, Prompt: "design"})
	if err == nil {
		t.Fatal("expected generate to fail")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected empty-content error to include snippet, got %v", err)
	}
}

func TestRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		chatReply(t, w, map[string]any{"content": `{"ok":true}`})
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	if _, err := client.Generate(context.Background(), generation.Request{Prompt: "ping"}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(4),
	)
	if _, err := client.Generate(context.Background(), generation.Request{Prompt: "ping"}); err == nil {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Fatalf("expected a single call for 400, got %d", calls)
	}
}

func TestRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = `{"ok":true}`
		}
		chatReply(t, w, map[string]any{"content": content})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	if _, err := client.Generate(context.Background(), generation.Request{Prompt: "ping"}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := client.backoffDelay(i + 1); got != w {
			t.Fatalf("attempt %d delay = %s, want %s", i+1, got, w)
		}
	}
}
