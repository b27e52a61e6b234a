package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gleaner/internal/services/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *llm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := llm.NewClient(llm.Config{
		APIKey:  "key",
		BaseURL: server.URL,
		Model:   "test-model",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRejectsEmptyAPIKey(t *testing.T) {
	if _, err := llm.NewClient(llm.Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := llm.NewClient(llm.Config{APIKey: "   "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestCompleteJSONReturnsMessageContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var payload struct {
			Temperature    float64           `json:"temperature"`
			ResponseFormat map[string]string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Temperature != 0 {
			t.Fatalf("expected temperature 0, got %v", payload.Temperature)
		}
		if payload.ResponseFormat["type"] != "json_object" {
			t.Fatalf("expected json response format, got %v", payload.ResponseFormat)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	})

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestCompleteJSONToleratesDeltaSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"delta":{"content":"{\"ok\":true}"}}]}`))
	})
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestCompleteJSONSurfacesHTTPStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	})
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestCompleteJSONRequiresPrompts(t *testing.T) {
	client, err := llm.NewClient(llm.Config{APIKey: "key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.CompleteJSON(context.Background(), "", "user"); err == nil {
		t.Fatal("expected error for empty system prompt")
	}
	if _, err := client.CompleteJSON(context.Background(), "system", ""); err == nil {
		t.Fatal("expected error for empty user prompt")
	}
}

func TestDecodeLLMJSONDirect(t *testing.T) {
	var out struct {
		Category string `json:"category"`
	}
	if err := llm.DecodeLLMJSON(`{"category":"Mob Farm"}`, &out); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if out.Category != "Mob Farm" {
		t.Fatalf("unexpected category: %q", out.Category)
	}
}

func TestDecodeLLMJSONStripsCodeFence(t *testing.T) {
	var out struct {
		OK bool `json:"ok"`
	}
	payload := "```json\n{\"ok\": true}\n```"
	if err := llm.DecodeLLMJSON(payload, &out); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if !out.OK {
		t.Fatal("expected ok=true")
	}
}

func TestDecodeLLMJSONExtractsEmbeddedObject(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	payload := `Sure! Here is the record you asked for: {"title": "Creeper Farm"} Hope that helps.`
	if err := llm.DecodeLLMJSON(payload, &out); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if out.Title != "Creeper Farm" {
		t.Fatalf("unexpected title: %q", out.Title)
	}
}

func TestDecodeLLMJSONFailsOnProseOnly(t *testing.T) {
	var out map[string]any
	if err := llm.DecodeLLMJSON("I could not produce a record.", &out); err == nil {
		t.Fatal("expected error for prose payload")
	}
	if err := llm.DecodeLLMJSON("   ", &out); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
