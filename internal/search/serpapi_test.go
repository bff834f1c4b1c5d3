package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SerpAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSerpAPIClient("test-key")
	client.endpoint = server.URL
	return client
}

func TestSearchDisabledWithoutKey(t *testing.T) {
	client := NewSerpAPIClient("")
	if client.Enabled() {
		t.Fatalf("empty key must disable the client")
	}
	if _, err := client.Search(context.Background(), "q"); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestSearchPrefersAnswerBox(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "gdpr fines" {
			t.Errorf("query not forwarded: %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api key not forwarded: %q", got)
		}
		w.Write([]byte(`{
			"answer_box": {"answer": "up to 20 million euros"},
			"organic_results": [{"snippet": "ignored"}]
		}`))
	})

	result, err := client.Search(context.Background(), "gdpr fines")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result != "up to 20 million euros" {
		t.Fatalf("expected answer box content, got %q", result)
	}
}

func TestSearchJoinsOrganicSnippets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"organic_results": [
				{"snippet": "first snippet"},
				{"snippet": "second snippet"},
				{"title": "no snippet here"}
			]
		}`))
	})

	result, err := client.Search(context.Background(), "ccpa")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result != "first snippet\nsecond snippet" {
		t.Fatalf("unexpected digest: %q", result)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	result, err := client.Search(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(result, "No good search results") {
		t.Fatalf("expected the no-results fallback, got %q", result)
	}
}

func TestSearchAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Invalid API key"}`))
	})

	if _, err := client.Search(context.Background(), "q"); err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("expected API error to surface, got %v", err)
	}
}

func TestSearchHTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatalf("non-200 must be an error")
	}
}
