package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const serpAPIEndpoint = "https://serpapi.com/search.json"

var ErrNoCredentials = errors.New("search api key not configured")

// SerpAPIClient answers free-text queries with Google results via SerpAPI.
// Construction with an empty key is allowed; Enabled tells callers whether
// queries can actually run.
type SerpAPIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewSerpAPIClient(apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:   apiKey,
		endpoint: serpAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *SerpAPIClient) Enabled() bool {
	return c.apiKey != ""
}

type serpResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search runs the query and returns a plain-text digest of the results,
// preferring the answer box over organic snippets.
func (c *SerpAPIClient) Search(ctx context.Context, query string) (string, error) {
	if !c.Enabled() {
		return "", ErrNoCredentials
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create search request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read search response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed serpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode search response failed: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("search error: %s", parsed.Error)
	}

	if parsed.AnswerBox.Answer != "" {
		return parsed.AnswerBox.Answer, nil
	}
	if parsed.AnswerBox.Snippet != "" {
		return parsed.AnswerBox.Snippet, nil
	}

	var snippets []string
	for _, r := range parsed.OrganicResults {
		if r.Snippet == "" {
			continue
		}
		snippets = append(snippets, r.Snippet)
		if len(snippets) == 5 {
			break
		}
	}
	if len(snippets) == 0 {
		return "No good search results found.", nil
	}
	return strings.Join(snippets, "\n"), nil
}
