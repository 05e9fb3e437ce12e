// Package classify is the HTTP client for the external sentiment and
// relief-category classification service.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reliefwatch/models"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// Client calls the classification service. The service exposes two JSON
// endpoints: POST /analyze for sentiment and POST /classify_category for
// relief categories.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a classifier client. An empty baseURL uses the default
// local address; a nil http client falls back to one with a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

type textRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

type categoryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

// AnalyzeSentiment classifies the text's sentiment. Unknown labels from the
// service map to NEUTRAL with the reported confidence.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*models.Sentiment, error) {
	var resp sentimentResponse
	if err := c.postJSON(ctx, "/analyze", textRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("sentiment service error: %s", resp.Error)
	}

	t, ok := models.ParseSentimentType(resp.Sentiment)
	if !ok {
		t = models.SentimentNeutral
	}
	return models.NewSentiment(t, resp.Confidence, text), nil
}

// ClassifyText classifies the text into a relief category. A category the
// service reports but this system does not know yields ok == false, as does
// an empty result; the error return is reserved for transport failures.
func (c *Client) ClassifyText(ctx context.Context, text string) (category models.Category, confidence float64, ok bool, err error) {
	var resp categoryResponse
	if err := c.postJSON(ctx, "/classify_category", textRequest{Text: text}, &resp); err != nil {
		return "", 0, false, fmt.Errorf("category classification failed: %w", err)
	}
	if resp.Error != "" {
		return "", 0, false, fmt.Errorf("classifier service error: %s", resp.Error)
	}

	category, ok = models.ParseCategory(resp.Category)
	if !ok {
		return "", 0, false, nil
	}
	return category, resp.Confidence, true, nil
}

// ClassifyPost tags the post with a relief category. Re-tagging an already
// tagged post is a no-op.
func (c *Client) ClassifyPost(ctx context.Context, post *models.Post) error {
	if post.ReliefItem != nil {
		return nil
	}

	category, _, ok, err := c.ClassifyText(ctx, post.Content)
	if err != nil {
		return err
	}
	if ok {
		post.ReliefItem = models.NewReliefItem(category, "ML-classified", 3)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier service returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
