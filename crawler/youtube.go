package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"reliefwatch/models"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`/shorts/([A-Za-z0-9_-]{6,})`),
}

// YouTubeCrawler crawls videos and their comments through the YouTube Data
// API v3. It requires a valid API key and therefore explicit initialization.
type YouTubeCrawler struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewYouTubeCrawler creates a crawler using the given API key. Passing a nil
// http client falls back to a client with a sane timeout.
func NewYouTubeCrawler(apiKey string, httpClient *http.Client) *YouTubeCrawler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &YouTubeCrawler{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    youtubeAPIBase,
	}
}

// Initialize verifies that an API key is configured.
func (y *YouTubeCrawler) Initialize(ctx context.Context) error {
	if y.apiKey == "" {
		return fmt.Errorf("youtube crawler: no API key configured (crawlers.youtube.apiKey)")
	}
	return nil
}

// Shutdown is a no-op; the crawler holds no persistent resources.
func (y *YouTubeCrawler) Shutdown() error { return nil }

// SearchByKeyword searches videos for the query and returns them as posts
// with their top-level comments attached.
func (y *YouTubeCrawler) SearchByKeyword(ctx context.Context, query string, maxResults int) ([]*models.Post, error) {
	videoIDs, err := y.searchVideos(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(videoIDs))
	for _, id := range videoIDs {
		if err := ctx.Err(); err != nil {
			return posts, err
		}
		post, err := y.fetchVideo(ctx, id)
		if err != nil {
			// One bad video must not abort the whole crawl.
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CrawlURL crawls a single video given a watch, share or shorts URL.
func (y *YouTubeCrawler) CrawlURL(ctx context.Context, rawURL string) (*models.Post, error) {
	videoID := extractVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("not a recognizable YouTube URL: %s", rawURL)
	}
	return y.fetchVideo(ctx, videoID)
}

func (y *YouTubeCrawler) searchVideos(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("q", query)
	params.Set("key", y.apiKey)

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := y.getJSON(ctx, "/search", params, &result); err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (y *YouTubeCrawler) fetchVideo(ctx context.Context, videoID string) (*models.Post, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)
	params.Set("key", y.apiKey)

	var result struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				Description  string `json:"description"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := y.getJSON(ctx, "/videos", params, &result); err != nil {
		return nil, fmt.Errorf("youtube video lookup failed: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("youtube video not found: %s", videoID)
	}

	snippet := result.Items[0].Snippet
	content := snippet.Title
	if snippet.Description != "" {
		content += "\n" + snippet.Description
	}

	post := models.NewPost(videoID, content, parseISO8601(snippet.PublishedAt), snippet.ChannelTitle, "YOUTUBE")

	comments, err := y.fetchComments(ctx, videoID)
	if err == nil {
		for _, c := range comments {
			post.AddComment(c)
		}
	}
	return post, nil
}

func (y *YouTubeCrawler) fetchComments(ctx context.Context, videoID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("videoId", videoID)
		params.Set("maxResults", "100")
		params.Set("key", y.apiKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var result struct {
			NextPageToken string `json:"nextPageToken"`
			Items         []struct {
				Snippet struct {
					TopLevelComment struct {
						Snippet struct {
							AuthorDisplayName string `json:"authorDisplayName"`
							TextOriginal      string `json:"textOriginal"`
							PublishedAt       string `json:"publishedAt"`
						} `json:"snippet"`
					} `json:"topLevelComment"`
				} `json:"snippet"`
			} `json:"items"`
		}
		if err := y.getJSON(ctx, "/commentThreads", params, &result); err != nil {
			return comments, err
		}

		for _, item := range result.Items {
			s := item.Snippet.TopLevelComment.Snippet
			if s.TextOriginal == "" {
				continue
			}
			comments = append(comments, models.NewComment(
				uuid.NewString(),
				videoID,
				s.TextOriginal,
				parseISO8601(s.PublishedAt),
				s.AuthorDisplayName,
			))
		}

		if result.NextPageToken == "" {
			break
		}
		pageToken = result.NextPageToken
	}
	return comments, nil
}

func (y *YouTubeCrawler) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(body, out)
}

// extractVideoID pulls the video id out of the common YouTube URL forms.
// Returns "" when no id can be found.
func extractVideoID(rawURL string) string {
	for _, re := range youtubeURLPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// parseISO8601 parses timestamps like 2024-12-01T10:30:00Z. Unparseable
// values fall back to the current time, matching the source behavior.
func parseISO8601(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Now()
	}
	return t
}
