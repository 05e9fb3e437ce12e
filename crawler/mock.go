package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reliefwatch/models"
)

var mockPostTemplates = []string{
	"Relief teams distributed food and clean water in the flooded district today",
	"Families displaced by the storm are still waiting for temporary shelter",
	"Local hospital reports shortage of medicine after the disaster",
	"Volunteers organized transportation for evacuees from the coastal villages",
	"Cash assistance program launched for households that lost their homes",
	"Road access to the mountain communes restored after three days",
	"Donation drive collected rice, instant noodles and drinking water",
	"Emergency medical teams deployed to the hardest-hit province",
}

// MockCrawler produces sample posts without any network access. It exists
// for demos and tests; the registry marks it keyword-search only.
type MockCrawler struct{}

// NewMockCrawler creates a sample-data crawler.
func NewMockCrawler() *MockCrawler {
	return &MockCrawler{}
}

// Initialize is a no-op; the mock crawler needs no setup.
func (m *MockCrawler) Initialize(ctx context.Context) error { return nil }

// Shutdown is a no-op.
func (m *MockCrawler) Shutdown() error { return nil }

// SearchByKeyword generates up to maxResults sample posts mentioning the
// query. Identifiers are unique per call.
func (m *MockCrawler) SearchByKeyword(ctx context.Context, query string, maxResults int) ([]*models.Post, error) {
	count := maxResults
	if count > len(mockPostTemplates) {
		count = len(mockPostTemplates)
	}

	now := time.Now()
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return posts, err
		}
		post := models.NewPost(
			"MOCK_"+uuid.NewString(),
			fmt.Sprintf("%s (%s)", mockPostTemplates[i], query),
			now.Add(-time.Duration(i)*time.Hour),
			fmt.Sprintf("sample_user_%d", i+1),
			"MOCK",
		)
		posts = append(posts, post)
	}
	return posts, nil
}

// CrawlURL is not supported by the mock crawler.
func (m *MockCrawler) CrawlURL(ctx context.Context, url string) (*models.Post, error) {
	return nil, fmt.Errorf("mock crawler does not support URL crawling")
}
