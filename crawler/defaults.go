package crawler

import (
	"log"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// RSSSettings holds the feed list for the RSS crawler, read from the
// crawlers.rss block of the merged configuration.
type RSSSettings struct {
	Feeds []string `mapstructure:"feeds"`
}

// RegisterDefaults populates the registry with every built-in crawler.
// Call once at application startup, after configuration is loaded.
//
// To add a new crawler: implement DataCrawler and add a Register call here.
func RegisterDefaults(r *Registry) {
	r.Register(Config{
		Name:        "YOUTUBE",
		DisplayName: "YouTube",
		Description: "Crawl videos and comments via the YouTube Data API v3",
		Factory: func() DataCrawler {
			return NewYouTubeCrawler(viper.GetString("crawlers.youtube.apiKey"), nil)
		},
		RequiresInitialization: true,
		SupportsKeywordSearch:  true,
		SupportsURLCrawl:       true,
	})

	r.Register(Config{
		Name:        "RSS",
		DisplayName: "RSS Feeds",
		Description: "Crawl disaster-relief news items from configured RSS/Atom feeds",
		Factory: func() DataCrawler {
			var settings RSSSettings
			if raw := viper.Get("crawlers.rss"); raw != nil {
				if err := mapstructure.Decode(raw, &settings); err != nil {
					log.Printf("Could not decode RSS crawler settings: %v", err)
				}
			}
			return NewRSSCrawler(settings.Feeds)
		},
		RequiresInitialization: false,
		SupportsKeywordSearch:  true,
		SupportsURLCrawl:       true,
	})

	r.Register(Config{
		Name:        "MOCK",
		DisplayName: "Sample/Mock Data",
		Description: "Generate sample data for testing (no real crawling)",
		Factory: func() DataCrawler {
			return NewMockCrawler()
		},
		RequiresInitialization: false,
		SupportsKeywordSearch:  true,
		SupportsURLCrawl:       false,
	})

	log.Printf("All crawlers initialized: %v", r.DisplayNames())
}
