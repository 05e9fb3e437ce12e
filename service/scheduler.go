package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"reliefwatch/crawler"
	"reliefwatch/pipeline"
	"reliefwatch/utils"
)

// Scheduler runs the periodic crawl and the retention job on cron
// schedules taken from configuration.
type Scheduler struct {
	cron     *cron.Cron
	model    *Model
	pipeline *pipeline.Pipeline
	registry *crawler.Registry
}

// NewScheduler wires the scheduler; call Start to begin.
func NewScheduler(model *Model, p *pipeline.Pipeline, registry *crawler.Registry) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		model:    model,
		pipeline: p,
		registry: registry,
	}
}

// Start registers the cron jobs and starts the scheduler. When
// crawl.runAtStartup is set, an initial crawl runs immediately in the
// background.
func (s *Scheduler) Start() error {
	log.Println("Initializing scheduler...")

	schedule := viper.GetString("crawl.schedule")
	if schedule == "" {
		schedule = "@hourly"
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		log.Println("Running scheduled crawl...")
		s.RunCrawl(context.Background())
	}); err != nil {
		return fmt.Errorf("could not set up crawl cron job: %w", err)
	}

	if retentionDays := viper.GetInt("retention.days"); retentionDays > 0 {
		if _, err := s.cron.AddFunc("@daily", func() {
			maxAge := time.Duration(retentionDays) * 24 * time.Hour
			if _, err := s.model.store.CleanupOldPosts(maxAge); err != nil {
				utils.Error("Scheduler", "Cleanup", fmt.Sprintf("Retention cleanup failed: %v", err))
			}
		}); err != nil {
			return fmt.Errorf("could not set up cleanup cron job: %w", err)
		}
	}

	s.cron.Start()
	log.Printf("Cron job scheduled: %s", schedule)

	if viper.GetBool("crawl.runAtStartup") {
		go func() {
			log.Println("Performing initial crawl on startup...")
			s.RunCrawl(context.Background())
		}()
	} else {
		log.Println("Skipping initial crawl on startup as per configuration.")
	}
	return nil
}

// Stop stops the cron scheduler. Running jobs finish their current item.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		log.Println("Scheduler stopped.")
	}
}

// RunCrawl executes one full crawl run with the configured crawler and
// keywords: search per keyword, pipeline filtering, then model ingestion.
func (s *Scheduler) RunCrawl(ctx context.Context) {
	name := viper.GetString("crawl.crawler")
	if name == "" {
		name = "MOCK"
	}
	keywords := viper.GetStringSlice("crawl.keywords")
	maxResults := viper.GetInt("crawl.maxResults")
	if maxResults <= 0 {
		maxResults = 10
	}

	c, err := s.registry.Create(name)
	if err != nil {
		utils.Error("Scheduler", "RunCrawl", fmt.Sprintf("Could not create crawler %s: %v", name, err))
		return
	}

	if s.registry.RequiresInitialization(name) {
		if err := c.Initialize(ctx); err != nil {
			utils.Error("Scheduler", "RunCrawl", fmt.Sprintf("Could not initialize crawler %s: %v", name, err))
			return
		}
		defer func() {
			if err := c.Shutdown(); err != nil {
				utils.Warn("Scheduler", "RunCrawl", fmt.Sprintf("Crawler %s shutdown failed: %v", name, err))
			}
		}()
	}

	if !s.registry.SupportsKeywordSearch(name) {
		utils.Error("Scheduler", "RunCrawl", fmt.Sprintf("Crawler %s does not support keyword search", name))
		return
	}

	buffer := pipeline.NewBuffer()
	opts := pipeline.Options{
		Keywords:           keywords,
		DefaultDisaster:    viper.GetString("crawl.defaultDisaster"),
		SynthesizeComments: name == "MOCK",
		CommentLimit:       viper.GetInt("crawl.commentLimit"),
	}

	for _, keyword := range keywords {
		posts, err := c.SearchByKeyword(ctx, keyword, maxResults)
		if err != nil {
			utils.Warn("Scheduler", "RunCrawl",
				fmt.Sprintf("Search for %q failed: %v", keyword, err))
			continue
		}
		if _, err := s.pipeline.ProcessAndAddPosts(ctx, posts, buffer, opts); err != nil {
			utils.Warn("Scheduler", "RunCrawl", fmt.Sprintf("Crawl run interrupted: %v", err))
			break
		}
	}

	if buffer.Len() == 0 {
		log.Println("Scheduled crawl finished: nothing new.")
		return
	}
	if err := s.model.AddPosts(ctx, buffer.Posts()); err != nil {
		utils.Error("Scheduler", "RunCrawl", fmt.Sprintf("Could not persist crawled posts: %v", err))
		return
	}
	log.Printf("Scheduled crawl finished: %d new posts.", buffer.Len())
}
