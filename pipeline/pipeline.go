// Package pipeline orchestrates one crawl run: deduplication against the
// persisted store, disaster-type assignment and buffering of accepted posts.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"reliefwatch/disaster"
	"reliefwatch/models"
	"reliefwatch/utils"
)

// StoreErrorPolicy decides what a failed duplicate check means.
type StoreErrorPolicy int

const (
	// FailOpen treats a failed check as "not a duplicate". Availability is
	// preferred over strict dedup when the store misbehaves.
	FailOpen StoreErrorPolicy = iota
	// FailClosed treats a failed check as a duplicate and skips the post.
	FailClosed
)

// Store is the slice of the persistence store the pipeline needs.
type Store interface {
	HasPost(postID string) (bool, error)
}

// Options configures one ingestion run.
type Options struct {
	// Keywords are resolved in order; the first disaster-type hit wins.
	Keywords []string
	// DefaultDisaster is the canonical name used when no keyword resolves.
	// Empty means "yagi".
	DefaultDisaster string
	// SynthesizeComments adds template comments to each accepted post, for
	// crawlers that declare they need it.
	SynthesizeComments bool
	// CommentLimit caps synthesized comments per post.
	CommentLimit int
	// OnStoreError selects the dedup behavior when the store check fails.
	OnStoreError StoreErrorPolicy
}

// Pipeline filters and tags crawled posts before they become durable.
// One long-lived store handle is reused across all duplicate checks. The
// mutex serializes whole batches: two concurrent runs must not both accept
// the same identifier.
type Pipeline struct {
	mu        sync.Mutex
	store     Store
	disasters *disaster.Manager
}

// New creates a pipeline over the given store and disaster registry.
func New(store Store, disasters *disaster.Manager) *Pipeline {
	return &Pipeline{store: store, disasters: disasters}
}

// ProcessAndAddPosts runs one ingestion batch. Accepted (non-duplicate)
// posts are tagged and appended to the buffer in input order; duplicates
// are counted and skipped without error. Returns the number of accepted
// posts. The run is cancellable between posts; posts already appended stay
// appended.
func (p *Pipeline) ProcessAndAddPosts(ctx context.Context, posts []*models.Post, buffer *Buffer, opts Options) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runID := uuid.NewString()
	addedCount := 0
	duplicateCount := 0

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			utils.Warn("Pipeline", "ProcessAndAddPosts",
				fmt.Sprintf("Run %s cancelled after %d posts", runID, addedCount))
			return addedCount, err
		}

		if p.isDuplicate(post.PostID, opts.OnStoreError) {
			duplicateCount++
			continue
		}

		if opts.SynthesizeComments {
			SynthesizeComments(post, opts.CommentLimit)
		}

		p.assignDisasterType(post, opts.Keywords, opts.DefaultDisaster)

		buffer.Add(post)
		addedCount++
	}

	utils.Info("Pipeline", "ProcessAndAddPosts",
		fmt.Sprintf("Run %s processed posts: %d added, %d duplicates skipped", runID, addedCount, duplicateCount))
	return addedCount, nil
}

// isDuplicate checks the store for an existing post with the same id.
// A failed check resolves according to the configured policy.
func (p *Pipeline) isDuplicate(postID string, policy StoreErrorPolicy) bool {
	exists, err := p.store.HasPost(postID)
	if err != nil {
		if policy == FailClosed {
			utils.Warn("Pipeline", "DuplicateCheck",
				fmt.Sprintf("Error checking duplicate for %s, skipping post (fail-closed): %v", postID, err))
			return true
		}
		utils.Warn("Pipeline", "DuplicateCheck",
			fmt.Sprintf("Error checking duplicate for %s, accepting post (fail-open): %v", postID, err))
		return false
	}
	return exists
}

// assignDisasterType resolves the keywords in order; the first hit wins.
// When nothing resolves the configured default applies. Untagged comments
// inherit the post's type.
func (p *Pipeline) assignDisasterType(post *models.Post, keywords []string, defaultName string) {
	var resolved *models.DisasterType
	for _, keyword := range keywords {
		if d := p.disasters.Resolve(keyword); d != nil {
			resolved = d
			break
		}
	}
	if resolved == nil {
		if defaultName == "" {
			defaultName = "yagi"
		}
		resolved = p.disasters.Get(defaultName)
	}
	if resolved == nil {
		return
	}

	if post.DisasterKeyword == "" {
		post.DisasterKeyword = resolved.Name
	}
	for _, c := range post.Comments {
		if c.DisasterType == "" {
			c.DisasterType = resolved.Name
		}
	}
}
