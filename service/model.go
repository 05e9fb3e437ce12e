// Package service holds the in-memory model of ingested content and the
// scheduled crawl jobs.
package service

import (
	"context"
	"fmt"
	"sync"

	"reliefwatch/database"
	"reliefwatch/disaster"
	"reliefwatch/models"
	"reliefwatch/utils"
)

// SentimentAnalyzer produces a sentiment for a piece of text.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*models.Sentiment, error)
}

// CategoryClassifier assigns relief categories to posts and raw text.
type CategoryClassifier interface {
	ClassifyPost(ctx context.Context, post *models.Post) error
	ClassifyText(ctx context.Context, text string) (category models.Category, confidence float64, ok bool, err error)
}

// Model is the in-memory collection of ingested posts. Adding a post runs
// the classification and sentiment stages on it and its comments, then
// persists everything through the store. Both stages are idempotent:
// already-tagged items are left alone.
type Model struct {
	mu         sync.Mutex
	posts      []*models.Post
	store      *database.Store
	loader     *database.Loader
	disasters  *disaster.Manager
	analyzer   SentimentAnalyzer
	classifier CategoryClassifier
}

// NewModel creates a model over the given store. Analyzer and classifier
// may be nil; the corresponding stages are then skipped.
func NewModel(store *database.Store, loader *database.Loader, disasters *disaster.Manager,
	analyzer SentimentAnalyzer, classifier CategoryClassifier) *Model {
	return &Model{
		store:      store,
		loader:     loader,
		disasters:  disasters,
		analyzer:   analyzer,
		classifier: classifier,
	}
}

// Posts returns a copy of the current post collection.
func (m *Model) Posts() []*models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Post, len(m.posts))
	copy(out, m.posts)
	return out
}

// Clear drops every in-memory post. Persisted rows are untouched.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = nil
}

// AddPost classifies and analyzes the post and its comments where tags are
// missing, persists it, and appends it to the collection. Analysis errors
// on individual items are logged and skipped; the post still lands in its
// best-known state.
func (m *Model) AddPost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addPostLocked(ctx, post)
}

// AddPosts adds each post in order, then commits the whole batch.
func (m *Model) AddPosts(ctx context.Context, posts []*models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range posts {
		if err := m.addPostLocked(ctx, post); err != nil {
			return err
		}
	}
	return m.store.Commit()
}

func (m *Model) addPostLocked(ctx context.Context, post *models.Post) error {
	if m.classifier != nil && post.ReliefItem == nil {
		if err := m.classifier.ClassifyPost(ctx, post); err != nil {
			utils.Warn("Model", "AddPost",
				fmt.Sprintf("Could not classify post %s: %v", post.PostID, err))
		}
	}

	if m.analyzer != nil && post.Sentiment == nil {
		sentiment, err := m.analyzer.AnalyzeSentiment(ctx, post.Content)
		if err != nil {
			utils.Warn("Model", "AddPost",
				fmt.Sprintf("Could not analyze post %s: %v", post.PostID, err))
		} else {
			post.Sentiment = sentiment
		}
	}

	for _, comment := range post.Comments {
		m.analyzeComment(ctx, comment)
	}

	m.posts = append(m.posts, post)
	if err := m.store.SavePost(post); err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.PostID, err)
	}
	return nil
}

// analyzeComment fills in missing tags on one comment. Errors are logged,
// never propagated; a single bad comment must not abort the batch.
func (m *Model) analyzeComment(ctx context.Context, comment *models.Comment) {
	if m.classifier != nil && comment.ReliefItem == nil {
		category, _, ok, err := m.classifier.ClassifyText(ctx, comment.Content)
		if err != nil {
			utils.Warn("Model", "AnalyzeComment",
				fmt.Sprintf("Could not classify comment %s: %v", comment.CommentID, err))
		} else if ok {
			comment.ReliefItem = models.NewReliefItem(category, "ML-classified", 3)
		}
	}

	if m.analyzer != nil && comment.Sentiment == nil {
		sentiment, err := m.analyzer.AnalyzeSentiment(ctx, comment.Content)
		if err != nil {
			utils.Warn("Model", "AnalyzeComment",
				fmt.Sprintf("Could not analyze comment %s: %v", comment.CommentID, err))
		} else {
			comment.Sentiment = sentiment
		}
	}
}

// AnalyzeAllPosts re-runs comment classification and sentiment analysis
// across the whole collection, persisting each updated comment. Returns
// the number of comments analyzed.
func (m *Model) AnalyzeAllPosts(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	analyzed := 0
	for _, post := range m.posts {
		for _, comment := range post.Comments {
			if err := ctx.Err(); err != nil {
				return analyzed
			}
			m.analyzeComment(ctx, comment)
			if err := m.store.UpdateComment(comment); err != nil {
				utils.Error("Model", "AnalyzeAllPosts",
					fmt.Sprintf("Could not save comment %s: %v", comment.CommentID, err))
				continue
			}
			analyzed++
		}
	}

	if err := m.store.Commit(); err != nil {
		utils.Error("Model", "AnalyzeAllPosts", fmt.Sprintf("Commit failed: %v", err))
	}
	utils.Info("Model", "AnalyzeAllPosts", fmt.Sprintf("Analyzed %d comments", analyzed))
	return analyzed
}

// UpdateComment replaces a comment in memory and in the store.
func (m *Model) UpdateComment(updated *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range m.posts {
		if post.UpdateComment(updated) {
			return m.store.UpdateComment(updated)
		}
	}
	return fmt.Errorf("comment not found: %s", updated.CommentID)
}

// RemoveComment deletes a comment from memory and from the store.
func (m *Model) RemoveComment(commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range m.posts {
		if post.RemoveComment(commentID) {
			return m.store.DeleteComment(commentID)
		}
	}
	return fmt.Errorf("comment not found: %s", commentID)
}

// LoadFromCurated replaces the whole collection with the curated
// snapshot's contents and rebuilds the user store from it. A missing
// curated store leaves the collection unchanged and reports the condition.
func (m *Model) LoadFromCurated() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loader == nil {
		return 0, fmt.Errorf("no curated store configured")
	}

	posts, err := m.loader.LoadFromCuratedStore()
	if err != nil {
		return 0, err
	}
	m.posts = posts
	return len(posts), nil
}
