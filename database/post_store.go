package database

import (
	"database/sql"
	"fmt"
	"time"

	"reliefwatch/models"
)

// timeLayout is the stored timestamp format. Values are normalized to UTC
// on write so that lexical order matches chronological order.
const timeLayout = time.RFC3339

// SavePost upserts the post and all of its comments, keyed by primary key.
// A second write with the same identifier replaces the row.
func (s *Store) SavePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.savePostLocked(post); err != nil {
		return err
	}
	for _, comment := range post.Comments {
		if err := s.saveCommentLocked(comment); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) savePostLocked(post *models.Post) error {
	w, err := s.writer()
	if err != nil {
		return err
	}

	var sentimentType interface{}
	confidence := 0.0
	if post.Sentiment != nil {
		sentimentType = string(post.Sentiment.Type)
		confidence = post.Sentiment.Confidence
	}

	var reliefCategory interface{}
	if post.ReliefItem != nil {
		reliefCategory = string(post.ReliefItem.Category)
	}

	_, err = w.Exec(
		`INSERT OR REPLACE INTO posts
         (post_id, content, author, source, created_at, sentiment, confidence, relief_category, disaster_keyword)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.PostID,
		post.Content,
		post.Author,
		post.Source,
		post.CreatedAt.UTC().Format(timeLayout),
		sentimentType,
		confidence,
		reliefCategory,
		post.DisasterKeyword,
	)
	if err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.PostID, err)
	}
	return nil
}

// HasPost reports whether a post with the given id is already persisted.
func (s *Store) HasPost(postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reader()
	if err != nil {
		return false, err
	}

	var count int
	if err := r.QueryRow("SELECT COUNT(*) FROM posts WHERE post_id = ?", postID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check for post %s: %w", postID, err)
	}
	return count > 0, nil
}

// GetAllPosts reads every post row, without comments. Use GetAllComments
// to read comments and re-link them by post id.
func (s *Store) GetAllPosts() ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reader()
	if err != nil {
		return nil, err
	}

	rows, err := r.Query(`SELECT post_id, content, author, source, created_at,
        sentiment, confidence, relief_category, disaster_keyword FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// scanPost reconstructs a post from a row. Enumerated columns that fail to
// parse leave the corresponding field absent; stored data must never block
// the whole read.
func scanPost(rows *sql.Rows) (*models.Post, error) {
	var (
		postID, content, author, source            string
		createdAt                                  sql.NullString
		sentiment, reliefCategory, disasterKeyword sql.NullString
		confidence                                 sql.NullFloat64
	)
	if err := rows.Scan(&postID, &content, &author, &source, &createdAt,
		&sentiment, &confidence, &reliefCategory, &disasterKeyword); err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	post := models.NewPost(postID, content, parseStoredTime(createdAt.String), author, source)
	post.Sentiment = reconstructSentiment(sentiment, confidence, content)
	post.ReliefItem = reconstructReliefItem(reliefCategory, "Database loaded", 3)
	post.DisasterKeyword = disasterKeyword.String
	return post, nil
}

// parseStoredTime parses a stored timestamp, tolerating the zero value on
// malformed input.
func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// reconstructSentiment builds a Sentiment from denormalized columns, or
// nil when the stored type is empty or unknown.
func reconstructSentiment(sentiment sql.NullString, confidence sql.NullFloat64, sourceText string) *models.Sentiment {
	if !sentiment.Valid || sentiment.String == "" {
		return nil
	}
	t, ok := models.ParseSentimentType(sentiment.String)
	if !ok {
		return nil
	}
	return models.NewSentiment(t, confidence.Float64, sourceText)
}

// reconstructReliefItem builds a ReliefItem from the stored category, or
// nil when it is empty or unknown.
func reconstructReliefItem(category sql.NullString, description string, priority int) *models.ReliefItem {
	if !category.Valid || category.String == "" {
		return nil
	}
	c, ok := models.ParseCategory(category.String)
	if !ok {
		return nil
	}
	return models.NewReliefItem(c, description, priority)
}
