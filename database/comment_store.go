package database

import (
	"database/sql"
	"fmt"

	"reliefwatch/models"
)

// SaveComment upserts a single comment keyed by its primary key. The
// referenced post must exist in the same store.
func (s *Store) SaveComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCommentLocked(comment)
}

func (s *Store) saveCommentLocked(comment *models.Comment) error {
	w, err := s.writer()
	if err != nil {
		return err
	}

	var sentimentType interface{}
	confidence := 0.0
	if comment.Sentiment != nil {
		sentimentType = string(comment.Sentiment.Type)
		confidence = comment.Sentiment.Confidence
	}

	var reliefCategory interface{}
	if comment.ReliefItem != nil {
		reliefCategory = string(comment.ReliefItem.Category)
	}

	_, err = w.Exec(
		`INSERT OR REPLACE INTO comments
         (comment_id, post_id, content, author, created_at, sentiment, confidence, relief_category, disaster_type)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.CommentID,
		comment.PostID,
		comment.Content,
		comment.Author,
		comment.CreatedAt.UTC().Format(timeLayout),
		sentimentType,
		confidence,
		reliefCategory,
		comment.DisasterType,
	)
	if err != nil {
		return fmt.Errorf("failed to save comment %s: %w", comment.CommentID, err)
	}
	return nil
}

// UpdateComment replaces the stored comment row. Part of the surrounding
// batch; the caller commits.
func (s *Store) UpdateComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := w.Exec("DELETE FROM comments WHERE comment_id = ?", comment.CommentID); err != nil {
		return fmt.Errorf("failed to update comment %s: %w", comment.CommentID, err)
	}
	return s.saveCommentLocked(comment)
}

// DeleteComment removes a comment and commits immediately.
func (s *Store) DeleteComment(commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := w.Exec("DELETE FROM comments WHERE comment_id = ?", commentID); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}
	return s.commitLocked()
}

// ClearAllComments removes every comment row and commits immediately.
func (s *Store) ClearAllComments() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := w.Exec("DELETE FROM comments"); err != nil {
		return fmt.Errorf("failed to clear comments: %w", err)
	}
	return s.commitLocked()
}

// GetAllComments reads every comment row. Callers re-link comments to
// their posts by post id.
func (s *Store) GetAllComments() ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reader()
	if err != nil {
		return nil, err
	}

	rows, err := r.Query(`SELECT comment_id, post_id, content, author, created_at,
        sentiment, confidence, relief_category, disaster_type FROM comments`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// scanComment reconstructs a comment from a row, applying the same
// swallow-on-parse-failure rules as posts.
func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var (
		commentID, postID, content, author      string
		createdAt                               sql.NullString
		sentiment, reliefCategory, disasterType sql.NullString
		confidence                              sql.NullFloat64
	)
	if err := rows.Scan(&commentID, &postID, &content, &author, &createdAt,
		&sentiment, &confidence, &reliefCategory, &disasterType); err != nil {
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	comment := models.NewComment(commentID, postID, content, parseStoredTime(createdAt.String), author)
	comment.Sentiment = reconstructSentiment(sentiment, confidence, content)
	comment.ReliefItem = reconstructReliefItem(reliefCategory, "Database loaded", 3)
	comment.DisasterType = disasterType.String
	return comment, nil
}
