package database

import (
	"fmt"
	"time"

	"reliefwatch/utils"
)

// CleanupOldPosts deletes posts older than maxAge, together with their
// comments, and commits. Returns the number of posts removed.
func (s *Store) CleanupOldPosts(maxAge time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.writer()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge).UTC().Format(timeLayout)

	// Timestamps are stored as UTC RFC 3339 text, so lexical comparison is
	// chronological comparison.
	if _, err := w.Exec(
		"DELETE FROM comments WHERE post_id IN (SELECT post_id FROM posts WHERE created_at < ?)",
		cutoff,
	); err != nil {
		return 0, fmt.Errorf("failed to clean up old comments: %w", err)
	}

	res, err := w.Exec("DELETE FROM posts WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up old posts: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned up posts: %w", err)
	}

	if err := s.commitLocked(); err != nil {
		return 0, err
	}

	utils.Info("Store", "CleanupOldPosts",
		fmt.Sprintf("Successfully cleaned up %d old posts from %s", removed, s.path))
	return removed, nil
}
