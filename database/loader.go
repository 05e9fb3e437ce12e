package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"reliefwatch/disaster"
	"reliefwatch/models"
	"reliefwatch/utils"
)

// ErrCuratedNotFound reports that the curated snapshot file does not
// exist. The caller's data is left unchanged.
var ErrCuratedNotFound = errors.New("curated store not found")

// sidecarSuffixes are the SQLite auxiliary files removed together with the
// main database file during a rebuild.
var sidecarSuffixes = []string{"-journal", "-shm", "-wal"}

// Loader replays the contents of a read-only curated store into the
// mutable user store, replacing the user store's prior contents entirely.
type Loader struct {
	curatedPath string
	user        *Store
	disasters   *disaster.Manager
}

// NewLoader creates a loader from the curated snapshot at curatedPath into
// the given user store.
func NewLoader(curatedPath string, user *Store, disasters *disaster.Manager) *Loader {
	return &Loader{curatedPath: curatedPath, user: user, disasters: disasters}
}

// LoadFromCuratedStore reads every post and comment from the curated
// store, re-links comments to their parent posts (orphans are dropped
// without error), destructively rebuilds the user store and persists the
// loaded content into it with a single commit. Returns the loaded posts.
//
// A missing curated store is a no-op returning ErrCuratedNotFound. A
// failed file deletion aborts the whole rebuild: an unclean delete must
// never be treated as success.
func (l *Loader) LoadFromCuratedStore() ([]*models.Post, error) {
	if _, err := os.Stat(l.curatedPath); err != nil {
		if os.IsNotExist(err) {
			utils.Warn("Loader", "LoadFromCuratedStore",
				fmt.Sprintf("Curated database not found at %s", l.curatedPath))
			return nil, ErrCuratedNotFound
		}
		return nil, fmt.Errorf("failed to stat curated store: %w", err)
	}

	curated := NewReadOnlyStore(l.curatedPath)
	defer curated.Close()

	posts, err := l.loadPosts(curated)
	if err != nil {
		return nil, err
	}
	if err := l.loadComments(curated, posts); err != nil {
		return nil, err
	}

	if err := l.rebuildUserStore(posts); err != nil {
		return nil, err
	}

	utils.Info("Loader", "LoadFromCuratedStore",
		fmt.Sprintf("Loaded from curated database: %d posts", len(posts)))
	return posts, nil
}

// loadPosts reads the curated posts table. The curated schema carries no
// sentiment columns on posts; only category and disaster keyword.
func (l *Loader) loadPosts(curated *Store) ([]*models.Post, error) {
	curated.mu.Lock()
	defer curated.mu.Unlock()

	r, err := curated.reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open curated store: %w", err)
	}

	rows, err := r.Query(`SELECT post_id, content, created_at, author, source,
        relief_category, disaster_keyword FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("failed to read curated posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var (
			postID, content, author, source string
			createdAt                       sql.NullString
			reliefCategory, disasterKeyword sql.NullString
		)
		if err := rows.Scan(&postID, &content, &createdAt, &author, &source,
			&reliefCategory, &disasterKeyword); err != nil {
			return nil, fmt.Errorf("failed to scan curated post: %w", err)
		}

		post := models.NewPost(postID, content, parseStoredTime(createdAt.String), author, source)
		post.ReliefItem = reconstructReliefItem(reliefCategory, reliefCategory.String, 1)
		post.DisasterKeyword = disasterKeyword.String

		// Canonicalize the keyword against the registry when possible.
		if post.DisasterKeyword != "" && l.disasters != nil {
			if d := l.disasters.Resolve(post.DisasterKeyword); d != nil {
				post.DisasterKeyword = d.Name
			}
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// loadComments reads the curated comments table and attaches each comment
// to its parent post. Comments referencing an unknown post id are skipped.
func (l *Loader) loadComments(curated *Store, posts []*models.Post) error {
	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.PostID] = p
	}

	comments, err := curated.GetAllComments()
	if err != nil {
		return fmt.Errorf("failed to read curated comments: %w", err)
	}

	orphans := 0
	for _, comment := range comments {
		parent, ok := byID[comment.PostID]
		if !ok {
			orphans++
			continue
		}
		parent.AddComment(comment)
	}
	if orphans > 0 {
		utils.Warn("Loader", "LoadFromCuratedStore",
			fmt.Sprintf("Skipped %d orphaned comments with no parent post", orphans))
	}
	return nil
}

// rebuildUserStore deletes the user store's files and writes the loaded
// posts into a freshly created database. The store handle is closed first;
// Close returns only after the file handle is released, so no settling
// delay is needed before deleting.
func (l *Loader) rebuildUserStore(posts []*models.Post) error {
	if err := l.user.Close(); err != nil {
		return fmt.Errorf("failed to close user store before rebuild: %w", err)
	}

	path := l.user.Path()
	for _, target := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s during rebuild: %w", target, err)
		}
	}

	for _, post := range posts {
		if err := l.user.SavePost(post); err != nil {
			return fmt.Errorf("failed to persist loaded post %s: %w", post.PostID, err)
		}
	}
	if err := l.user.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuilt user store: %w", err)
	}
	return nil
}

// sidecarPaths lists the auxiliary file paths for a database file.
func sidecarPaths(path string) []string {
	out := make([]string, 0, len(sidecarSuffixes))
	for _, suffix := range sidecarSuffixes {
		out = append(out, path+suffix)
	}
	return out
}
