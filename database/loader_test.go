package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reliefwatch/disaster"
	"reliefwatch/models"
)

// writeCuratedFixture creates a curated snapshot with the schema the
// curation tooling produces: posts carry no sentiment columns.
func writeCuratedFixture(t *testing.T, path string, posts [][]interface{}, comments [][]interface{}) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE posts (
        post_id TEXT PRIMARY KEY,
        content TEXT,
        created_at TEXT,
        author TEXT,
        source TEXT,
        relief_category TEXT,
        disaster_keyword TEXT
    )`)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE comments (
        comment_id TEXT PRIMARY KEY,
        post_id TEXT,
        content TEXT,
        author TEXT,
        created_at TEXT,
        sentiment TEXT,
        confidence REAL,
        relief_category TEXT,
        disaster_type TEXT
    )`)
	require.NoError(t, err)

	for _, p := range posts {
		_, err = db.Exec("INSERT INTO posts VALUES (?, ?, ?, ?, ?, ?, ?)", p...)
		require.NoError(t, err)
	}
	for _, c := range comments {
		_, err = db.Exec("INSERT INTO comments VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", c...)
		require.NoError(t, err)
	}
}

func TestLoadFromCuratedStore(t *testing.T) {
	dir := t.TempDir()
	curatedPath := filepath.Join(dir, "curated.db")
	writeCuratedFixture(t, curatedPath,
		[][]interface{}{
			{"P1", "flooding in the delta", "2026-08-10T09:00:00Z", "reporter_a", "YOUTUBE", "FOOD", "typhoon yagi"},
			{"P2", "shelter camps set up", "2026-08-11T10:00:00Z", "reporter_b", "RSS", "SHELTER", "matmo"},
			{"P3", "roads blocked by landslide", "2026-08-12T11:00:00Z", "reporter_c", "RSS", nil, ""},
		},
		[][]interface{}{
			{"C1", "P1", "great response", "user_a", "2026-08-10T10:00:00Z", "POSITIVE", 0.9, "FOOD", "yagi"},
			{"C2", "P1", "need more water", "user_b", "2026-08-10T11:00:00Z", "NEGATIVE", 0.8, nil, "yagi"},
			{"C3", "P2", "camps are crowded", "user_c", "2026-08-11T12:00:00Z", "NEUTRAL", 0.6, nil, "matmo"},
			// Orphans: parent post is not in the snapshot.
			{"C4", "GONE", "orphan one", "user_d", "2026-08-11T13:00:00Z", "NEUTRAL", 0.5, nil, ""},
			{"C5", "GONE", "orphan two", "user_e", "2026-08-11T14:00:00Z", "NEUTRAL", 0.5, nil, ""},
		})

	user := NewStore(filepath.Join(dir, "user.db"))
	defer user.Close()

	loader := NewLoader(curatedPath, user, disaster.NewManager())
	posts, err := loader.LoadFromCuratedStore()
	require.NoError(t, err)
	require.Len(t, posts, 3)

	byID := map[string]*models.Post{}
	for _, p := range posts {
		byID[p.PostID] = p
	}

	p1 := byID["P1"]
	require.NotNil(t, p1)
	// The alias "typhoon yagi" canonicalizes to the registered name.
	assert.Equal(t, "yagi", p1.DisasterKeyword)
	require.NotNil(t, p1.ReliefItem)
	assert.Equal(t, models.CategoryFood, p1.ReliefItem.Category)
	require.Len(t, p1.Comments, 2)

	p2 := byID["P2"]
	require.NotNil(t, p2)
	assert.Equal(t, "matmo", p2.DisasterKeyword)
	require.Len(t, p2.Comments, 1)

	p3 := byID["P3"]
	require.NotNil(t, p3)
	assert.Nil(t, p3.ReliefItem)
	assert.Empty(t, p3.Comments)

	// The user store was rebuilt with exactly the loaded content.
	stored, err := user.GetAllPosts()
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	storedComments, err := user.GetAllComments()
	require.NoError(t, err)
	assert.Len(t, storedComments, 3, "orphaned comments must not be persisted")
}

func TestLoadFromCuratedStore_MissingSnapshotIsNoOp(t *testing.T) {
	dir := t.TempDir()

	user := NewStore(filepath.Join(dir, "user.db"))
	defer user.Close()
	require.NoError(t, user.SavePost(samplePost("KEEP")))
	require.NoError(t, user.Commit())

	loader := NewLoader(filepath.Join(dir, "missing.db"), user, disaster.NewManager())
	posts, err := loader.LoadFromCuratedStore()
	assert.ErrorIs(t, err, ErrCuratedNotFound)
	assert.Nil(t, posts)

	// Existing user data is untouched.
	stored, err := user.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "KEEP", stored[0].PostID)
}

func TestLoadFromCuratedStore_RebuildRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	curatedPath := filepath.Join(dir, "curated.db")
	writeCuratedFixture(t, curatedPath,
		[][]interface{}{
			{"P1", "new snapshot content", "2026-08-12T09:00:00Z", "reporter", "RSS", nil, "yagi"},
		}, nil)

	userPath := filepath.Join(dir, "user.db")
	user := NewStore(userPath)
	defer user.Close()
	require.NoError(t, user.SavePost(samplePost("STALE")))
	require.NoError(t, user.Close())

	// Leftover sidecars from an unclean shutdown must not survive.
	journalPath := userPath + "-journal"
	walPath := userPath + "-wal"
	require.NoError(t, os.WriteFile(journalPath, []byte("stale journal"), 0644))
	require.NoError(t, os.WriteFile(walPath, []byte("stale wal"), 0644))

	loader := NewLoader(curatedPath, user, disaster.NewManager())
	posts, err := loader.LoadFromCuratedStore()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	_, err = os.Stat(journalPath)
	assert.True(t, os.IsNotExist(err))
	// The rebuild reopens the store in WAL mode, so a fresh -wal may exist;
	// the stale one must be gone either way.
	if data, err := os.ReadFile(walPath); err == nil {
		assert.NotEqual(t, []byte("stale wal"), data)
	}

	stored, err := user.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "P1", stored[0].PostID)
}
