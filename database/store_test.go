package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reliefwatch/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "user.db"))
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePost(id string) *models.Post {
	created := time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC)
	post := models.NewPost(id, "flood waters rising in district 4", created, "reporter", "RSS")
	post.DisasterKeyword = "yagi"
	post.Sentiment = models.NewSentiment(models.SentimentNegative, 0.85, post.Content)
	post.ReliefItem = models.NewReliefItem(models.CategoryShelter, "ML-classified", 3)
	return post
}

func TestSavePost_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	post := samplePost("P1")
	c1 := models.NewComment("C1", "P1", "aid arrived quickly", post.CreatedAt.Add(time.Hour), "user_a")
	c1.Sentiment = models.NewSentiment(models.SentimentPositive, 0.9, c1.Content)
	c1.ReliefItem = models.NewReliefItem(models.CategoryFood, "ML-classified", 3)
	c1.DisasterType = "yagi"
	c2 := models.NewComment("C2", "P1", "still waiting for supplies", post.CreatedAt.Add(2*time.Hour), "user_b")
	c2.DisasterType = "yagi"
	post.AddComment(c1)
	post.AddComment(c2)

	require.NoError(t, s.SavePost(post))
	require.NoError(t, s.Commit())

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	got := posts[0]
	assert.Equal(t, "P1", got.PostID)
	assert.Equal(t, post.Content, got.Content)
	assert.Equal(t, "reporter", got.Author)
	assert.Equal(t, "RSS", got.Source)
	assert.True(t, got.CreatedAt.Equal(post.CreatedAt))
	assert.Equal(t, "yagi", got.DisasterKeyword)
	require.NotNil(t, got.Sentiment)
	assert.Equal(t, models.SentimentNegative, got.Sentiment.Type)
	assert.InDelta(t, 0.85, got.Sentiment.Confidence, 1e-9)
	require.NotNil(t, got.ReliefItem)
	assert.Equal(t, models.CategoryShelter, got.ReliefItem.Category)

	comments, err := s.GetAllComments()
	require.NoError(t, err)
	require.Len(t, comments, 2)

	byID := map[string]*models.Comment{}
	for _, c := range comments {
		byID[c.CommentID] = c
	}
	require.Contains(t, byID, "C1")
	require.Contains(t, byID, "C2")
	assert.Equal(t, "P1", byID["C1"].PostID)
	require.NotNil(t, byID["C1"].Sentiment)
	assert.Equal(t, models.SentimentPositive, byID["C1"].Sentiment.Type)
	assert.Nil(t, byID["C2"].Sentiment)
	assert.Nil(t, byID["C2"].ReliefItem)
	assert.Equal(t, "yagi", byID["C2"].DisasterType)
}

func TestSavePost_UpsertReplacesRow(t *testing.T) {
	s := newTestStore(t)

	post := samplePost("P1")
	require.NoError(t, s.SavePost(post))

	post.Content = "updated: flood waters receding"
	require.NoError(t, s.SavePost(post))
	require.NoError(t, s.Commit())

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "updated: flood waters receding", posts[0].Content)
}

func TestHasPost_SeesUncommittedBatchWrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePost(samplePost("P1")))

	// No Commit yet; the same handle must already see the write.
	exists, err := s.HasPost("P1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.HasPost("P2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllPosts_SkipsBadEnumValues(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SavePost(samplePost("P1")))
	require.NoError(t, s.Commit())

	// Corrupt the enum columns behind the store's back.
	db, err := sql.Open("sqlite3", s.Path())
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE posts SET sentiment = 'ECSTATIC', relief_category = 'TOYS',
        created_at = 'not-a-date' WHERE post_id = 'P1'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].Sentiment)
	assert.Nil(t, posts[0].ReliefItem)
	assert.True(t, posts[0].CreatedAt.IsZero())
}

func TestUpdateComment(t *testing.T) {
	s := newTestStore(t)

	post := samplePost("P1")
	c := models.NewComment("C1", "P1", "original", post.CreatedAt.Add(time.Hour), "user_a")
	post.AddComment(c)
	require.NoError(t, s.SavePost(post))

	c.Content = "edited"
	c.Sentiment = models.NewSentiment(models.SentimentNeutral, 0.5, c.Content)
	require.NoError(t, s.UpdateComment(c))
	require.NoError(t, s.Commit())

	comments, err := s.GetAllComments()
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].Content)
	require.NotNil(t, comments[0].Sentiment)
	assert.Equal(t, models.SentimentNeutral, comments[0].Sentiment.Type)
}

func TestDeleteComment_CommitsImmediately(t *testing.T) {
	s := newTestStore(t)

	post := samplePost("P1")
	post.AddComment(models.NewComment("C1", "P1", "to be removed", post.CreatedAt, "user_a"))
	require.NoError(t, s.SavePost(post))
	require.NoError(t, s.Commit())

	require.NoError(t, s.DeleteComment("C1"))

	// Reopen from scratch; the delete must already be durable.
	require.NoError(t, s.Reset())
	comments, err := s.GetAllComments()
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestClearAllComments(t *testing.T) {
	s := newTestStore(t)

	post := samplePost("P1")
	post.AddComment(models.NewComment("C1", "P1", "one", post.CreatedAt, "user_a"))
	post.AddComment(models.NewComment("C2", "P1", "two", post.CreatedAt, "user_b"))
	require.NoError(t, s.SavePost(post))

	require.NoError(t, s.ClearAllComments())

	comments, err := s.GetAllComments()
	require.NoError(t, err)
	assert.Empty(t, comments)

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCleanupOldPosts(t *testing.T) {
	s := newTestStore(t)

	old := models.NewPost("OLD", "last month's storm", time.Now().Add(-40*24*time.Hour), "reporter", "RSS")
	old.AddComment(models.NewComment("C_OLD", "OLD", "stale", old.CreatedAt, "user_a"))
	fresh := models.NewPost("NEW", "this week's storm", time.Now(), "reporter", "RSS")

	require.NoError(t, s.SavePost(old))
	require.NoError(t, s.SavePost(fresh))
	require.NoError(t, s.Commit())

	removed, err := s.CleanupOldPosts(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "NEW", posts[0].PostID)

	comments, err := s.GetAllComments()
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCleanupOldPosts_ZoneOffsetsDoNotAffectRetention(t *testing.T) {
	s := newTestStore(t)

	// A fresh post whose timestamp carries a non-UTC offset must survive a
	// retention pass; an expired one with an offset must not.
	west := time.FixedZone("UTC-2", -2*60*60)
	fresh := models.NewPost("FRESH", "just posted", time.Now().In(west).Add(-30*time.Minute), "reporter", "RSS")
	expired := models.NewPost("EXPIRED", "old news", time.Now().In(west).Add(-2*time.Hour), "reporter", "RSS")

	require.NoError(t, s.SavePost(fresh))
	require.NoError(t, s.SavePost(expired))
	require.NoError(t, s.Commit())

	removed, err := s.CleanupOldPosts(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "FRESH", posts[0].PostID)
}

func TestReset_RecreatesSchemaAfterExternalDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SavePost(samplePost("P1")))
	require.NoError(t, s.Commit())

	require.NoError(t, s.Reset())
	require.NoError(t, os.Remove(s.Path()))

	// Next use reopens the file and recreates the schema.
	exists, err := s.HasPost("P1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReset_DiscardsUncommittedBatch(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SavePost(samplePost("P1")))
	require.NoError(t, s.Reset())

	posts, err := s.GetAllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestReadOnlyStore_RejectsWrites(t *testing.T) {
	writer := newTestStore(t)
	require.NoError(t, writer.SavePost(samplePost("P1")))
	require.NoError(t, writer.Close())

	ro := NewReadOnlyStore(writer.Path())
	defer ro.Close()

	posts, err := ro.GetAllPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	err = ro.SavePost(samplePost("P2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}
