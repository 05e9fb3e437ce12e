package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_CommentLifecycle(t *testing.T) {
	now := time.Now()
	post := NewPost("P1", "storm update", now, "reporter", "RSS")
	assert.Empty(t, post.Comments)

	c1 := NewComment("C1", "P1", "first", now, "user_a")
	c2 := NewComment("C2", "P1", "second", now, "user_b")
	post.AddComment(c1)
	post.AddComment(c2)
	require.Len(t, post.Comments, 2)

	assert.Same(t, c2, post.FindComment("C2"))
	assert.Nil(t, post.FindComment("C9"))

	edited := NewComment("C1", "P1", "first, edited", now, "user_a")
	assert.True(t, post.UpdateComment(edited))
	assert.Equal(t, "first, edited", post.FindComment("C1").Content)
	assert.False(t, post.UpdateComment(NewComment("C9", "P1", "ghost", now, "x")))

	assert.True(t, post.RemoveComment("C1"))
	assert.False(t, post.RemoveComment("C1"))
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "C2", post.Comments[0].CommentID)
}

func TestNewSentiment_ClampsConfidence(t *testing.T) {
	assert.Equal(t, 0.0, NewSentiment(SentimentNeutral, -0.5, "t").Confidence)
	assert.Equal(t, 1.0, NewSentiment(SentimentPositive, 1.5, "t").Confidence)
	assert.Equal(t, 0.5, NewSentiment(SentimentNegative, 0.5, "t").Confidence)
}

func TestParseSentimentType(t *testing.T) {
	got, ok := ParseSentimentType("POSITIVE")
	assert.True(t, ok)
	assert.Equal(t, SentimentPositive, got)

	_, ok = ParseSentimentType("positive")
	assert.False(t, ok)
	_, ok = ParseSentimentType("")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory("TRANSPORTATION")
	assert.True(t, ok)
	assert.Equal(t, CategoryTransportation, got)

	_, ok = ParseCategory("EDUCATION")
	assert.False(t, ok)
}

func TestNewDisasterType_Normalization(t *testing.T) {
	d := NewDisasterType("  Trami ", []string{"Typhoon Trami", "trami", "", "bao trami"}, false)
	assert.Equal(t, "trami", d.Name)
	assert.Equal(t, []string{"trami", "typhoon trami", "bao trami"}, d.Aliases)

	assert.True(t, d.HasAlias("TYPHOON TRAMI"))
	assert.True(t, d.HasAlias(" trami "))
	assert.False(t, d.HasAlias("yagi"))
}
