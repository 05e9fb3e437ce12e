package pipeline

import (
	"sync"

	"reliefwatch/models"
)

// Buffer collects the accepted posts of one or more ingestion runs, in
// acceptance order. Safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	posts []*models.Post
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add appends a post.
func (b *Buffer) Add(p *models.Post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = append(b.posts, p)
}

// Posts returns a copy of the buffered posts in acceptance order.
func (b *Buffer) Posts() []*models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*models.Post, len(b.posts))
	copy(out, b.posts)
	return out
}

// Len reports the number of buffered posts.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.posts)
}

// Clear drops every buffered post.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = nil
}
