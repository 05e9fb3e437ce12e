package models

import "time"

// Post represents a single piece of crawled social-media content.
// A post owns its comments; they are kept in arrival order.
type Post struct {
	PostID          string `db:"post_id"` // Unique per source
	Content         string `db:"content"`
	Author          string `db:"author"`
	Source          string `db:"source"` // Platform label, e.g. "YOUTUBE", "RSS", "MOCK"
	CreatedAt       time.Time
	Sentiment       *Sentiment
	ReliefItem      *ReliefItem
	DisasterKeyword string `db:"disaster_keyword"`
	Comments        []*Comment
}

// NewPost creates a post with no comments and no analysis tags.
func NewPost(postID, content string, createdAt time.Time, author, source string) *Post {
	return &Post{
		PostID:    postID,
		Content:   content,
		Author:    author,
		Source:    source,
		CreatedAt: createdAt,
	}
}

// AddComment appends a comment to the post.
func (p *Post) AddComment(c *Comment) {
	p.Comments = append(p.Comments, c)
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(commentID string) *Comment {
	for _, c := range p.Comments {
		if c.CommentID == commentID {
			return c
		}
	}
	return nil
}

// UpdateComment replaces the comment with the same id in place.
// Returns false if no comment with that id exists.
func (p *Post) UpdateComment(updated *Comment) bool {
	for i, c := range p.Comments {
		if c.CommentID == updated.CommentID {
			p.Comments[i] = updated
			return true
		}
	}
	return false
}

// RemoveComment deletes the comment with the given id.
// Returns false if no comment with that id exists.
func (p *Post) RemoveComment(commentID string) bool {
	for i, c := range p.Comments {
		if c.CommentID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Comment represents a single comment on a post. PostID is a back-reference
// to the owning post, not an ownership relation.
type Comment struct {
	CommentID    string `db:"comment_id"` // Unique
	PostID       string `db:"post_id"`
	Content      string `db:"content"`
	Author       string `db:"author"`
	CreatedAt    time.Time
	Sentiment    *Sentiment
	ReliefItem   *ReliefItem
	DisasterType string `db:"disaster_type"`
}

// NewComment creates a comment with no analysis tags.
func NewComment(commentID, postID, content string, createdAt time.Time, author string) *Comment {
	return &Comment{
		CommentID: commentID,
		PostID:    postID,
		Content:   content,
		Author:    author,
		CreatedAt: createdAt,
	}
}
