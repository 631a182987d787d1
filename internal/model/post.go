package model

import (
	"time"
)

type Post struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"` // Short summary shown in lists
	Category  string    `db:"category"`
	Body      string    `db:"body"`  // Markdown
	Image     string    `db:"image"` // Storage key, empty when no image was uploaded
	CreatedAt time.Time `db:"created_at"`
	AuthorID  int64     `db:"author_id"`
}

// PostView is a post joined with its author and like state for one viewer
type PostView struct {
	Post
	AuthorUsername string `db:"author_username"`
	Likes          int    `db:"likes"`
	Liked          bool   `db:"liked"`
	CommentCount   int    `db:"comment_count"`

	// Computed fields (not in database)
	ImageURL string `db:"-"`
}

func (p PostView) DatePosted() string {
	return p.CreatedAt.Format("January 02, 2006")
}

type Like struct {
	ID        int64     `db:"id"`
	AuthorID  int64     `db:"author_id"`
	PostID    int64     `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`
}

// LikeState is the result of toggling a like
type LikeState struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
