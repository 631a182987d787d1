package model

import (
	"time"
)

type Comment struct {
	ID        int64     `db:"id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	AuthorID  int64     `db:"author_id"`
	PostID    int64     `db:"post_id"`
}

type CommentView struct {
	Comment
	AuthorUsername string `db:"author_username"`
	PostAuthorID   int64  `db:"post_author_id"`
}
