package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type LikeRepository interface {
	IsLiked(ctx context.Context, authorID, postID int64) (bool, error)
	Like(ctx context.Context, authorID, postID int64) error
	Unlike(ctx context.Context, authorID, postID int64) error
	Count(ctx context.Context, postID int64) (int, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) IsLiked(ctx context.Context, authorID, postID int64) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM likes WHERE author_id = $1 AND post_id = $2`

	err := r.db.GetContext(ctx, &n, query, authorID, postID)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Like is idempotent: the unique (author_id, post_id) pair absorbs a concurrent duplicate
func (r *likeRepository) Like(ctx context.Context, authorID, postID int64) error {
	query := `
		INSERT INTO likes (author_id, post_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (author_id, post_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, authorID, postID, time.Now().UTC())
	return err
}

func (r *likeRepository) Unlike(ctx context.Context, authorID, postID int64) error {
	query := `DELETE FROM likes WHERE author_id = $1 AND post_id = $2`
	_, err := r.db.ExecContext(ctx, query, authorID, postID)
	return err
}

func (r *likeRepository) Count(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID)
	return n, err
}
