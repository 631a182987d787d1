package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/duong1906ltv/website/internal/model"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ByID(ctx context.Context, id int64) (*model.CommentView, error)
	ListByPost(ctx context.Context, postID int64) ([]model.CommentView, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentViewSelect = `
	SELECT c.*, u.username AS author_username, p.author_id AS post_author_id
	FROM comments c
	JOIN users u ON u.id = c.author_id
	JOIN posts p ON p.id = c.post_id
`

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (text, created_at, author_id, post_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.db.QueryRowxContext(ctx, query,
		comment.Text,
		comment.CreatedAt,
		comment.AuthorID,
		comment.PostID,
	).Scan(&comment.ID)
}

func (r *commentRepository) ByID(ctx context.Context, id int64) (*model.CommentView, error) {
	view := &model.CommentView{}
	query := commentViewSelect + `WHERE c.id = $1`

	err := r.db.GetContext(ctx, view, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]model.CommentView, error) {
	views := []model.CommentView{}
	query := commentViewSelect + `WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`

	err := r.db.SelectContext(ctx, &views, query, postID)
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
