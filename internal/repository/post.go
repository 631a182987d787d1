package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/duong1906ltv/website/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ByID(ctx context.Context, id int64) (*model.Post, error)
	ViewByID(ctx context.Context, id, viewerID int64) (*model.PostView, error)
	List(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostView, error)
	ListByAuthor(ctx context.Context, authorID, viewerID int64) ([]model.PostView, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postViewSelect joins the author and like state for viewer $1.
// A zero viewer id never matches a like, so anonymous viewers see liked = false.
const postViewSelect = `
	SELECT p.*,
		u.username AS author_username,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes,
		EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.author_id = $1) AS liked,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (title, content, category, body, image, created_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return r.db.QueryRowxContext(ctx, query,
		post.Title,
		post.Content,
		post.Category,
		post.Body,
		post.Image,
		post.CreatedAt,
		post.AuthorID,
	).Scan(&post.ID)
}

func (r *postRepository) ByID(ctx context.Context, id int64) (*model.Post, error) {
	post := &model.Post{}
	query := `SELECT * FROM posts WHERE id = $1`

	err := r.db.GetContext(ctx, post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepository) ViewByID(ctx context.Context, id, viewerID int64) (*model.PostView, error) {
	view := &model.PostView{}
	query := postViewSelect + `WHERE p.id = $2`

	err := r.db.GetContext(ctx, view, query, viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (r *postRepository) List(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostView, error) {
	views := []model.PostView{}
	query := postViewSelect + `ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &views, query, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID, viewerID int64) ([]model.PostView, error) {
	views := []model.PostView{}
	query := postViewSelect + `WHERE p.author_id = $2 ORDER BY p.created_at DESC, p.id DESC`

	err := r.db.SelectContext(ctx, &views, query, viewerID, authorID)
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (r *postRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`)
	return n, err
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}
