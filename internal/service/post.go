package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/validation"
)

// PostPage is one page of the home timeline
type PostPage struct {
	Posts      []model.PostView
	Page       int
	TotalPages int
}

func (p *PostPage) HasPrev() bool { return p.Page > 1 }
func (p *PostPage) HasNext() bool { return p.Page < p.TotalPages }
func (p *PostPage) PrevPage() int { return p.Page - 1 }
func (p *PostPage) NextPage() int { return p.Page + 1 }

// PostService is the content store: posts, comments and likes
type PostService struct {
	postRepository    repository.PostRepository
	commentRepository repository.CommentRepository
	likeRepository    repository.LikeRepository
	fileService       *FileService
	perPage           int
}

func NewPostService(
	postRepository repository.PostRepository,
	commentRepository repository.CommentRepository,
	likeRepository repository.LikeRepository,
	fileService *FileService,
	perPage int,
) *PostService {
	if perPage <= 0 {
		perPage = 20
	}
	return &PostService{
		postRepository:    postRepository,
		commentRepository: commentRepository,
		likeRepository:    likeRepository,
		fileService:       fileService,
		perPage:           perPage,
	}
}

// CreatePost stores an optional image and then the post. The image is removed
// again if the post can't be saved.
func (s *PostService) CreatePost(ctx context.Context, author *model.User, form validation.PostForm, image *multipart.FileHeader) (*model.Post, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	form.Category = strings.TrimSpace(form.Category)
	form.Body = strings.TrimSpace(form.Body)

	err := validation.ValidateForm(form)
	if err != nil {
		return nil, ValidationError(err.Error())
	}

	var imageKey string
	if image != nil {
		imageKey, err = s.fileService.SaveImage(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		Title:     form.Title,
		Content:   form.Content,
		Category:  form.Category,
		Body:      form.Body,
		Image:     imageKey,
		CreatedAt: time.Now().UTC(),
		AuthorID:  author.ID,
	}

	err = s.postRepository.Create(ctx, post)
	if err != nil {
		s.fileService.Delete(ctx, imageKey)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// DeletePost removes a post; only its author may do so
func (s *PostService) DeletePost(ctx context.Context, user *model.User, postID int64) error {
	post, err := s.postRepository.ByID(ctx, postID)
	if err != nil {
		return mapPostErr(err)
	}

	if post.AuthorID != user.ID {
		return ErrPostForbidden
	}

	err = s.postRepository.Delete(ctx, postID)
	if err != nil {
		return mapPostErr(err)
	}

	s.fileService.Delete(ctx, post.Image)
	slog.Info("post deleted", "post_id", postID, "user_id", user.ID)
	return nil
}

// Post returns a post with its author and the viewer's like state
func (s *PostService) Post(ctx context.Context, postID, viewerID int64) (*model.PostView, error) {
	view, err := s.postRepository.ViewByID(ctx, postID, viewerID)
	if err != nil {
		return nil, mapPostErr(err)
	}
	view.ImageURL = s.fileService.URL(view.Image)
	return view, nil
}

func (s *PostService) Comments(ctx context.Context, postID int64) ([]model.CommentView, error) {
	return s.commentRepository.ListByPost(ctx, postID)
}

// ListPosts returns one page of posts, newest first. Pages start at 1;
// out-of-range pages are clamped.
func (s *PostService) ListPosts(ctx context.Context, viewerID int64, page int) (*PostPage, error) {
	total, err := s.postRepository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	totalPages := (total + s.perPage - 1) / s.perPage
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	posts, err := s.postRepository.List(ctx, viewerID, s.perPage, (page-1)*s.perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	s.fillImageURLs(posts)

	return &PostPage{Posts: posts, Page: page, TotalPages: totalPages}, nil
}

func (s *PostService) ListPostsByUser(ctx context.Context, author *model.User, viewerID int64) ([]model.PostView, error) {
	posts, err := s.postRepository.ListByAuthor(ctx, author.ID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	s.fillImageURLs(posts)
	return posts, nil
}

func (s *PostService) fillImageURLs(posts []model.PostView) {
	for i := range posts {
		posts[i].ImageURL = s.fileService.URL(posts[i].Image)
	}
}

// CreateComment adds a comment to an existing post
func (s *PostService) CreateComment(ctx context.Context, user *model.User, postID int64, form validation.CommentForm) (*model.Comment, error) {
	form.Text = strings.TrimSpace(form.Text)

	err := validation.ValidateForm(form)
	if err != nil {
		return nil, ValidationError(err.Error())
	}

	_, err = s.postRepository.ByID(ctx, postID)
	if err != nil {
		return nil, mapPostErr(err)
	}

	comment := &model.Comment{
		Text:      form.Text,
		CreatedAt: time.Now().UTC(),
		AuthorID:  user.ID,
		PostID:    postID,
	}

	err = s.commentRepository.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment; its author or the post's author may do so
func (s *PostService) DeleteComment(ctx context.Context, user *model.User, commentID int64) (*model.CommentView, error) {
	comment, err := s.commentRepository.ByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if user.ID != comment.AuthorID && user.ID != comment.PostAuthorID {
		return nil, ErrCommentForbidden
	}

	err = s.commentRepository.Delete(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	return comment, nil
}

// ToggleLike likes the post if the user hasn't yet, otherwise unlikes it.
// Applying it twice restores the original state.
func (s *PostService) ToggleLike(ctx context.Context, user *model.User, postID int64) (*model.LikeState, error) {
	_, err := s.postRepository.ByID(ctx, postID)
	if err != nil {
		return nil, mapPostErr(err)
	}

	isLiked, err := s.likeRepository.IsLiked(ctx, user.ID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = s.likeRepository.Unlike(ctx, user.ID, postID)
	} else {
		err = s.likeRepository.Like(ctx, user.ID, postID)
	}
	if err != nil {
		return nil, err
	}

	likes, err := s.likeRepository.Count(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &model.LikeState{Likes: likes, Liked: !isLiked}, nil
}

func mapPostErr(err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}
