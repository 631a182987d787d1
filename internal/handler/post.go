package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/ui"
	"github.com/duong1906ltv/website/internal/ui/pages"
	"github.com/duong1906ltv/website/internal/validation"
)

type PostHandler struct {
	postService *service.PostService
	userService *service.UserService
}

func NewPostHandler(postService *service.PostService, userService *service.UserService) *PostHandler {
	return &PostHandler{
		postService: postService,
		userService: userService,
	}
}

// Home lists all posts, newest first
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	posts, err := h.postService.ListPosts(r.Context(), ctxkeys.UserID(r.Context()), page)
	if err != nil {
		serverError(w, r, err, "failed to list posts")
		return
	}

	ui.Render(w, r, pages.Home(posts))
}

func (h *PostHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.CreatePost(pages.CreatePostData{}))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	form := validation.PostForm{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
		Body:     r.FormValue("body"),
	}

	_, image, err := r.FormFile("inputImage")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		ui.Render(w, r, pages.CreatePost(pages.CreatePostData{Form: form, Error: "The image could not be read."}))
		return
	}

	_, err = h.postService.CreatePost(r.Context(), user, form, image)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindValidation:
			ui.Render(w, r, pages.CreatePost(pages.CreatePostData{Form: form, Error: service.Message(err)}))
		case service.KindTransport:
			ui.RenderStatus(w, r, http.StatusServiceUnavailable, pages.CreatePost(pages.CreatePostData{Form: form, Error: service.Message(err)}))
		default:
			serverError(w, r, err, "failed to create post", "user_id", user.ID)
		}
		return
	}

	redirectWithFlash(w, r, "/", flash.CategorySuccess, "Post created!")
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		redirectWithFlash(w, r, "/", flash.CategoryError, service.ErrPostNotFound.Message)
		return
	}

	err = h.postService.DeletePost(r.Context(), user, id)
	if err != nil {
		kind := service.KindOf(err)
		if kind == service.KindNotFound || kind == service.KindAuth {
			redirectWithFlash(w, r, "/", flash.CategoryError, service.Message(err))
			return
		}
		serverError(w, r, err, "failed to delete post", "post_id", id)
		return
	}

	redirectWithFlash(w, r, "/", flash.CategorySuccess, "Post deleted.")
}

// Show serves /posts/{key}: a numeric key is a post id, anything else a username.
// Usernames can't be all digits, so the two never collide.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	id, err := strconv.ParseInt(key, 10, 64)
	if err == nil {
		h.detail(w, r, id)
		return
	}
	h.byUser(w, r, key)
}

func (h *PostHandler) detail(w http.ResponseWriter, r *http.Request, id int64) {
	post, err := h.postService.Post(r.Context(), id, ctxkeys.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			redirectWithFlash(w, r, "/", flash.CategoryError, service.Message(err))
			return
		}
		serverError(w, r, err, "failed to load post", "post_id", id)
		return
	}

	comments, err := h.postService.Comments(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "failed to load comments", "post_id", id)
		return
	}

	ui.Render(w, r, pages.PostDetail(pages.PostDetailData{Post: post, Comments: comments}))
}

func (h *PostHandler) byUser(w http.ResponseWriter, r *http.Request, username string) {
	author, err := h.userService.ByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			redirectWithFlash(w, r, "/", flash.CategoryError, service.Message(err))
			return
		}
		serverError(w, r, err, "failed to load user", "username", username)
		return
	}

	posts, err := h.postService.ListPostsByUser(r.Context(), author, ctxkeys.UserID(r.Context()))
	if err != nil {
		serverError(w, r, err, "failed to list user posts", "user_id", author.ID)
		return
	}

	ui.Render(w, r, pages.UserPosts(pages.UserPostsData{Username: author.Username, Posts: posts}))
}
