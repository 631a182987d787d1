package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/validation"
)

type CommentHandler struct {
	postService *service.PostService
}

func NewCommentHandler(postService *service.PostService) *CommentHandler {
	return &CommentHandler{
		postService: postService,
	}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	postID, err := strconv.ParseInt(r.PathValue("post_id"), 10, 64)
	if err != nil {
		redirectWithFlash(w, r, "/", flash.CategoryError, service.ErrPostNotFound.Message)
		return
	}

	_, err = h.postService.CreateComment(r.Context(), user, postID, validation.CommentForm{Text: r.FormValue("text")})
	if err != nil {
		switch service.KindOf(err) {
		case service.KindValidation:
			redirectWithFlash(w, r, postURL(postID), flash.CategoryError, service.Message(err))
		case service.KindNotFound:
			redirectWithFlash(w, r, "/", flash.CategoryError, service.Message(err))
		default:
			serverError(w, r, err, "failed to create comment", "post_id", postID)
		}
		return
	}

	http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	commentID, err := strconv.ParseInt(r.PathValue("comment_id"), 10, 64)
	if err != nil {
		redirectWithFlash(w, r, "/", flash.CategoryError, service.ErrCommentNotFound.Message)
		return
	}

	comment, err := h.postService.DeleteComment(r.Context(), user, commentID)
	if err != nil {
		kind := service.KindOf(err)
		if kind == service.KindNotFound || kind == service.KindAuth {
			redirectWithFlash(w, r, "/", flash.CategoryError, service.Message(err))
			return
		}
		serverError(w, r, err, "failed to delete comment", "comment_id", commentID)
		return
	}

	http.Redirect(w, r, postURL(comment.PostID), http.StatusSeeOther)
}

func postURL(id int64) string {
	return fmt.Sprintf("/posts/%d", id)
}
