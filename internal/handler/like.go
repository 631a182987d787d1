package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/service"
)

type LikeHandler struct {
	postService *service.PostService
}

func NewLikeHandler(postService *service.PostService) *LikeHandler {
	return &LikeHandler{
		postService: postService,
	}
}

// Toggle likes or unlikes a post and answers {"likes": n, "liked": bool}
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	postID, err := strconv.ParseInt(r.PathValue("post_id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, service.ErrPostNotFound.Message)
		return
	}

	state, err := h.postService.ToggleLike(r.Context(), user, postID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			writeJSONError(w, http.StatusBadRequest, service.Message(err))
			return
		}
		slog.Error("failed to toggle like", "error", err, "post_id", postID, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn("failed to write json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
