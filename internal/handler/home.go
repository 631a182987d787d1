package handler

import (
	"log/slog"
	"net/http"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/ui"
	"github.com/duong1906ltv/website/internal/ui/pages"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// serverError logs an unexpected failure and answers with the error page
func serverError(w http.ResponseWriter, r *http.Request, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", r.URL.Path)
	slog.Error(msg, args...)
	ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Error(""))
}

func secure(r *http.Request) bool {
	cfg := ctxkeys.Config(r.Context())
	return cfg != nil && cfg.IsProduction()
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, url, category, text string) {
	flash.Set(w, secure(r), flash.Message{Category: category, Text: text})
	http.Redirect(w, r, url, http.StatusSeeOther)
}
