package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/ui"
	"github.com/duong1906ltv/website/internal/ui/pages"
	"github.com/duong1906ltv/website/internal/validation"
)

type ProfileHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewProfileHandler(userService *service.UserService, postService *service.PostService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		postService: postService,
	}
}

// Show is the public profile page with the user's posts
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.ByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
			return
		}
		serverError(w, r, err, "failed to load profile")
		return
	}

	posts, err := h.postService.ListPostsByUser(r.Context(), profile, ctxkeys.UserID(r.Context()))
	if err != nil {
		serverError(w, r, err, "failed to list profile posts", "user_id", profile.ID)
		return
	}

	ui.Render(w, r, pages.Profile(pages.ProfileData{Profile: profile, Posts: posts}))
}

func (h *ProfileHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	ui.Render(w, r, pages.EditProfile(pages.EditProfileData{Form: validation.ProfileForm{
		Name:     user.Name,
		Location: user.Location,
		AboutMe:  user.AboutMe,
	}}))
}

func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	form := validation.ProfileForm{
		Name:     r.FormValue("name"),
		Location: r.FormValue("location"),
		AboutMe:  r.FormValue("about_me"),
	}

	err := h.userService.UpdateProfile(r.Context(), user, form)
	if err != nil {
		if service.KindOf(err) == service.KindValidation {
			ui.Render(w, r, pages.EditProfile(pages.EditProfileData{Form: form, Error: service.Message(err)}))
			return
		}
		serverError(w, r, err, "failed to update profile", "user_id", user.ID)
		return
	}

	redirectWithFlash(w, r, "/user/"+url.PathEscape(user.Username), flash.CategorySuccess, "Your profile has been updated.")
}
