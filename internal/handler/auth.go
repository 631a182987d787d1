package handler

import (
	"errors"
	"net/http"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/metrics"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/ui"
	"github.com/duong1906ltv/website/internal/ui/pages"
)

const resetRequestedMessage = "An email with instructions to reset your password has been sent to you."

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Login(pages.LoginData{}))
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	user, err := h.authService.LogIn(r.Context(), email, r.FormValue("password"))
	metrics.AccountEvents.WithLabelValues("login", metrics.Outcome(err)).Inc()
	if err != nil {
		if service.KindOf(err) == service.KindAuth {
			ui.Render(w, r, pages.Login(pages.LoginData{Email: email, Error: service.Message(err)}))
			return
		}
		serverError(w, r, err, "login failed")
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		serverError(w, r, err, "failed to start session", "user_id", user.ID)
		return
	}

	redirectWithFlash(w, r, "/", flash.CategorySuccess, "Logged in!")
}

func (h *authHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.SignUp(pages.SignUpData{}))
}

func (h *authHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	in := service.SignUpInput{
		Email:                r.FormValue("email"),
		Username:             r.FormValue("username"),
		Password:             r.FormValue("password1"),
		PasswordConfirmation: r.FormValue("password2"),
	}

	user, err := h.authService.SignUp(r.Context(), in)
	metrics.AccountEvents.WithLabelValues("signup", metrics.Outcome(err)).Inc()
	if user == nil {
		if service.KindOf(err) == service.KindValidation {
			ui.Render(w, r, pages.SignUp(pages.SignUpData{Email: in.Email, Username: in.Username, Error: service.Message(err)}))
			return
		}
		serverError(w, r, err, "sign up failed")
		return
	}

	// The account exists even when the email couldn't be sent; the user can resend from /unconfirmed
	sessionErr := h.authService.StartSession(w, user)
	if sessionErr != nil {
		serverError(w, r, sessionErr, "failed to start session", "user_id", user.ID)
		return
	}

	if err != nil {
		msg := service.Message(err)
		if msg == "" {
			msg = service.ErrMailDelivery.Message
		}
		redirectWithFlash(w, r, "/unconfirmed", flash.CategoryError, msg)
		return
	}
	redirectWithFlash(w, r, "/unconfirmed", flash.CategorySuccess, "A confirmation email has been sent via email.")
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *authHandler) Unconfirmed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil || user.Confirmed {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	ui.Render(w, r, pages.Unconfirmed())
}

func (h *authHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	err := h.authService.ResendConfirmation(r.Context(), ctxkeys.User(r.Context()))
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/", flash.CategoryInfo, "A new confirmation email has been sent to you by email.")
	case errors.Is(err, service.ErrAlreadyConfirmed):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case service.KindOf(err) == service.KindTransport:
		redirectWithFlash(w, r, "/unconfirmed", flash.CategoryError, service.Message(err))
	default:
		serverError(w, r, err, "resend confirmation failed")
	}
}

func (h *authHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Confirm(r.Context(), ctxkeys.User(r.Context()), r.PathValue("token"))
	metrics.AccountEvents.WithLabelValues("confirm", metrics.Outcome(err)).Inc()
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/", flash.CategorySuccess, "You have confirmed your account. Thanks!")
	case errors.Is(err, service.ErrAlreadyConfirmed):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case service.KindOf(err) == service.KindToken:
		redirectWithFlash(w, r, "/", flash.CategoryError, "The confirmation link is invalid or has expired.")
	default:
		serverError(w, r, err, "confirmation failed")
	}
}

func (h *authHandler) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ChangePassword(""))
}

func (h *authHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.ChangePassword(r.Context(), user.ID, r.FormValue("old_pass"), r.FormValue("new_pass"))
	metrics.AccountEvents.WithLabelValues("password_change", metrics.Outcome(err)).Inc()
	if err != nil {
		kind := service.KindOf(err)
		if kind == service.KindAuth || kind == service.KindValidation {
			ui.Render(w, r, pages.ChangePassword(service.Message(err)))
			return
		}
		serverError(w, r, err, "change password failed", "user_id", user.ID)
		return
	}

	redirectWithFlash(w, r, "/", flash.CategorySuccess, "Your password has been updated.")
}

func (h *authHandler) ResetRequestPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ResetRequest(pages.ResetRequestData{}))
}

// ResetRequest answers identically whether or not the email is registered
func (h *authHandler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	err := h.authService.RequestPasswordReset(r.Context(), r.FormValue("email_address"))
	metrics.AccountEvents.WithLabelValues("reset_request", metrics.Outcome(err)).Inc()
	if err != nil {
		serverError(w, r, err, "password reset request failed")
		return
	}

	redirectWithFlash(w, r, "/login", flash.CategoryInfo, resetRequestedMessage)
}

func (h *authHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ResetPassword(pages.ResetPasswordData{Token: r.PathValue("token")}))
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	in := service.ResetPasswordInput{
		Email:                r.FormValue("email_address"),
		Password:             r.FormValue("password"),
		PasswordConfirmation: r.FormValue("password2"),
	}

	err := h.authService.ResetPassword(r.Context(), token, in)
	metrics.AccountEvents.WithLabelValues("reset", metrics.Outcome(err)).Inc()
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/login", flash.CategorySuccess, "Your password has been updated.")
	case service.KindOf(err) == service.KindValidation:
		ui.Render(w, r, pages.ResetPassword(pages.ResetPasswordData{Token: token, Email: in.Email, Error: service.Message(err)}))
	case service.KindOf(err) == service.KindToken:
		redirectWithFlash(w, r, "/", flash.CategoryError, "The reset link is invalid or has expired.")
	default:
		serverError(w, r, err, "password reset failed")
	}
}
