// Package pages holds the site's HTML pages. Each page is an html/template
// file rendered inside layout.html and exposed as a templ.Component.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/markdown"
	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = markdown.New()

var funcs = template.FuncMap{
	"markdown": md.Render,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 02, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 UTC")
	},
	"card": func(root layoutData, post model.PostView) postCard {
		return postCard{Root: root, Post: post}
	},
}

// postCard feeds the shared post_card template
type postCard struct {
	Root layoutData
	Post model.PostView
}

var pageFiles = []string{
	"home.html",
	"login.html",
	"signup.html",
	"unconfirmed.html",
	"change_password.html",
	"reset_request.html",
	"reset_password.html",
	"create_post.html",
	"post_detail.html",
	"user_posts.html",
	"user.html",
	"edit_profile.html",
	"not_found.html",
	"error.html",
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	set := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		set[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return set
}

// layoutData is what every template sees; page specific values live in Data
type layoutData struct {
	Title     string
	AppName   string
	Path      string
	User      *model.User
	Flashes   []flash.Message
	CSRFToken string
	Nonce     string
	Data      any
}

func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		appName := "Blog"
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}

		return templates[name].Execute(w, layoutData{
			Title:     title,
			AppName:   appName,
			Path:      ctxkeys.URLPath(ctx),
			User:      ctxkeys.User(ctx),
			Flashes:   ctxkeys.Flashes(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Nonce:     templ.GetNonce(ctx),
			Data:      data,
		})
	})
}

func Home(p *service.PostPage) templ.Component {
	return page("home.html", "Home", p)
}

type LoginData struct {
	Email string
	Error string
}

func Login(data LoginData) templ.Component {
	return page("login.html", "Login", data)
}

type SignUpData struct {
	Email    string
	Username string
	Error    string
}

func SignUp(data SignUpData) templ.Component {
	return page("signup.html", "Sign Up", data)
}

func Unconfirmed() templ.Component {
	return page("unconfirmed.html", "Confirm your account", nil)
}

func ChangePassword(errMsg string) templ.Component {
	return page("change_password.html", "Change password", errMsg)
}

type ResetRequestData struct {
	Email string
	Error string
}

func ResetRequest(data ResetRequestData) templ.Component {
	return page("reset_request.html", "Reset password", data)
}

type ResetPasswordData struct {
	Token string
	Email string
	Error string
}

func ResetPassword(data ResetPasswordData) templ.Component {
	return page("reset_password.html", "Reset password", data)
}

type CreatePostData struct {
	Form  validation.PostForm
	Error string
}

func CreatePost(data CreatePostData) templ.Component {
	return page("create_post.html", "Create a post", data)
}

type PostDetailData struct {
	Post     *model.PostView
	Comments []model.CommentView
}

func PostDetail(data PostDetailData) templ.Component {
	title := data.Post.Title
	if title == "" {
		title = "Post"
	}
	return page("post_detail.html", title, data)
}

type UserPostsData struct {
	Username string
	Posts    []model.PostView
}

func UserPosts(data UserPostsData) templ.Component {
	return page("user_posts.html", "Posts by "+data.Username, data)
}

type ProfileData struct {
	Profile *model.User
	Posts   []model.PostView
}

func Profile(data ProfileData) templ.Component {
	return page("user.html", data.Profile.Username, data)
}

type EditProfileData struct {
	Form  validation.ProfileForm
	Error string
}

func EditProfile(data EditProfileData) templ.Component {
	return page("edit_profile.html", "Edit profile", data)
}

func NotFound() templ.Component {
	return page("not_found.html", "Not found", nil)
}

func Error(message string) templ.Component {
	return page("error.html", "Something went wrong", message)
}
