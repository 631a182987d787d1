package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// uploadHeader builds the *multipart.FileHeader a handler would get for the file
func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/create-post", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, header, err := req.FormFile("image")
	require.NoError(t, err)
	return header
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")

	t.Run("empty body", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Title: "t", Body: "   "}, nil)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, "Post cannot be empty.", Message(err))
	})

	t.Run("with image", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Title: " Hello ", Body: "first *post*"}, uploadHeader(t, "my photo.png", pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
		assert.True(t, strings.HasPrefix(post.Image, "images/"))
		assert.True(t, strings.HasSuffix(post.Image, "-my_photo.png"))

		_, err = os.Stat(filepath.Join(env.storage.Root(), filepath.FromSlash(post.Image)))
		assert.NoError(t, err)

		view, err := env.posts.Post(ctx, post.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", view.AuthorUsername)
		assert.Equal(t, "/uploads/"+post.Image, view.ImageURL)
	})

	t.Run("image must be an image", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Body: "x"}, uploadHeader(t, "notes.png", []byte("just text")))
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")
	bob := env.signUp(t, "bob@example.com", "bob")

	post, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Body: "mine"}, uploadHeader(t, "a.png", pngHeader))
	require.NoError(t, err)
	_, err = env.posts.CreateComment(ctx, bob, post.ID, validation.CommentForm{Text: "nice"})
	require.NoError(t, err)
	_, err = env.posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)

	err = env.posts.DeletePost(ctx, bob, post.ID)
	assert.ErrorIs(t, err, ErrPostForbidden)

	require.NoError(t, env.posts.DeletePost(ctx, alice, post.ID))

	_, err = env.posts.Post(ctx, post.ID, alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = os.Stat(filepath.Join(env.storage.Root(), filepath.FromSlash(post.Image)))
	assert.True(t, os.IsNotExist(err), "image is removed with its post")

	err = env.posts.DeletePost(ctx, alice, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")
	bob := env.signUp(t, "bob@example.com", "bob")

	page, err := env.posts.ListPosts(ctx, 0, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.TotalPages)

	for _, body := range []string{"one", "two", "three"} {
		_, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Body: body}, nil)
		require.NoError(t, err)
	}
	_, err = env.posts.CreatePost(ctx, bob, validation.PostForm{Body: "bob's"}, nil)
	require.NoError(t, err)

	page, err = env.posts.ListPosts(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "bob's", page.Posts[0].Body, "newest first")
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasPrev())
	assert.True(t, page.HasNext())

	page, err = env.posts.ListPosts(ctx, alice.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page, "out of range pages clamp to the last")
	assert.Len(t, page.Posts, 2)

	posts, err := env.posts.ListPostsByUser(ctx, bob, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "bob", posts[0].AuthorUsername)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")
	bob := env.signUp(t, "bob@example.com", "bob")
	carol := env.signUp(t, "carol@example.com", "carol")

	post, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Body: "post"}, nil)
	require.NoError(t, err)

	_, err = env.posts.CreateComment(ctx, bob, post.ID, validation.CommentForm{Text: " "})
	assert.Equal(t, "Comment cannot be empty.", Message(err))

	_, err = env.posts.CreateComment(ctx, bob, 9999, validation.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	first, err := env.posts.CreateComment(ctx, bob, post.ID, validation.CommentForm{Text: "first"})
	require.NoError(t, err)
	second, err := env.posts.CreateComment(ctx, bob, post.ID, validation.CommentForm{Text: "second"})
	require.NoError(t, err)

	comments, err := env.posts.Comments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = env.posts.DeleteComment(ctx, carol, first.ID)
	assert.ErrorIs(t, err, ErrCommentForbidden)

	deleted, err := env.posts.DeleteComment(ctx, bob, first.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.PostID)

	_, err = env.posts.DeleteComment(ctx, alice, second.ID)
	assert.NoError(t, err, "post author may remove comments")

	_, err = env.posts.DeleteComment(ctx, alice, second.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")
	bob := env.signUp(t, "bob@example.com", "bob")

	post, err := env.posts.CreatePost(ctx, alice, validation.PostForm{Body: "like me"}, nil)
	require.NoError(t, err)

	steps := []struct {
		user *model.User
		want model.LikeState
	}{
		{alice, model.LikeState{Likes: 1, Liked: true}},
		{bob, model.LikeState{Likes: 2, Liked: true}},
		{alice, model.LikeState{Likes: 1, Liked: false}},
		{bob, model.LikeState{Likes: 0, Liked: false}},
	}
	for _, step := range steps {
		state, err := env.posts.ToggleLike(ctx, step.user, post.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, *state, "toggle by %s", step.user.Username)
	}

	view, err := env.posts.Post(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Likes)
	assert.False(t, view.Liked)

	_, err = env.posts.ToggleLike(ctx, alice, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, "Post does not exist.", Message(err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com", "alice")

	err := env.users.UpdateProfile(ctx, alice, validation.ProfileForm{Name: strings.Repeat("n", 65)})
	assert.Equal(t, KindValidation, KindOf(err))

	require.NoError(t, env.users.UpdateProfile(ctx, alice, validation.ProfileForm{Name: " Alice ", Location: "Hanoi", AboutMe: "hi"}))

	stored, err := env.users.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "Hanoi", stored.Location)

	_, err = env.users.ByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
