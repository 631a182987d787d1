package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"alice@x.com", nil},
		{"a@b", ErrEmailTooShort},
		{"not-an-email", ErrEmailInvalid},
		{"Alice <alice@x.com>", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@x.com", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("secret1"))
	assert.NoError(t, ValidatePassword("mật-khẩu"))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     error
	}{
		{"ok", "alice", nil},
		{"two characters", "al", nil},
		{"non-ascii counted by character", "Đô", nil},
		{"too short", "a", ErrUsernameTooShort},
		{"too long", strings.Repeat("a", 65), ErrUsernameTooLong},
		{"space", "al ice", ErrUsernameInvalid},
		{"slash", "al/ice", ErrUsernameInvalid},
		{"numeric", "1234", ErrUsernameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUsername(tt.username))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	decomposed := "Vie\u0323\u0302t" // e + combining dot below + combining circumflex
	assert.Equal(t, "Việt", NormalizeUsername(" "+decomposed+" "))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.JPG", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\cat pic.png`, "cat_pic.png"},
		{"Ảnh mới.png", "Anh_moi.png"},
		{"日本.png", "image.png"},
		{".hidden", "image.hidden"},
		{"", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}

	long := SanitizeFilename(strings.Repeat("a", 300) + ".png")
	assert.Len(t, long, maxFilenameLength)
	assert.True(t, strings.HasSuffix(long, ".png"))
}

func TestValidateForm(t *testing.T) {
	assert.NoError(t, ValidateForm(PostForm{Title: "Hi", Body: "hello"}))
	assert.EqualError(t, ValidateForm(PostForm{Title: "Hi"}), "Post cannot be empty.")
	assert.EqualError(t, ValidateForm(CommentForm{}), "Comment cannot be empty.")
	assert.EqualError(t, ValidateForm(ProfileForm{Location: strings.Repeat("x", 65)}), "Location must be at most 64 characters.")
	assert.EqualError(t, ValidateForm(ProfileForm{AboutMe: strings.Repeat("x", 2001)}), "About me must be at most 2000 characters.")
}

// pngHeader is enough for http.DetectContentType to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("inputImage", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))

	_, header, err := req.FormFile("inputImage")
	require.NoError(t, err)
	return header
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  string
	}{
		{name: "png", filename: "a.png", content: pngHeader},
		{name: "upper case extension", filename: "A.PNG", content: pngHeader},
		{name: "not an image", filename: "a.png", content: []byte("plain text"), wantErr: "Only JPEG, PNG, GIF and WebP images are allowed."},
		{name: "wrong extension", filename: "a.jpg", content: pngHeader, wantErr: `The file extension ".jpg" does not match a png image.`},
		{name: "too large", filename: "a.png", content: append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 6<<20)...), wantErr: "Image is too large, the maximum is 5 MB."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(fileHeader(t, tt.filename, tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	assert.Error(t, ValidateImage(nil))
}
