package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndRead(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, false,
		Message{Category: CategorySuccess, Text: "Logged in!"},
		Message{Category: CategoryInfo, Text: "Welcome back, \"alice\"; enjoy"},
	)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	msgs := Read(req)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Logged in!", msgs[0].Text)
	assert.Equal(t, CategoryInfo, msgs[1].Category)
}

func TestReadGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, Read(req))

	req.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%not-base64"})
	assert.Nil(t, Read(req))
}

func TestClear(t *testing.T) {
	rec := httptest.NewRecorder()
	Clear(rec, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
}
