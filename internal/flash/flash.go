// Package flash carries one-shot messages across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

const (
	CategorySuccess = "success"
	CategoryError   = "error"
	CategoryInfo    = "info"
)

type Message struct {
	Category string `json:"c"`
	Text     string `json:"m"`
}

// Set replaces the pending messages with msgs
func Set(w http.ResponseWriter, secure bool, msgs ...Message) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, secure bool, text string) {
	Set(w, secure, Message{Category: CategorySuccess, Text: text})
}

func Error(w http.ResponseWriter, secure bool, text string) {
	Set(w, secure, Message{Category: CategoryError, Text: text})
}

func Info(w http.ResponseWriter, secure bool, text string) {
	Set(w, secure, Message{Category: CategoryInfo, Text: text})
}

// Read returns the pending messages without consuming them.
// A missing or garbled cookie reads as no messages.
func Read(r *http.Request) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var msgs []Message
	err = json.Unmarshal(raw, &msgs)
	if err != nil {
		return nil
	}
	return msgs
}

// Clear drops the pending messages once they've been shown
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
