package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "waypost_flash"

// Flash levels.
const (
	FlashInfo  = "info"
	FlashError = "error"
)

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// AddFlash queues a flash message in the flash cookie, keeping any
// messages already queued on this request.
func AddFlash(w http.ResponseWriter, r *http.Request, level, text string) {
	messages := append(readFlashes(r), FlashMessage{Level: level, Text: text})

	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns all queued flash messages and clears the cookie.
func PopFlashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	messages := readFlashes(r)
	if len(messages) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return messages
}

// readFlashes decodes the flash cookie; malformed cookies read as empty.
func readFlashes(r *http.Request) []FlashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var messages []FlashMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}
