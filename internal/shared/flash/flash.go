// Package flash keeps one-shot user messages in a cookie so they survive
// the redirect that follows a form post.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "flash"
	ctxKey     = "flash_messages"

	LevelSuccess = "success"
	LevelError   = "error"
)

type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func Success(c *gin.Context, text string) { Add(c, LevelSuccess, text) }

func Error(c *gin.Context, text string) { Add(c, LevelError, text) }

// Add appends a message to those already pending for the next page.
func Add(c *gin.Context, level, text string) {
	msgs := append(pending(c), Message{Level: level, Text: text})
	c.Set(ctxKey, msgs)

	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns pending messages and clears the cookie.
func Pop(c *gin.Context) []Message {
	msgs := pending(c)
	c.Set(ctxKey, []Message{})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return msgs
}

func pending(c *gin.Context) []Message {
	if v, ok := c.Get(ctxKey); ok {
		if msgs, ok := v.([]Message); ok {
			return msgs
		}
	}

	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie == "" {
		return []Message{}
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie)
	if err != nil {
		return []Message{}
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return []Message{}
	}
	return msgs
}
