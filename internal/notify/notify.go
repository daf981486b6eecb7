package notify

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"waba-admin/internal/backend"
	"waba-admin/internal/forms"

	"github.com/gin-gonic/gin"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"

	cookieName = "flash"
)

// Notification is a transient message shown once on the next render.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

func Failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

// Error describes err for staff: the server's message when it sent one,
// the validation text for form errors, the fallback otherwise.
func Error(err error, fallback string) Notification {
	var invalid *forms.ValidationError
	if errors.As(err, &invalid) {
		return Failure("Error", invalid.Error())
	}
	if msg := backend.ServerMessage(err); msg != "" {
		return Failure("Error", msg)
	}
	return Failure("Error", fallback)
}

// Flash queues n for the next rendered page.
func Flash(c *gin.Context, n Notification) {
	pending := append(read(c), n)
	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	value := base64.RawURLEncoding.EncodeToString(raw)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, value, 60, "/", "", false, true)
	c.Set(cookieName, pending)
}

// Consume returns and clears the queued notifications. A flash cookie
// queued earlier in this request is withdrawn from the response, since its
// notifications are shown now.
func Consume(c *gin.Context) []Notification {
	pending := read(c)
	dropQueuedCookie(c)
	if _, err := c.Cookie(cookieName); err == nil {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
	}
	c.Set(cookieName, []Notification{})
	return pending
}

func dropQueuedCookie(c *gin.Context) {
	header := c.Writer.Header()
	cookies := header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return
	}
	header.Del("Set-Cookie")
	for _, cookie := range cookies {
		if !strings.HasPrefix(cookie, cookieName+"=") {
			header.Add("Set-Cookie", cookie)
		}
	}
}

func read(c *gin.Context) []Notification {
	if v, ok := c.Get(cookieName); ok {
		if pending, ok := v.([]Notification); ok {
			return pending
		}
	}
	value, err := c.Cookie(cookieName)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var pending []Notification
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil
	}
	return pending
}
