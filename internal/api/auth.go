package api

import (
	"errors"
	"net/http"

	"waba-admin/internal/backend"
	"waba-admin/internal/forms"
	"waba-admin/internal/listing"
	"waba-admin/internal/logging"
	"waba-admin/internal/models"
	"waba-admin/internal/notify"
	"waba-admin/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	pages    *Pages
	client   *backend.Client
	activity *ActivityLog
	forget   []func(prefix string)
}

// NewAuthHandler takes the Forget methods of every list fetcher so that
// logging out drops the session's list state.
func NewAuthHandler(pages *Pages, client *backend.Client, activity *ActivityLog, forget ...func(prefix string)) *AuthHandler {
	return &AuthHandler{pages: pages, client: client, activity: activity, forget: forget}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.pages.render(c, "login.tmpl", gin.H{"Title": "Login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		notify.Flash(c, notify.Failure("Login failed", "Invalid login request."))
		c.Redirect(http.StatusSeeOther, session.LoginPath)
		return
	}
	if err := forms.Validate(form); err != nil {
		notify.Flash(c, notify.Error(err, "Please enter your email and password."))
		c.Redirect(http.StatusSeeOther, session.LoginPath)
		return
	}

	token, err := h.client.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		logging.WithContext(c.Request.Context()).Warnf("login failed for %s: %v", form.Email, err)
		notify.Flash(c, notify.Failure("Login failed", loginFailure(err)))
		c.Redirect(http.StatusSeeOther, session.LoginPath)
		return
	}

	h.pages.Sessions.Begin(c, token)
	h.activity.Record(c, models.ActionLogin, form.Email, "signed in", true)
	notify.Flash(c, notify.Success("Success", "Login successful!"))
	c.Redirect(http.StatusSeeOther, session.HomePath)
}

func loginFailure(err error) string {
	if errors.Is(err, backend.ErrNoToken) {
		return "Login failed: Token not received"
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Invalid credentials"
	}
	return "An unexpected error occurred"
}

func (h *AuthHandler) Logout(c *gin.Context) {
	view := h.pages.Sessions.End(c)
	for _, forget := range h.forget {
		forget(listing.Key(view, ""))
	}
	notify.Flash(c, notify.Success("Logged out", "You have been signed out."))
	c.Redirect(http.StatusSeeOther, session.LoginPath)
}
