package session

import (
	"net/http"
	"strings"

	"waba-admin/internal/notify"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TokenCookie = "token"
	ViewCookie  = "view"
	MaxAge      = 7 * 24 * 60 * 60

	LoginPath = "/login"
	HomePath  = "/"

	tokenKey = "session.token"
	viewKey  = "session.view"
)

// Manager is the single place that reads and writes the session cookies.
type Manager struct {
	Secure bool
}

func NewManager(secure bool) *Manager {
	return &Manager{Secure: secure}
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.Secure, true)
}

// Begin stores the backend token for seven days.
func (m *Manager) Begin(c *gin.Context, token string) {
	m.setCookie(c, TokenCookie, token, MaxAge)
	c.Set(tokenKey, token)
}

// End clears the session and returns the view id it used.
func (m *Manager) End(c *gin.Context) string {
	view := m.View(c)
	m.setCookie(c, TokenCookie, "", -1)
	m.setCookie(c, ViewCookie, "", -1)
	c.Set(tokenKey, "")
	return view
}

// Token returns the bearer token of the current request.
func Token(c *gin.Context) string {
	if v, ok := c.Get(tokenKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// View returns the per-browser id that keys server-side list state,
// issuing one when missing.
func (m *Manager) View(c *gin.Context) string {
	if v, ok := c.Get(viewKey); ok {
		if view, ok := v.(string); ok && view != "" {
			return view
		}
	}
	view, err := c.Cookie(ViewCookie)
	if err != nil || view == "" {
		view = uuid.NewString()
		m.setCookie(c, ViewCookie, view, MaxAge)
	}
	c.Set(viewKey, view)
	return view
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api/") || path == "/ws"
}

// Guard lets only signed-in staff past every route except the login page,
// and sends signed-in staff away from it. The token is not validated here;
// the backend rejects bad tokens.
func (m *Manager) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		hasToken := Token(c) != ""

		if path == LoginPath {
			if hasToken {
				c.Redirect(http.StatusFound, HomePath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if !hasToken {
			if isAPI(path) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
				return
			}
			notify.Flash(c, notify.Failure("Not authenticated", "Please log in to continue."))
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		m.View(c)
		c.Next()
	}
}

// Expire handles a backend 401: the session is dropped and staff is sent
// back to the login page.
func (m *Manager) Expire(c *gin.Context) {
	m.End(c)
	if isAPI(c.Request.URL.Path) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	notify.Flash(c, notify.Failure("Session expired", "Please log in again."))
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// Profile is what the header shows about the signed-in staff member.
type Profile struct {
	Email string
	Name  string
}

// Identity reads display claims from a JWT-shaped token without
// verifying it. Opaque tokens give an empty profile.
func Identity(token string) Profile {
	if strings.Count(token, ".") != 2 {
		return Profile{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Profile{}
	}
	p := Profile{}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	if p.Name == "" {
		p.Name = p.Email
	}
	return p
}
