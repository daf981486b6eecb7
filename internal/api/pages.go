package api

import (
	"net/http"
	"strconv"

	"waba-admin/internal/backend"
	"waba-admin/internal/listing"
	"waba-admin/internal/logging"
	"waba-admin/internal/notify"
	"waba-admin/internal/session"
	"waba-admin/pkg/models"

	"github.com/gin-gonic/gin"
)

// userOptionsLimit bounds the user dropdowns of the balance, search and
// messages screens.
const userOptionsLimit = 100

// Pages holds what every page handler shares.
type Pages struct {
	Sessions *session.Manager
	PageSize int
}

func NewPages(sessions *session.Manager, pageSize int) *Pages {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Pages{Sessions: sessions, PageSize: pageSize}
}

// render adds the queued notifications and the staff profile to data.
func (p *Pages) render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Notifications"] = notify.Consume(c)
	data["Profile"] = session.Identity(session.Token(c))
	data["Path"] = c.Request.URL.Path
	c.HTML(http.StatusOK, name, data)
}

// expired ends the session when the backend rejected its token. The caller
// must stop handling the request when it returns true.
func (p *Pages) expired(c *gin.Context, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	logging.WithContext(c.Request.Context()).Info("backend rejected session token")
	p.Sessions.Expire(c)
	return true
}

// fail flashes a load failure unless the session expired.
func (p *Pages) fail(c *gin.Context, err error, fallback string) bool {
	if p.expired(c, err) {
		return true
	}
	logging.WithContext(c.Request.Context()).Warnf("%s %v", fallback, err)
	notify.Flash(c, notify.Error(err, fallback))
	return false
}

func (p *Pages) key(c *gin.Context, screen string) string {
	return listing.Key(p.Sessions.View(c), screen)
}

// PagerView is a pager with links that keep the rest of the query.
type PagerView struct {
	listing.Pager
	PrevURL string
	NextURL string
}

func pagerView(c *gin.Context, param string, p listing.Pager) PagerView {
	link := func(page int) string {
		query := c.Request.URL.Query()
		query.Set(param, strconv.Itoa(page))
		return c.Request.URL.Path + "?" + query.Encode()
	}
	return PagerView{Pager: p, PrevURL: link(p.Prev()), NextURL: link(p.Next())}
}

// userOptions loads the first page of users for a selection list.
func (p *Pages) userOptions(c *gin.Context, client *backend.Client) ([]models.User, bool) {
	resp, err := client.ListUsers(c.Request.Context(), session.Token(c), 1, userOptionsLimit)
	if err != nil {
		if p.fail(c, err, "Failed to fetch user data.") {
			return nil, false
		}
		return []models.User{}, true
	}
	return resp.Data, true
}

// redirectBack sends the browser to a local return path, or fallback.
func redirectBack(c *gin.Context, fallback string) {
	target := c.PostForm("return")
	if target == "" || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
		target = fallback
	}
	c.Redirect(http.StatusSeeOther, target)
}

func jsonError(c *gin.Context, p *Pages, err error, fallback string) {
	if backend.IsUnauthorized(err) {
		p.Sessions.Expire(c)
		return
	}
	msg := backend.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}
