package api

import (
	"net/http"

	"waba-admin/internal/database"
	"waba-admin/internal/listing"
	"waba-admin/internal/logging"
	"waba-admin/internal/models"
	"waba-admin/internal/notify"
	"waba-admin/internal/session"
	"waba-admin/internal/ws"

	"github.com/gin-gonic/gin"
)

// ActivityLog persists staff actions and pushes them to open dashboards.
// Both parts are optional.
type ActivityLog struct {
	Store *database.ActivityStore
	Hub   *ws.Hub
}

func NewActivityLog(store *database.ActivityStore, hub *ws.Hub) *ActivityLog {
	return &ActivityLog{Store: store, Hub: hub}
}

// Record never fails the request it belongs to.
func (l *ActivityLog) Record(c *gin.Context, action, targetID, detail string, success bool) {
	if l == nil {
		return
	}
	activity := models.Activity{
		Action:   action,
		TargetID: targetID,
		Detail:   detail,
		Actor:    session.Identity(session.Token(c)).Email,
		Success:  success,
	}
	if l.Store != nil {
		if err := l.Store.Record(c.Request.Context(), &activity); err != nil {
			logging.WithContext(c.Request.Context()).Errorf("Failed to record activity: %v", err)
		}
	}
	if l.Hub != nil {
		l.Hub.NotifyActivity(activity)
	}
}

type ActivityHandler struct {
	pages *Pages
	store *database.ActivityStore
}

func NewActivityHandler(pages *Pages, store *database.ActivityStore) *ActivityHandler {
	return &ActivityHandler{pages: pages, store: store}
}

func (h *ActivityHandler) ActivityPage(c *gin.Context) {
	page := listing.ParsePage(c.Query("page"))
	activities, totalPages, err := h.store.Recent(c.Request.Context(), page, h.pages.PageSize)
	if err != nil {
		logging.WithContext(c.Request.Context()).Errorf("Failed to list activities: %v", err)
		notify.Flash(c, notify.Failure("Error", "Failed to load activity."))
		activities, totalPages = []models.Activity{}, 1
	}
	h.pages.render(c, "activity.tmpl", gin.H{
		"Title":      "Activity",
		"Activities": activities,
		"Pager":      pagerView(c, "page", listing.NewPager(page, totalPages)),
	})
}

func (h *ActivityHandler) ListActivity(c *gin.Context) {
	page := listing.ParsePage(c.Query("page"))
	activities, totalPages, err := h.store.Recent(c.Request.Context(), page, h.pages.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activities, "pager": listing.NewPager(page, totalPages)})
}
