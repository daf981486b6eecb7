package api

import (
	"net/http"

	"waba-admin/internal/backend"
	"waba-admin/internal/insights"
	"waba-admin/internal/session"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	pages      *Pages
	client     *backend.Client
	summarizer insights.Summarizer
}

func NewDashboardHandler(pages *Pages, client *backend.Client, summarizer insights.Summarizer) *DashboardHandler {
	return &DashboardHandler{pages: pages, client: client, summarizer: summarizer}
}

// Home shows the raw figures at once; the browser then posts the same
// figures to SummarizeShown so the prose matches what is on screen.
func (h *DashboardHandler) Home(c *gin.Context) {
	metrics, err := h.client.Analytics(c.Request.Context(), session.Token(c))
	loaded := err == nil
	if err != nil && h.pages.fail(c, err, "Failed to fetch analytics.") {
		return
	}
	h.pages.render(c, "dashboard.tmpl", gin.H{
		"Title":   "Analytics",
		"Metrics": metrics,
		"Loaded":  loaded,
	})
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	metrics, err := h.client.Analytics(c.Request.Context(), session.Token(c))
	if err != nil {
		jsonError(c, h.pages, err, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, insights.Summarize(c.Request.Context(), h.summarizer, metrics))
}

// SummarizeShown summarizes the figures the page was rendered with.
func (h *DashboardHandler) SummarizeShown(c *gin.Context) {
	var metrics insights.Metrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid metrics"})
		return
	}
	c.JSON(http.StatusOK, insights.Summarize(c.Request.Context(), h.summarizer, metrics))
}
