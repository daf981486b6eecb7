package api

import (
	"context"
	"strings"

	"waba-admin/internal/backend"
	"waba-admin/internal/forms"
	"waba-admin/internal/listing"
	"waba-admin/internal/notify"
	"waba-admin/internal/session"
	pkgmodels "waba-admin/pkg/models"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	pages    *Pages
	client   *backend.Client
	results  *listing.Fetcher[pkgmodels.SearchResult]
	messages *listing.Fetcher[pkgmodels.IncomingMessage]
}

func NewSearchHandler(pages *Pages, client *backend.Client) *SearchHandler {
	return &SearchHandler{
		pages:    pages,
		client:   client,
		results:  listing.NewFetcher[pkgmodels.SearchResult](),
		messages: listing.NewFetcher[pkgmodels.IncomingMessage](),
	}
}

func (h *SearchHandler) Forget(prefix string) {
	h.results.Forget(prefix)
	h.messages.Forget(prefix)
}

// SearchPage finds the campaigns a phone number received. The backend
// answers with the whole list, which is paginated here.
func (h *SearchHandler) SearchPage(c *gin.Context) {
	users, ok := h.pages.userOptions(c, h.client)
	if !ok {
		return
	}

	form := forms.SearchForm{UserID: c.Query("user"), Phone: strings.TrimSpace(c.Query("phone"))}
	data := gin.H{
		"Title":   "Campaign Search",
		"Users":   users,
		"Form":    form,
		"Results": []pkgmodels.SearchResult{},
	}

	switch {
	case form.UserID == "" && form.Phone == "":
	case forms.Validate(form) != nil:
		notify.Flash(c, notify.Failure("Missing input", "Please select a user and enter a phone number."))
	default:
		key := h.pages.key(c, "search/results")
		filter := form.UserID + "|" + form.Phone
		state, loaded := h.results.Current(key)
		if !loaded || state.Filter != filter {
			token := session.Token(c)
			result := h.results.Load(c.Request.Context(), key, filter, 1,
				func(ctx context.Context, _ int) (listing.Page[pkgmodels.SearchResult], error) {
					found, err := h.client.NumberReport(ctx, token, form.UserID, form.Phone)
					if err != nil {
						return listing.Page[pkgmodels.SearchResult]{}, err
					}
					return listing.Page[pkgmodels.SearchResult]{Items: found, TotalPages: 1}, nil
				})
			if result.Err != nil && h.pages.fail(c, result.Err, "Failed to fetch campaign data.") {
				return
			}
			state = result.State
		}

		size := h.pages.PageSize
		pager := listing.NewPager(listing.ParsePage(c.Query("page")), listing.TotalPages(len(state.Items), size))
		data["Results"] = listing.Slice(state.Items, pager.Page, size)
		data["Pager"] = pagerView(c, "page", pager)
		data["Searched"] = true
	}

	h.pages.render(c, "search.tmpl", data)
}

// MessagesPage lists messages received on the selected user's numbers.
// The backend reports no page count, so a full page means there may be
// another one.
func (h *SearchHandler) MessagesPage(c *gin.Context) {
	users, ok := h.pages.userOptions(c, h.client)
	if !ok {
		return
	}
	data := gin.H{
		"Title":    "Incoming Messages",
		"Users":    users,
		"Selected": c.Query("user"),
	}

	if selected := c.Query("user"); selected != "" {
		token := session.Token(c)
		limit := h.pages.PageSize
		result := h.messages.Load(c.Request.Context(), h.pages.key(c, "messages"), selected,
			listing.ParsePage(c.Query("page")),
			func(ctx context.Context, page int) (listing.Page[pkgmodels.IncomingMessage], error) {
				found, err := h.client.IncomingMessages(ctx, token, selected, page, limit)
				if err != nil {
					return listing.Page[pkgmodels.IncomingMessage]{}, err
				}
				total := page
				if len(found) == limit {
					total = page + 1
				}
				return listing.Page[pkgmodels.IncomingMessage]{Items: found, TotalPages: total}, nil
			})
		if result.Err != nil && h.pages.fail(c, result.Err, "Failed to fetch messages.") {
			return
		}
		data["Selected"] = selected
		data["Messages"] = result.Items
		data["Pager"] = pagerView(c, "page", result.Pager)
	}

	h.pages.render(c, "messages.tmpl", data)
}
