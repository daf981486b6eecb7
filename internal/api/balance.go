package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"waba-admin/internal/backend"
	"waba-admin/internal/forms"
	"waba-admin/internal/ledger"
	"waba-admin/internal/listing"
	"waba-admin/internal/logging"
	"waba-admin/internal/models"
	"waba-admin/internal/notify"
	"waba-admin/internal/session"
	pkgmodels "waba-admin/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BalanceHandler struct {
	pages    *Pages
	client   *backend.Client
	activity *ActivityLog
	payments *listing.Fetcher[pkgmodels.Payment]
}

func NewBalanceHandler(pages *Pages, client *backend.Client, activity *ActivityLog) *BalanceHandler {
	return &BalanceHandler{
		pages:    pages,
		client:   client,
		activity: activity,
		payments: listing.NewFetcher[pkgmodels.Payment](),
	}
}

func (h *BalanceHandler) Forget(prefix string) {
	h.payments.Forget(prefix)
}

// backendBalance returns nil when the balance could not be fetched; the
// computed figure is then shown in its place.
func (h *BalanceHandler) backendBalance(ctx context.Context, token, userID string) (*decimal.Decimal, error) {
	balance, err := h.client.Balance(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// BalancePage shows the selected user's transactions, totals, daily chart
// and balance next to the add-balance form.
func (h *BalanceHandler) BalancePage(c *gin.Context) {
	ctx := c.Request.Context()
	token := session.Token(c)

	users, ok := h.pages.userOptions(c, h.client)
	if !ok {
		return
	}
	data := gin.H{
		"Title":    "User Balance",
		"Users":    users,
		"Selected": c.Query("user"),
	}

	if selected := c.Query("user"); selected != "" {
		payments := h.payments.Load(ctx, h.pages.key(c, "balance/payments"), selected,
			listing.ParsePage(c.Query("page")), fetchPayments(h.client, token, selected, h.pages.PageSize))
		if payments.Err != nil && h.pages.fail(c, payments.Err, "Failed to fetch payment data.") {
			return
		}
		balance, err := h.backendBalance(ctx, token, selected)
		if err != nil && h.pages.fail(c, err, "Failed to fetch balance.") {
			return
		}

		data["Selected"] = selected
		data["Payments"] = payments.Items
		data["Pager"] = pagerView(c, "page", payments.Pager)
		data["Ledger"] = ledger.Summarize(serverTotals(payments.State), payments.Items, balance)
		data["Series"] = ledger.Series(payments.Items)
	}

	h.pages.render(c, "balance.tmpl", data)
}

// AddBalance credits a user. The page is reloaded afterwards so the
// balance shown always comes from the backend.
func (h *BalanceHandler) AddBalance(c *gin.Context) {
	var form forms.AddBalanceForm
	_ = c.ShouldBind(&form)
	back := "/users/balance"
	if form.UserID != "" {
		back += "?" + url.Values{"user": {form.UserID}}.Encode()
	}

	amount, err := form.ParseAmount()
	if err != nil {
		notify.Flash(c, notify.Error(err, "Please enter a valid amount."))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	err = h.client.AddBalance(c.Request.Context(), session.Token(c), form.UserID, amount)
	if err != nil {
		if h.pages.expired(c, err) {
			return
		}
		logging.WithContext(c.Request.Context()).Errorf("Error adding balance: %v", err)
		notify.Flash(c, notify.Error(err, "Failed to add balance."))
		h.activity.Record(c, models.ActionAddBalance, form.UserID, "add "+amount.StringFixed(2)+" failed", false)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	h.activity.Record(c, models.ActionAddBalance, form.UserID, "added "+amount.StringFixed(2), true)
	notify.Flash(c, notify.Success("Success", fmt.Sprintf("Successfully added ₹%s to user %s", strings.TrimSpace(form.Amount), form.UserID)))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *BalanceHandler) loadPayments(c *gin.Context, userID string) listing.Result[pkgmodels.Payment] {
	return h.payments.Load(c.Request.Context(), h.pages.key(c, "api/payments"), userID,
		listing.ParsePage(c.Query("page")), fetchPayments(h.client, session.Token(c), userID, h.pages.PageSize))
}

func requireUser(c *gin.Context) (string, bool) {
	userID := c.Query("user")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is required"})
		return "", false
	}
	return userID, true
}

func (h *BalanceHandler) ListPayments(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result := h.loadPayments(c, userID)
	if result.Err != nil {
		jsonError(c, h.pages, result.Err, "Failed to fetch payment data")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   result.Items,
		"pager":  result.Pager,
		"stale":  result.Stale,
		"ledger": ledger.Summarize(serverTotals(result.State), result.Items, nil),
	})
}

func (h *BalanceHandler) Series(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result := h.loadPayments(c, userID)
	if result.Err != nil {
		jsonError(c, h.pages, result.Err, "Failed to fetch payment data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ledger.Series(result.Items)})
}

func (h *BalanceHandler) Balance(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	balance, err := h.client.Balance(c.Request.Context(), session.Token(c), userID)
	if err != nil {
		jsonError(c, h.pages, err, "Failed to fetch balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"balance":   balance,
		"formatted": ledger.FormatINR(balance),
	})
}
