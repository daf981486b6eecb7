package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

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
)

type UserHandler struct {
	pages     *Pages
	client    *backend.Client
	activity  *ActivityLog
	users     *listing.Fetcher[pkgmodels.User]
	campaigns *listing.Fetcher[pkgmodels.Campaign]
	payments  *listing.Fetcher[pkgmodels.Payment]
}

func NewUserHandler(pages *Pages, client *backend.Client, activity *ActivityLog) *UserHandler {
	return &UserHandler{
		pages:     pages,
		client:    client,
		activity:  activity,
		users:     listing.NewFetcher[pkgmodels.User](),
		campaigns: listing.NewFetcher[pkgmodels.Campaign](),
		payments:  listing.NewFetcher[pkgmodels.Payment](),
	}
}

// Forget drops the list state of one session.
func (h *UserHandler) Forget(prefix string) {
	h.users.Forget(prefix)
	h.campaigns.Forget(prefix)
	h.payments.Forget(prefix)
}

func (h *UserHandler) fetchUsers(token string) listing.FetchFunc[pkgmodels.User] {
	limit := h.pages.PageSize
	return func(ctx context.Context, page int) (listing.Page[pkgmodels.User], error) {
		resp, err := h.client.ListUsers(ctx, token, page, limit)
		if err != nil {
			return listing.Page[pkgmodels.User]{}, err
		}
		return listing.Page[pkgmodels.User]{Items: resp.Data, TotalPages: resp.Pagination.TotalPages}, nil
	}
}

func (h *UserHandler) fetchCampaigns(token, userID string) listing.FetchFunc[pkgmodels.Campaign] {
	limit := h.pages.PageSize
	return func(ctx context.Context, page int) (listing.Page[pkgmodels.Campaign], error) {
		resp, err := h.client.ListTemplates(ctx, token, userID, page, limit)
		if err != nil {
			return listing.Page[pkgmodels.Campaign]{}, err
		}
		return listing.Page[pkgmodels.Campaign]{Items: resp.Templates, TotalPages: resp.TotalPages}, nil
	}
}

// fetchPayments keeps the server totals with the page they came with.
func fetchPayments(client *backend.Client, token, userID string, limit int) listing.FetchFunc[pkgmodels.Payment] {
	return func(ctx context.Context, page int) (listing.Page[pkgmodels.Payment], error) {
		resp, err := client.ListPayments(ctx, token, userID, page, limit)
		if err != nil {
			return listing.Page[pkgmodels.Payment]{}, err
		}
		out := listing.Page[pkgmodels.Payment]{Items: resp.Data, TotalPages: resp.Pagination.TotalPages}
		if resp.Totals != nil {
			out.Extra = resp.Totals
		}
		return out, nil
	}
}

func serverTotals(state listing.State[pkgmodels.Payment]) *pkgmodels.Totals {
	totals, _ := state.Extra.(*pkgmodels.Totals)
	return totals
}

// ManageUsers lists users and, for the selected one, their campaigns and
// payments.
func (h *UserHandler) ManageUsers(c *gin.Context) {
	ctx := c.Request.Context()
	token := session.Token(c)

	users := h.users.Load(ctx, h.pages.key(c, "manage/users"), "", listing.ParsePage(c.Query("page")), h.fetchUsers(token))
	if users.Err != nil && h.pages.fail(c, users.Err, "Failed to fetch user data.") {
		return
	}

	data := gin.H{
		"Title":     "Manage Users",
		"Users":     users.Items,
		"UserPager": pagerView(c, "page", users.Pager),
		"Return":    c.Request.URL.RequestURI(),
	}

	if selected := c.Query("user"); selected != "" {
		campaigns := h.campaigns.Load(ctx, h.pages.key(c, "manage/campaigns"), selected,
			listing.ParsePage(c.Query("cpage")), h.fetchCampaigns(token, selected))
		if campaigns.Err != nil && h.pages.fail(c, campaigns.Err, "Failed to fetch campaign data.") {
			return
		}
		payments := h.payments.Load(ctx, h.pages.key(c, "manage/payments"), selected,
			listing.ParsePage(c.Query("ppage")), fetchPayments(h.client, token, selected, h.pages.PageSize))
		if payments.Err != nil && h.pages.fail(c, payments.Err, "Failed to fetch payment data.") {
			return
		}

		data["Selected"] = selected
		data["Campaigns"] = campaigns.Items
		data["CampaignPager"] = pagerView(c, "cpage", campaigns.Pager)
		data["Payments"] = payments.Items
		data["PaymentPager"] = pagerView(c, "ppage", payments.Pager)
		data["Ledger"] = ledger.Summarize(serverTotals(payments.State), payments.Items, nil)
	}

	h.pages.render(c, "users_manage.tmpl", data)
}

// SetStatus flips a user between active and inactive.
func (h *UserHandler) SetStatus(c *gin.Context) {
	userID := c.Param("id")
	active := c.PostForm("active") == "1"
	status := "inactive"
	if active {
		status = "active"
	}

	err := h.client.SetUserStatus(c.Request.Context(), session.Token(c), userID, active)
	if err != nil {
		if h.pages.expired(c, err) {
			return
		}
		logging.WithContext(c.Request.Context()).Errorf("Error updating user status: %v", err)
		notify.Flash(c, notify.Error(err, "Failed to update user status."))
		h.activity.Record(c, models.ActionToggleStatus, userID, "set "+status, false)
		redirectBack(c, "/users/manage")
		return
	}

	h.activity.Record(c, models.ActionToggleStatus, userID, "set "+status, true)
	notify.Flash(c, notify.Success("User Status Updated", fmt.Sprintf("User %s is now %s", userID, status)))
	redirectBack(c, "/users/manage")
}

// CreateUserPage shows the create-user form. Choosing an embedded phone
// (?embedded=<id>) fills its WABA and phone-number ids.
func (h *UserHandler) CreateUserPage(c *gin.Context) {
	ctx := c.Request.Context()
	token := session.Token(c)

	pricing, err := h.client.Pricing(ctx, token)
	if err != nil {
		if h.pages.fail(c, err, "Failed to fetch pricing data.") {
			return
		}
		pricing = []pkgmodels.PricingOption{}
	}
	embedded, err := h.client.EmbeddedUsers(ctx, token)
	if err != nil {
		if h.pages.fail(c, err, "Failed to fetch embedded users.") {
			return
		}
		embedded = []pkgmodels.EmbeddedUser{}
	}

	var form forms.CreateUserForm
	_ = c.ShouldBindQuery(&form)
	if phone, ok := findEmbedded(embedded, c.Query("embedded")); ok {
		form.WabaID = phone.WabaID
		form.PhoneNumberID = phone.NumberID
	}

	h.pages.render(c, "users_create.tmpl", gin.H{
		"Title":    "Create User",
		"Pricing":  pricing,
		"Embedded": embedded,
		"Selected": c.Query("embedded"),
		"Form":     form,
	})
}

func findEmbedded(list []pkgmodels.EmbeddedUser, id string) (pkgmodels.EmbeddedUser, bool) {
	if id == "" {
		return pkgmodels.EmbeddedUser{}, false
	}
	for _, e := range list {
		if e.ID.String() == id {
			return e, true
		}
	}
	return pkgmodels.EmbeddedUser{}, false
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()
	token := session.Token(c)

	var form forms.CreateUserForm
	if err := c.ShouldBind(&form); err != nil {
		notify.Flash(c, notify.Failure("Error", "Please fill in all fields."))
		c.Redirect(http.StatusSeeOther, "/users")
		return
	}
	if embeddedID := c.PostForm("embedded"); embeddedID != "" && (form.WabaID == "" || form.PhoneNumberID == "") {
		embedded, err := h.client.EmbeddedUsers(ctx, token)
		if err == nil {
			if phone, ok := findEmbedded(embedded, embeddedID); ok {
				form.WabaID = phone.WabaID
				form.PhoneNumberID = phone.NumberID
			}
		}
	}

	if err := forms.Validate(form); err != nil {
		n := notify.Error(err, "Please fill in all fields.")
		if invalid, ok := err.(*forms.ValidationError); ok && invalid.Missing {
			n = notify.Failure("Error", "Please fill in all fields.")
		}
		notify.Flash(c, n)
		c.Redirect(http.StatusSeeOther, "/users?"+keepCreateForm(form).Encode())
		return
	}

	pricing, _ := strconv.Atoi(form.PricingTier)
	user := pkgmodels.NewUser{
		Email:         form.Email,
		Password:      form.Password,
		Name:          form.Name,
		WaPricing:     pricing,
		WabaID:        form.WabaID,
		PhoneNumberID: form.PhoneNumberID,
	}
	if err := h.client.InsertUser(ctx, token, user); err != nil {
		if h.pages.expired(c, err) {
			return
		}
		logging.WithContext(ctx).Errorf("Error creating user: %v", err)
		notify.Flash(c, notify.Error(err, "Failed to create user."))
		h.activity.Record(c, models.ActionCreateUser, form.Email, "create failed", false)
		c.Redirect(http.StatusSeeOther, "/users?"+keepCreateForm(form).Encode())
		return
	}

	h.activity.Record(c, models.ActionCreateUser, form.Email, "created "+form.Name, true)
	notify.Flash(c, notify.Success("User Created", "User created successfully!"))
	c.Redirect(http.StatusSeeOther, "/users")
}

// keepCreateForm carries the entered values, without the password, back
// to the form after a failed submit.
func keepCreateForm(form forms.CreateUserForm) url.Values {
	values := url.Values{}
	for key, value := range map[string]string{
		"email":           form.Email,
		"name":            form.Name,
		"pricing_tier":    form.PricingTier,
		"waba_id":         form.WabaID,
		"phone_number_id": form.PhoneNumberID,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	result := h.users.Load(c.Request.Context(), h.pages.key(c, "api/users"), "",
		listing.ParsePage(c.Query("page")), h.fetchUsers(session.Token(c)))
	if result.Err != nil {
		jsonError(c, h.pages, result.Err, "Failed to fetch user data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Items, "pager": result.Pager, "stale": result.Stale})
}

func (h *UserHandler) ListCampaigns(c *gin.Context) {
	userID := c.Query("user")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is required"})
		return
	}
	result := h.campaigns.Load(c.Request.Context(), h.pages.key(c, "api/campaigns"), userID,
		listing.ParsePage(c.Query("page")), h.fetchCampaigns(session.Token(c), userID))
	if result.Err != nil {
		jsonError(c, h.pages, result.Err, "Failed to fetch campaign data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Items, "pager": result.Pager, "stale": result.Stale})
}
