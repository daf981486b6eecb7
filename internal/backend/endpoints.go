package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"waba-admin/internal/insights"
	"waba-admin/pkg/models"

	"github.com/shopspring/decimal"
)

const (
	LoginPath            = "/auth/login"
	UsersPath            = "/user/users"
	PaymentsPath         = "/user/payments"
	BalancePath          = "/user/balance"
	AddBalancePath       = "/user/add-balance"
	PricingPath          = "/user/pricing"
	EmbeddedUsersPath    = "/user/embedded-users"
	InsertUserPath       = "/user/insert-user"
	TemplatesPath        = "/templates/get-templates"
	NumberReportPath     = "/wa/number-report"
	IncomingMessagesPath = "/wa/incoming-messages"
)

var ErrNoToken = errors.New("token not received")

type Pagination struct {
	TotalPages int `json:"total_pages"`
}

type UserPage struct {
	Data       []models.User `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

type PaymentPage struct {
	Data       []models.Payment `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Totals     *models.Totals   `json:"totals"`
}

type CampaignPage struct {
	Templates  []models.Campaign `json:"templates"`
	TotalPages int               `json:"totalPages"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type pageRequest struct {
	UserID string `json:"user_id,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.sendRequest(ctx, http.MethodPost, LoginPath, body, "", &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

func (c *Client) ListUsers(ctx context.Context, token string, page, limit int) (*UserPage, error) {
	var resp UserPage
	if err := c.sendRequest(ctx, http.MethodPost, UsersPath, pageRequest{Page: page, Limit: limit}, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.User{}
	}
	resp.Pagination.TotalPages = atLeastOne(resp.Pagination.TotalPages)
	return &resp, nil
}

func (c *Client) SetUserStatus(ctx context.Context, token, userID string, active bool) error {
	status := 0
	if active {
		status = 1
	}
	path := UsersPath + "/" + url.PathEscape(userID)
	return c.sendRequest(ctx, http.MethodPut, path, map[string]int{"status": status}, token, nil)
}

func (c *Client) ListPayments(ctx context.Context, token, userID string, page, limit int) (*PaymentPage, error) {
	var resp PaymentPage
	req := pageRequest{UserID: userID, Page: page, Limit: limit}
	if err := c.sendRequest(ctx, http.MethodPost, PaymentsPath, req, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.Payment{}
	}
	resp.Pagination.TotalPages = atLeastOne(resp.Pagination.TotalPages)
	return &resp, nil
}

func (c *Client) Balance(ctx context.Context, token, userID string) (decimal.Decimal, error) {
	var resp struct {
		Balance decimal.NullDecimal `json:"balance"`
	}
	if err := c.sendRequest(ctx, http.MethodPost, BalancePath, map[string]string{"user_id": userID}, token, &resp); err != nil {
		return decimal.Zero, err
	}
	if !resp.Balance.Valid {
		return decimal.Zero, nil
	}
	return resp.Balance.Decimal, nil
}

func (c *Client) AddBalance(ctx context.Context, token, userID string, amount decimal.Decimal) error {
	body := map[string]interface{}{
		"user_id": userID,
		"amount":  json.Number(amount.String()),
	}
	return c.sendRequest(ctx, http.MethodPost, AddBalancePath, body, token, nil)
}

func (c *Client) Pricing(ctx context.Context, token string) ([]models.PricingOption, error) {
	var resp listResponse[models.PricingOption]
	if err := c.sendRequest(ctx, http.MethodPost, PricingPath, struct{}{}, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.PricingOption{}, nil
	}
	return resp.Data, nil
}

func (c *Client) EmbeddedUsers(ctx context.Context, token string) ([]models.EmbeddedUser, error) {
	var resp listResponse[models.EmbeddedUser]
	if err := c.sendRequest(ctx, http.MethodPost, EmbeddedUsersPath, struct{}{}, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.EmbeddedUser{}, nil
	}
	return resp.Data, nil
}

// InsertUser creates a customer account. Balance, status and role are
// fixed: new accounts start active with an empty balance.
func (c *Client) InsertUser(ctx context.Context, token string, user models.NewUser) error {
	user.Balance = 0
	user.Status = 1
	user.Role = "user"
	return c.sendRequest(ctx, http.MethodPost, InsertUserPath, user, token, nil)
}

func (c *Client) ListTemplates(ctx context.Context, token, userID string, page, limit int) (*CampaignPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	path := fmt.Sprintf("%s/?%s", TemplatesPath, query.Encode())

	var resp CampaignPage
	if err := c.sendRequest(ctx, http.MethodPost, path, map[string]string{"user_id": userID}, token, &resp); err != nil {
		return nil, err
	}
	if resp.Templates == nil {
		resp.Templates = []models.Campaign{}
	}
	resp.TotalPages = atLeastOne(resp.TotalPages)
	return &resp, nil
}

func (c *Client) NumberReport(ctx context.Context, token, userID, phone string) ([]models.SearchResult, error) {
	var resp listResponse[models.SearchResult]
	body := map[string]string{"phone_number": phone, "user_id": userID}
	if err := c.sendRequest(ctx, http.MethodPost, NumberReportPath, body, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.SearchResult{}, nil
	}
	return resp.Data, nil
}

func (c *Client) IncomingMessages(ctx context.Context, token, userID string, page, limit int) ([]models.IncomingMessage, error) {
	var resp listResponse[models.IncomingMessage]
	req := pageRequest{UserID: userID, Page: page, Limit: limit}
	if err := c.sendRequest(ctx, http.MethodPost, IncomingMessagesPath, req, token, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.IncomingMessage{}, nil
	}
	return resp.Data, nil
}

// Analytics fetches the message counters and earnings snapshot.
func (c *Client) Analytics(ctx context.Context, token string) (insights.Metrics, error) {
	var metrics insights.Metrics
	path := c.AnalyticsPath
	if path == "" {
		path = "/wa/analytics"
	}
	var resp struct {
		Data *insights.Metrics `json:"data"`
		insights.Metrics
	}
	if err := c.sendRequest(ctx, http.MethodPost, path, struct{}{}, token, &resp); err != nil {
		return metrics, err
	}
	if resp.Data != nil {
		return *resp.Data, nil
	}
	return resp.Metrics, nil
}
