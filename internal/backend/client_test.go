package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"waba-admin/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, StaticToken: "static-token", HTTP: srv.Client()}
}

func TestLoginReturnsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoginPath, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["email"])
		w.Write([]byte(`{"token":"jwt-123"}`))
	})

	token, err := client.Login(context.Background(), "ops@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-123", token)
}

func TestLoginWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := client.Login(context.Background(), "ops@example.com", "secret")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestErrorMessageExtraction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "ops@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", ServerMessage(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "API error: 400 - Invalid credentials", err.Error())
}

func TestUnauthorizedIsDetected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"jwt expired"}`))
	})

	_, err := client.ListUsers(context.Background(), "old", 1, 10)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "jwt expired", ServerMessage(err))
}

func TestBearerTokenFallsBackToStaticToken(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.Pricing(context.Background(), "session-token")
	require.NoError(t, err)
	_, err = client.Pricing(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer session-token", "Bearer static-token"}, seen)
}

func TestListPaymentsDefaults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req pageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, pageRequest{UserID: "42", Page: 2, Limit: 10}, req)
		w.Write([]byte(`{"pagination":{"total_pages":0}}`))
	})

	page, err := client.ListPayments(context.Background(), "tok", "42", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.Nil(t, page.Totals)
}

func TestListPaymentsWithTotals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data":[{"payment_id":7,"user_id":"42","payment_method":"upi","payment_date":"2025-01-02","transaction_type":"credit","amount":"100.50","campaign_id":null}],
			"pagination":{"total_pages":3},
			"totals":{"credit":100.5,"debit":"40","refund":0}
		}`))
	})

	page, err := client.ListPayments(context.Background(), "tok", "42", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, models.ID("7"), page.Data[0].PaymentID)
	assert.True(t, decimal.RequireFromString("100.50").Equal(page.Data[0].Amount))
	assert.Equal(t, 3, page.Pagination.TotalPages)
	require.NotNil(t, page.Totals)
	assert.True(t, decimal.NewFromInt(40).Equal(page.Totals.Debit))
}

func TestListTemplatesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, TemplatesPath+"/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"templates":[{"id":1,"name":"diwali","created_at":"2025-01-01T10:00:00Z"}],"totalPages":4}`))
	})

	page, err := client.ListTemplates(context.Background(), "tok", "42", 3, 10)
	require.NoError(t, err)
	require.Len(t, page.Templates, 1)
	assert.Equal(t, "diwali", page.Templates[0].Name)
	assert.Equal(t, 4, page.TotalPages)
}

func TestAddBalanceSendsNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"user_id":"42","amount":250.75}`, string(raw))
		w.Write([]byte(`{"message":"Balance added"}`))
	})

	err := client.AddBalance(context.Background(), "tok", "42", decimal.RequireFromString("250.75"))
	assert.NoError(t, err)
}

func TestSetUserStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, UsersPath+"/42", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":0}`, string(raw))
	})

	assert.NoError(t, client.SetUserStatus(context.Background(), "tok", "42", false))
}

func TestBalanceMissingIsZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balance":null}`))
	})

	balance, err := client.Balance(context.Background(), "tok", "42")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestInsertUserForcesDefaults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var got models.NewUser
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, 0, got.Balance)
		assert.Equal(t, 1, got.Status)
		assert.Equal(t, "user", got.Role)
		assert.Equal(t, "new@example.com", got.Email)
	})

	err := client.InsertUser(context.Background(), "tok", models.NewUser{Email: "new@example.com", Balance: 500, Status: 0, Role: "admin"})
	assert.NoError(t, err)
}

func TestAnalyticsAcceptsWrappedAndFlat(t *testing.T) {
	bodies := []string{
		`{"data":{"totalSent":1500,"delivered":1400}}`,
		`{"totalSent":1500,"delivered":1400}`,
	}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		metrics, err := client.Analytics(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, 1500, metrics.TotalSent)
		assert.Equal(t, 1400, metrics.Delivered)
	}
}
