package notify

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"waba-admin/internal/backend"
	"waba-admin/internal/forms"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPrefersServerMessage(t *testing.T) {
	n := Error(&backend.APIError{Status: 400, Message: "Insufficient privileges"}, "Failed to add balance.")
	assert.Equal(t, "Insufficient privileges", n.Description)
	assert.Equal(t, VariantDestructive, n.Variant)

	n = Error(&backend.APIError{Status: 502, Body: "<html>bad gateway</html>"}, "Failed to add balance.")
	assert.Equal(t, "Failed to add balance.", n.Description)

	n = Error(errors.New("dial tcp: connection refused"), "Failed to fetch user data.")
	assert.Equal(t, "Failed to fetch user data.", n.Description)

	n = Error(&forms.ValidationError{Messages: []string{"Amount is a required field"}}, "ignored")
	assert.Equal(t, "Amount is a required field", n.Description)
}

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		Flash(c, Success("Success", "Login successful!"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, Consume(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `[{"title":"Success","description":"Login successful!","variant":"default"}]`, w.Body.String())
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestConsumeWithdrawsFlashQueuedInSameRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/page", func(c *gin.Context) {
		c.SetCookie("view", "v-1", 60, "/", "", false, true)
		Flash(c, Failure("Error", "db down"))
		c.JSON(http.StatusOK, Consume(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))

	assert.Contains(t, w.Body.String(), "db down")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "view", cookies[0].Name)
}
