package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"infera-console/internal/config"
	"infera-console/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *fiber.App {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewApp(&config.Config{Env: "test", HealthAdminKey: "k"}, rdb, nil)
}

func TestNewApp_RoleSwitchFlow(t *testing.T) {
	app := setupRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/role", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
	var sid string
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sid = ck.Value
		}
	}
	require.NotEmpty(t, sid)

	req := httptest.NewRequest("PUT", "/api/v1/role", strings.NewReader(`{"role":"project_developer"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/role/capabilities", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Data map[string]bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, map[string]bool{
		"canEdit": true, "canManage": false, "canViewFinance": false, "canViewModels": true, "isAdmin": false,
	}, out.Data)

	// History needs is_admin; project_developer is refused before the missing database matters.
	req = httptest.NewRequest("GET", "/api/v1/role/history", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNewApp_PublicEndpoints(t *testing.T) {
	app := setupRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/roles", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "infera_console_http_requests_total")

	resp, err = app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNewApp_MetricsSurviveMixedMethodTraffic(t *testing.T) {
	app := setupRouter(t)

	var sid string
	for i := 0; i < 3; i++ {
		for _, step := range []struct{ method, body string }{
			{"PUT", `{"role":"project_viewer"}`},
			{"GET", ""},
			{"DELETE", ""},
		} {
			req := httptest.NewRequest(step.method, "/api/v1/role", strings.NewReader(step.body))
			req.Header.Set("Content-Type", "application/json")
			if sid != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode, step.method)
			for _, ck := range resp.Cookies() {
				if ck.Name == middleware.SessionCookieName {
					sid = ck.Value
				}
			}
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	for _, method := range []string{"GET", "PUT", "DELETE"} {
		assert.Contains(t, string(body), `method="`+method+`"`)
	}
	assert.NotContains(t, string(body), `method="DEL"`)
}
