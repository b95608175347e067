package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerForwardsPathQueryAndBody(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Export-Placeholder", "true")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<svg/>"))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.Post("/api/v1/render/*", NewUpstream("renderer", upstream.URL+"/").Handler("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render/archive?teeSigns=false", strings.NewReader(`{"course":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/render/archive", gotPath)
	assert.Equal(t, "teeSigns=false", gotQuery)
	assert.Equal(t, `{"course":{}}`, gotBody)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "true", resp.Header.Get("X-Export-Placeholder"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<svg/>", string(body))
}

func TestHandlerUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	app.Get("/api/v1/courses", NewUpstream("library", url).Handler("/api/v1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/live" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	assert.NoError(t, NewUpstream("renderer", upstream.URL).Ping(context.Background()))
	assert.Error(t, NewUpstream("renderer", upstream.URL+"/nope").Ping(context.Background()))
}
