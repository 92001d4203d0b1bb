package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatbot-evaluation/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker() *Checker {
	return NewChecker(logger.New(logger.Config{Level: "error", Output: &bytes.Buffer{}}), time.Minute)
}

func serve(t *testing.T, c *Checker) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", c.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestDatabaseDownMakesSystemUnhealthy(t *testing.T) {
	c := newTestChecker()
	healthy := true
	c.RegisterDatabaseCheck(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	})

	c.RunChecks(context.Background())
	code, body := serve(t, c)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	healthy = false
	c.RunChecks(context.Background())
	code, body = serve(t, c)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	components := body["components"].(map[string]any)
	db := components["database"].(map[string]any)
	assert.Equal(t, "down", db["status"])
	assert.Equal(t, "connection refused", db["error"])
}

func TestInferenceEndpointIsNotCritical(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	c := newTestChecker()
	c.RegisterAPICheck("inference", upstream.URL, upstream.Client())
	c.RunChecks(context.Background())

	status := c.GetStatus()["api-inference"]
	assert.Equal(t, StatusDegraded, status.Status)
	assert.True(t, c.IsSystemHealthy())
}
