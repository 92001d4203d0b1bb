package validator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "chatbot-evaluation/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /api/chat:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [evaluation_id, message]
              properties:
                evaluation_id:
                  type: integer
                  minimum: 1
                message:
                  type: string
      responses:
        "200":
          description: ok
`

func newValidator(t *testing.T) (*OpenAPIValidator, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o600))

	v, err := NewOpenAPIValidator(path)
	require.NoError(t, err)
	return v, path
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	v, _ := newValidator(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler(), v.Middleware())
	r.POST("/api/chat", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	r.GET("/api/other", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareRejectsInvalidBody(t *testing.T) {
	r := newEngine(t)

	w := post(r, `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")

	w = post(r, `{"evaluation_id":0,"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMiddlewarePassesValidBodyThrough(t *testing.T) {
	r := newEngine(t)

	w := post(r, `{"evaluation_id":3,"message":"hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"evaluation_id":3,"message":"hi"}`, w.Body.String())
}

func TestMiddlewareIgnoresUndocumentedRoutes(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/other", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNewOpenAPIValidatorRejectsMissingFile(t *testing.T) {
	_, err := NewOpenAPIValidator(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReloadSchemaKeepsPreviousDocumentOnError(t *testing.T) {
	v, path := newValidator(t)
	require.NoError(t, v.ReloadSchema())

	require.NoError(t, os.WriteFile(path, []byte("openapi: [broken"), 0o600))
	assert.Error(t, v.ReloadSchema())
	assert.NotNil(t, v.swagger.Paths.Find("/api/chat"))
}

func TestReloadSchemaReadsChangedFile(t *testing.T) {
	v, path := newValidator(t)
	assert.Nil(t, v.swagger.Paths.Find("/api/other"))

	changed := testSchema + `  /api/other:
    get:
      responses:
        "204":
          description: empty
`
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o600))
	require.NoError(t, v.ReloadSchema())
	assert.NotNil(t, v.swagger.Paths.Find("/api/other"))

	// A second validator on the same path sees the current contents too
	other, err := NewOpenAPIValidator(path)
	require.NoError(t, err)
	assert.NotNil(t, other.swagger.Paths.Find("/api/other"))
}
