package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := rec.Body.String()
	assert.Contains(t, body, `"openapi"`)
	for _, path := range []string{
		"/healthz",
		"/api/map",
		"/api/map/paths/{from}/{to}/position",
		"/api/profiles/{profile}/state",
		"/api/profiles/{profile}/travel",
		"/api/profiles/{profile}/quiz",
		"/api/profiles/{profile}/reset",
		"/api/profiles/{profile}/events",
		"/api/profiles/{profile}/ws",
	} {
		assert.Contains(t, body, `"`+path+`"`)
	}
	assert.Contains(t, body, "villageId")
	assert.Contains(t, body, "answerIndex")
}

func TestSwaggerUI(t *testing.T) {
	app := newTestApp(t, "")

	rec := app.do(t, http.MethodGet, "/docs/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "/openapi.json")
}
