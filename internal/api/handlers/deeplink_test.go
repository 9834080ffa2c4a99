package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/router"
)

func TestDeepLinkDispatchesParsedEntry(t *testing.T) {
	var got *router.Entry
	h := NewDeepLinkHandler(func(entry router.Entry) { got = &entry })

	body := `{"url": "quarry://console?slug=all-the-mods&tab=live"}`
	req := httptest.NewRequest(http.MethodPost, "/open", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "/console", got.Path)
	assert.Equal(t, "all-the-mods", got.Params["slug"])
	assert.Equal(t, "live", got.Props["tab"])
}

func TestDeepLinkRejectsWrongScheme(t *testing.T) {
	called := false
	h := NewDeepLinkHandler(func(router.Entry) { called = true })

	body := `{"url": "https://example.com/phish"}`
	req := httptest.NewRequest(http.MethodPost, "/open", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestDeepLinkRejectsBadJSON(t *testing.T) {
	called := false
	h := NewDeepLinkHandler(func(router.Entry) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/open", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestDeepLinkUnknownPathStillDispatches(t *testing.T) {
	// Route validation belongs to the navigation layer, which lands unknown
	// paths on its invalid page. The listener forwards them untouched.
	var got *router.Entry
	h := NewDeepLinkHandler(func(entry router.Entry) { got = &entry })

	body := `{"url": "quarry://definitely-not-a-page"}`
	req := httptest.NewRequest(http.MethodPost, "/open", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "/definitely-not-a-page", got.Path)
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}
