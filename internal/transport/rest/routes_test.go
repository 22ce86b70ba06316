package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/routing"
)

func newRouteHandler() *RouteHandler {
	return NewRouteHandler(routing.NewResolver(routing.DefaultTable()), quietLogger())
}

func TestRouteHandler_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		status int
		path   string
	}{
		{"key in english", "?target=contact&lang=en", http.StatusOK, "/en/contact"},
		{"key defaults to german", "?target=contact", http.StatusOK, "/kontakt"},
		{"unknown key is home", "?target=nope&lang=en", http.StatusOK, "/en"},
		{"legacy path passes through", "?target=/alt/seite%23top&lang=en", http.StatusOK, "/alt/seite#top"},
		{"missing target", "?lang=en", http.StatusBadRequest, ""},
		{"bad lang", "?target=contact&lang=fr", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			newRouteHandler().Resolve(rec, httptest.NewRequest(http.MethodGet, "/api/routes/resolve"+tt.query, nil))
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var body resolvedPath
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.path, body.Path)
		})
	}
}

func TestRouteHandler_Alternate(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouteHandler().Alternate(rec, httptest.NewRequest(http.MethodGet, "/api/routes/alternate?path=/kontakt/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body alternatePath
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Matched)
	assert.Equal(t, "/en/contact", body.Path)
	assert.Equal(t, "en", body.Language)

	rec = httptest.NewRecorder()
	newRouteHandler().Alternate(rec, httptest.NewRequest(http.MethodGet, "/api/routes/alternate?path=/en/unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var miss alternatePath
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &miss))
	assert.False(t, miss.Matched)
	assert.Empty(t, miss.Path)
	assert.Equal(t, "de", miss.Language)
}

func TestRouteHandler_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		serve func(h *RouteHandler) http.HandlerFunc
		url   string
		field string
	}{
		{"resolve without target", func(h *RouteHandler) http.HandlerFunc { return h.Resolve }, "/api/routes/resolve", "target"},
		{"alternate without path", func(h *RouteHandler) http.HandlerFunc { return h.Alternate }, "/api/routes/alternate", "path"},
		{"alternate with bad lang", func(h *RouteHandler) http.HandlerFunc { return h.Alternate }, "/api/routes/alternate?path=/kontakt&lang=fr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.serve(newRouteHandler())(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			if tt.field != "" {
				var body errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Len(t, body.Fields, 1)
				assert.Equal(t, tt.field, body.Fields[0].Field)
			}
		})
	}
}

func TestRouteHandler_UnexpectedErrorIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewRouteHandler(routing.NewResolver(routing.DefaultTable()), slog.New(slog.NewTextHandler(&buf, nil)))

	rec := httptest.NewRecorder()
	handleError(h.log, rec, httptest.NewRequest(http.MethodGet, "/api/routes/resolve", nil), errors.New("resolver exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "handler=routes")
	assert.Contains(t, buf.String(), "resolver exploded")
}

func TestLoginPath(t *testing.T) {
	t.Parallel()

	login := LoginPath(routing.NewResolver(routing.DefaultTable()))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/inbox", nil)
	assert.Equal(t, "/anmelden", login(req))

	req.Header.Set("Referer", "https://example.com/en/account")
	assert.Equal(t, "/en/login", login(req))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/inbox?lang=en", nil)
	assert.Equal(t, "/en/login", login(req))
}
