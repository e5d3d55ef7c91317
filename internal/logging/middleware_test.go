package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(logger))
	r.Get("/api/v1/search/{id}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fine"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/search/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 3)

	assert.Equal(t, "inside handler", entries[0]["message"])
	assert.Equal(t, "/api/v1/search/abc", entries[0]["path"])
	assert.NotEmpty(t, entries[0]["request_id"])

	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, float64(http.StatusNotFound), entries[1]["status"])
	assert.Equal(t, "/api/v1/search/{id}", entries[1]["route"])

	assert.Equal(t, "INFO", entries[2]["level"])
	assert.Equal(t, float64(4), entries[2]["bytes"])
}
