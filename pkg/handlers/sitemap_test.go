package handlers

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSitemapHandler(t *testing.T) {
	h, err := NewSitemapHandler("https://sprintlaunchers.com/", zap.NewNop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	for _, path := range []string{"/sitemap", "/sitemap.xml"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, mux, httptest.NewRequest(http.MethodGet, path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))

			var set sitemapURLSet
			require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
			assert.Equal(t, sitemapNamespace, set.Xmlns)
			require.Len(t, set.URLs, 2)
			assert.Equal(t, "https://sprintlaunchers.com/", set.URLs[0].Loc)
			assert.Equal(t, "https://sprintlaunchers.com/contact", set.URLs[1].Loc)
		})
	}
}

func TestSitemapHandler_RejectsPost(t *testing.T) {
	h, err := NewSitemapHandler("https://sprintlaunchers.com", zap.NewNop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := serve(t, mux, httptest.NewRequest(http.MethodPost, "/sitemap", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
