package handler

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	// Create.
	status, body := env.do(t, http.MethodPost, "/admin/api/articles", map[string]any{
		"title":    "Edge AI Sensors",
		"verse":    "techverse",
		"markdown": "# Edge AI Sensors\n\nBody.",
	})
	require.Equal(t, http.StatusCreated, status, "create failed: %v", body)
	assert.Equal(t, "edge-ai-sensors", field(t, body, "article", "slug"))
	assert.Equal(t, "draft", field(t, body, "article", "status"))
	id := field(t, body, "article", "id").(float64)

	// List with filters.
	status, body = env.do(t, http.MethodGet, "/admin/api/articles?verse=techverse", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["articles"], 1)

	status, body = env.do(t, http.MethodGet, "/admin/api/articles?verse=finverse", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["articles"])

	// Patch keeps absent fields.
	status, body = env.do(t, http.MethodPatch, articlePath(id, ""), map[string]any{
		"meta_desc": "Sensors on the edge.",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Edge AI Sensors", field(t, body, "article", "title"))
	assert.Equal(t, "Sensors on the edge.", field(t, body, "article", "meta_desc"))

	// Schedule.
	at := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	status, body = env.do(t, http.MethodPost, articlePath(id, "/schedule"), map[string]any{
		"publish_at": at,
		"status":     "scheduled",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "scheduled", field(t, body, "article", "status"))

	// Publish queues a build.
	status, body = env.do(t, http.MethodPost, articlePath(id, "/publish"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "published", field(t, body, "article", "status"))
	assert.NotEmpty(t, field(t, body, "job", "id"))
	env.orch.Wait()

	// Suggest links.
	status, body = env.do(t, http.MethodGet, articlePath(id, "/suggest-links"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["links"], 5)
}

func TestArticleValidation(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	status, _ := env.do(t, http.MethodPost, "/admin/api/articles", map[string]any{"verse": "techverse"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/admin/api/articles", map[string]any{
		"title": "X", "verse": "novaverse",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/admin/api/articles", map[string]any{
		"title": "X", "verse": "techverse", "status": "live",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/admin/api/articles", map[string]any{
		"title": "X", "verse": "techverse", "publish_at": "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/admin/api/articles/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/admin/api/articles/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSuggestLinksByVerse(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	status, body := env.do(t, http.MethodGet, "/admin/api/articles/suggest-links?verse=finverse", nil)
	require.Equal(t, http.StatusOK, status)
	links := body["links"].([]any)
	require.NotEmpty(t, links)
	first := links[0].(map[string]any)
	assert.Equal(t, "/finverse/beginners-budgeting.html", first["url"])
}

func articlePath(id float64, suffix string) string {
	return "/admin/api/articles/" + strconv.FormatInt(int64(id), 10) + suffix
}
