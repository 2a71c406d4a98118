package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/auth"
	"github.com/brahmand/brahmand/internal/build"
	"github.com/brahmand/brahmand/internal/cache"
	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/scheduler"
	"github.com/brahmand/brahmand/internal/seo"
	"github.com/brahmand/brahmand/internal/service"
	"github.com/brahmand/brahmand/internal/session"
	"github.com/brahmand/brahmand/internal/sitegen"
	"github.com/brahmand/brahmand/internal/store"
)

type testEnv struct {
	db      *sql.DB
	srv     *httptest.Server
	client  *http.Client
	orch    *build.Orchestrator
	siteDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, "sqlite"))
	require.NoError(t, store.Seed(ctx, db, true))

	sm := session.New(db, "mysql", true)

	siteDir := t.TempDir()
	contentDir := t.TempDir()
	generator := sitegen.New(db, siteDir, contentDir, "https://brahmand.co")
	orch := build.New(job.NewRegistry(10), generator, nil)

	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { mem.Close() })

	// Pinger aimed at a stub engine so tests stay offline.
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(engine.Close)
	pinger := seo.NewPingerWithEndpoints(engine.Client(), map[string]string{
		"stub": engine.URL + "/ping?sitemap=",
	})

	articles := service.NewArticleService(db, contentDir, nil)
	h := New(Deps{
		DB:       db,
		Sessions: sm,
		Guard:    middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 1000, IPBurst: 1000}),
		Articles: articles,
		Verses:   service.NewVerseService(db, mem),
		Menus:    service.NewMenuService(db),
		Media:    service.NewMediaService(db, filepath.Join(siteDir, "assets", "media")),
		Events:   service.NewEventService(db),
		Builds:   orch,
		Publisher: scheduler.NewPublisher(db, orch, nil),
		Generator: generator,
		Pinger:    pinger,
		SiteURL:   "https://brahmand.co",
	})

	router := chi.NewRouter()
	router.Use(sm.LoadAndSave)
	router.Mount("/admin/api", h.Routes())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		db:      db,
		srv:     srv,
		client:  &http.Client{Jar: jar},
		orch:    orch,
		siteDir: siteDir,
	}
}

// do performs a JSON request and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (e *testEnv) login(t *testing.T, email, password string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/admin/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)
}

func (e *testEnv) loginAdmin(t *testing.T) {
	e.login(t, store.DefaultAdminEmail, store.DefaultAdminPassword)
}

func (e *testEnv) createUser(t *testing.T, email, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	_, err = store.New(e.db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test User",
		Now:          time.Now().UTC(),
	})
	require.NoError(t, err)
}

func field(t *testing.T, body map[string]any, keys ...string) any {
	t.Helper()
	var current any = body
	for _, key := range keys {
		m, ok := current.(map[string]any)
		require.True(t, ok, "expected object at %q in %v", key, body)
		current, ok = m[key]
		require.True(t, ok, "missing %q in %v", key, m)
	}
	return current
}

