package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/projects-api/internal/config"
	"github.com/deppfellow/projects-api/internal/handler"
	"github.com/deppfellow/projects-api/internal/model"
	"github.com/deppfellow/projects-api/internal/repository"
	"github.com/deppfellow/projects-api/internal/service"
	"github.com/deppfellow/projects-api/internal/testutil"
	"github.com/deppfellow/projects-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	echo  *echo.Echo
	repos *repository.Repositories
	logs  *bytes.Buffer
}

func setupTestApp(t *testing.T, mutate func(*config.Config)) *testApp {
	t.Helper()

	logs := &bytes.Buffer{}
	s := testutil.NewServer(t, logs, mutate)

	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	return &testApp{
		echo:  NewRouter(s, handler.NewHandlers(s, services)),
		repos: repos,
		logs:  logs,
	}
}

func (a *testApp) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) create(t *testing.T, title, owner string) model.Project {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/projects", map[string]string{"title": title, "owner": owner})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func (a *testApp) list(t *testing.T, target string) []model.Project {
	t.Helper()

	rec := a.do(t, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	return projects
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const absentID = "3f1c2a9e-8b7d-4c6e-9a5f-0d1e2f3a4b5c"

func TestListProjects(t *testing.T) {
	t.Run("empty store returns empty array", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodGet, "/projects", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("returns projects in insertion order", func(t *testing.T) {
		app := setupTestApp(t, nil)
		a := app.create(t, "alpha", "ann")
		b := app.create(t, "beta", "bob")
		c := app.create(t, "gamma", "cid")

		assert.Equal(t, []model.Project{a, b, c}, app.list(t, "/projects"))
	})

	t.Run("filters by case-sensitive title substring", func(t *testing.T) {
		app := setupTestApp(t, nil)
		api := app.create(t, "API", "alice")
		gateway := app.create(t, "API gateway", "bob")
		app.create(t, "frontend", "carol")
		app.create(t, "api lowercase", "dave")

		assert.Equal(t, []model.Project{api, gateway}, app.list(t, "/projects?title=API"))
		assert.Empty(t, app.list(t, "/projects?title=nothing"))
	})

	t.Run("every project is found by a substring of its title", func(t *testing.T) {
		app := setupTestApp(t, nil)
		titles := []string{"payments", "search index", "pay later", "index"}
		for _, title := range titles {
			app.create(t, title, "owner")
		}

		for _, p := range app.list(t, "/projects") {
			sub := p.Title[1 : len(p.Title)-1]
			assert.Contains(t, app.list(t, "/projects?title="+strings.ReplaceAll(sub, " ", "%20")), p)
		}
	})
}

func TestCreateProject(t *testing.T) {
	t.Run("assigns a fresh uuid to every project", func(t *testing.T) {
		app := setupTestApp(t, nil)
		seen := map[string]bool{}

		for i := 0; i < 20; i++ {
			p := app.create(t, "title", "owner")
			assert.True(t, validation.IsValidUUID(p.ID), p.ID)
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
			assert.Equal(t, "title", p.Title)
			assert.Equal(t, "owner", p.Owner)
		}
	})

	t.Run("ignores client supplied id", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodPost, "/projects", map[string]string{
			"id": absentID, "title": "t", "owner": "o",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var p model.Project
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.NotEqual(t, absentID, p.ID)
	})

	t.Run("stores missing fields as empty strings", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodPost, "/projects", map[string]string{"title": "only title"})
		require.Equal(t, http.StatusOK, rec.Code)

		var p model.Project
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "only title", p.Title)
		assert.Equal(t, "", p.Owner)
	})

	t.Run("rejects missing fields when required", func(t *testing.T) {
		app := setupTestApp(t, func(cfg *config.Config) {
			cfg.Projects.RequireFields = true
		})

		rec := app.do(t, http.MethodPost, "/projects", map[string]string{"title": "only title"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := errorBody(t, rec)
		assert.Equal(t, "Validation failed", body["error"])
		assert.Equal(t, []any{map[string]any{"field": "owner", "error": "is required"}}, body["errors"])
		assert.Equal(t, 0, app.repos.Project.Count())
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		app := setupTestApp(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		app.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, errorBody(t, rec)["error"])
		assert.Equal(t, 0, app.repos.Project.Count())
	})

	t.Run("body without json content type is read as empty", func(t *testing.T) {
		for _, contentType := range []string{"", echo.MIMETextPlain} {
			app := setupTestApp(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"x","owner":"y"}`))
			if contentType != "" {
				req.Header.Set(echo.HeaderContentType, contentType)
			}
			rec := httptest.NewRecorder()
			app.echo.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, "content type %q: %s", contentType, rec.Body.String())

			var p model.Project
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.True(t, validation.IsValidUUID(p.ID))
			assert.Equal(t, "", p.Title)
			assert.Equal(t, "", p.Owner)
			assert.Equal(t, 1, app.repos.Project.Count())
		}
	})

	t.Run("rejects non-string fields", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodPost, "/projects", map[string]any{"title": 123, "owner": "y"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec)["error"], "Unmarshal type error")
		assert.Equal(t, 0, app.repos.Project.Count())
	})
}

func TestUpdateProject(t *testing.T) {
	t.Run("replaces fields in place", func(t *testing.T) {
		app := setupTestApp(t, nil)
		first := app.create(t, "first", "a")
		second := app.create(t, "second", "b")
		third := app.create(t, "third", "c")

		rec := app.do(t, http.MethodPut, "/projects/"+second.ID, map[string]string{"title": "SECOND", "owner": "z"})

		require.Equal(t, http.StatusOK, rec.Code)
		want := model.Project{ID: second.ID, Title: "SECOND", Owner: "z"}
		assert.JSONEq(t, `{"id":"`+second.ID+`","title":"SECOND","owner":"z"}`, rec.Body.String())
		assert.Equal(t, []model.Project{first, want, third}, app.list(t, "/projects"))
	})

	t.Run("rejects malformed id without touching the store", func(t *testing.T) {
		app := setupTestApp(t, nil)
		p := app.create(t, "keep", "me")

		for _, id := range []string{"abc", "123", p.ID + "0", strings.ReplaceAll(p.ID, "-", "")} {
			rec := app.do(t, http.MethodPut, "/projects/"+id, map[string]string{"title": "x", "owner": "y"})

			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
			assert.JSONEq(t, `{"error":"Invalid project ID."}`, rec.Body.String(), id)
		}

		assert.Equal(t, []model.Project{p}, app.list(t, "/projects"))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		app := setupTestApp(t, nil)
		app.create(t, "other", "o")

		rec := app.do(t, http.MethodPut, "/projects/"+absentID, map[string]string{"title": "x", "owner": "y"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Project not found."}`, rec.Body.String())
	})

	t.Run("id in body cannot move a project", func(t *testing.T) {
		app := setupTestApp(t, nil)
		p := app.create(t, "t", "o")

		rec := app.do(t, http.MethodPut, "/projects/"+p.ID, map[string]string{"id": absentID, "title": "t2", "owner": "o2"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []model.Project{{ID: p.ID, Title: "t2", Owner: "o2"}}, app.list(t, "/projects"))
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("removes exactly one project", func(t *testing.T) {
		app := setupTestApp(t, nil)
		a := app.create(t, "a", "1")
		b := app.create(t, "b", "2")
		c := app.create(t, "c", "3")

		rec := app.do(t, http.MethodDelete, "/projects/"+b.ID, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, []model.Project{a, c}, app.list(t, "/projects"))
	})

	t.Run("repeating a delete is a stable not found", func(t *testing.T) {
		app := setupTestApp(t, nil)
		p := app.create(t, "a", "1")

		require.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, "/projects/"+p.ID, nil).Code)

		for i := 0; i < 3; i++ {
			rec := app.do(t, http.MethodDelete, "/projects/"+p.ID, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Project not found."}`, rec.Body.String())
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		app := setupTestApp(t, nil)
		app.create(t, "a", "1")

		rec := app.do(t, http.MethodDelete, "/projects/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid project ID."}`, rec.Body.String())
		assert.Equal(t, 1, app.repos.Project.Count())
	})
}

func TestProjectLifecycle(t *testing.T) {
	app := setupTestApp(t, nil)

	created := app.create(t, "API", "alice")
	require.True(t, validation.IsValidUUID(created.ID))

	rec := app.do(t, http.MethodPut, "/projects/"+created.ID, map[string]string{"title": "API v2", "owner": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := model.Project{ID: created.ID, Title: "API v2", Owner: "alice"}

	assert.Equal(t, []model.Project{updated}, app.list(t, "/projects"))

	rec = app.do(t, http.MethodDelete, "/projects/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRequestLogging(t *testing.T) {
	t.Run("logs a start and end line per request", func(t *testing.T) {
		app := setupTestApp(t, nil)

		app.do(t, http.MethodPut, "/projects/abc", map[string]string{"title": "x"})

		lines := testutil.LogLines(t, app.logs)
		started := testutil.LinesWithMessage(lines, "request started")
		completed := testutil.LinesWithMessage(lines, "request completed")

		require.Len(t, started, 1)
		require.Len(t, completed, 1)
		assert.Equal(t, "[PUT] /projects/abc", started[0]["timer"])
		assert.Equal(t, "[PUT] /projects/abc", completed[0]["timer"])
		assert.Equal(t, float64(http.StatusBadRequest), completed[0]["status"])
		assert.Contains(t, completed[0], "elapsed")
	})

	t.Run("end line follows the error response", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodDelete, "/projects/"+absentID, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		lines := testutil.LogLines(t, app.logs)
		errorLine, completedLine := -1, -1
		for i, line := range lines {
			switch line["message"] {
			case "Project not found.":
				errorLine = i
			case "request completed":
				completedLine = i
			}
		}

		require.NotEqual(t, -1, errorLine)
		require.NotEqual(t, -1, completedLine)
		assert.Less(t, errorLine, completedLine)
		assert.Equal(t, float64(http.StatusBadRequest), lines[completedLine]["status"])
	})

	t.Run("service logs carry the request id", func(t *testing.T) {
		app := setupTestApp(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"t","owner":"o"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXRequestID, "req-42")
		rec := httptest.NewRecorder()
		app.echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		created := testutil.LinesWithMessage(testutil.LogLines(t, app.logs), "project created")
		require.Len(t, created, 1)
		assert.Equal(t, "req-42", created[0]["request_id"])
		assert.Equal(t, http.MethodPost, created[0]["method"])
	})

	t.Run("unknown routes are logged too", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodGet, "/nowhere", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())

		completed := testutil.LinesWithMessage(testutil.LogLines(t, app.logs), "request completed")
		require.Len(t, completed, 1)
		assert.Equal(t, float64(http.StatusNotFound), completed[0]["status"])
	})

	t.Run("echoes the request id", func(t *testing.T) {
		app := setupTestApp(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-123")
		rec := httptest.NewRecorder()
		app.echo.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))

		started := testutil.LinesWithMessage(testutil.LogLines(t, app.logs), "request started")
		require.Len(t, started, 1)
		assert.Equal(t, "req-123", started[0]["request_id"])
	})
}

func TestSystemRoutes(t *testing.T) {
	t.Run("status reports store size", func(t *testing.T) {
		app := setupTestApp(t, nil)
		app.create(t, "a", "b")

		rec := app.do(t, http.MethodGet, "/status", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "test", resp.Environment)
		assert.Equal(t, 1, resp.Checks["store"].Projects)
	})

	t.Run("metrics expose request counts and store size", func(t *testing.T) {
		app := setupTestApp(t, nil)
		app.create(t, "a", "b")
		app.create(t, "c", "d")

		rec := app.do(t, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "projects_stored 2")
		assert.Contains(t, body, `http_requests_total{method="POST",route="/projects",status="200"} 2`)
	})

	t.Run("metrics can be disabled", func(t *testing.T) {
		app := setupTestApp(t, func(cfg *config.Config) {
			cfg.Observability.Metrics.Enabled = false
		})

		rec := app.do(t, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("docs and openapi document are served", func(t *testing.T) {
		app := setupTestApp(t, nil)

		rec := app.do(t, http.MethodGet, "/docs", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/static/openapi.json")

		rec = app.do(t, http.MethodGet, "/static/openapi.json", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"/projects/{id}"`)
	})
}

func TestRateLimit(t *testing.T) {
	app := setupTestApp(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	codes := map[int]int{}
	for i := 0; i < 10; i++ {
		codes[app.do(t, http.MethodGet, "/projects", nil).Code]++
	}

	assert.Positive(t, codes[http.StatusOK])
	assert.Positive(t, codes[http.StatusTooManyRequests])
}

func TestConcurrentCreates(t *testing.T) {
	s := testutil.NewServer(t, nil, nil)
	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	require.NoError(t, err)
	e := NewRouter(s, handler.NewHandlers(s, services))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"t","owner":"o"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			e.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	projects, err := repos.Project.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, projects, n)

	ids := map[string]bool{}
	for _, p := range projects {
		ids[p.ID] = true
	}
	assert.Len(t, ids, n)
}
