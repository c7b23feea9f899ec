package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanele/peoplebook/internal/auth"
	"github.com/okanele/peoplebook/internal/metrics"
	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/server"
	"github.com/okanele/peoplebook/internal/storage/sqlite"
)

type testApp struct {
	srv    *httptest.Server
	client *http.Client
	store  *sqlite.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ctx := context.Background()
	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, &models.User{Username: "admin", PasswordHash: hash}))

	sessions := auth.NewSessionStore(time.Hour)
	t.Cleanup(sessions.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := server.New(logger, store, sessions, t.TempDir(), metrics.New())

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		srv:    srv,
		client: &http.Client{Jar: jar},
		store:  store,
	}
}

func (a *testApp) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := a.client.Post(a.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func (a *testApp) do(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	return a.postJSON(t, "/api/login", map[string]string{"username": username, "password": password})
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// personForm builds a multipart body for create/update requests. An empty
// photoName omits the photo part entirely.
func personForm(t *testing.T, name, age, place, photoName string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", name))
	require.NoError(t, w.WriteField("age", age))
	require.NoError(t, w.WriteField("place", place))
	if photoName != "" {
		fw, err := w.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func countLogs(t *testing.T, app *testApp, action string) []models.LogEntry {
	t.Helper()
	resp := app.do(t, http.MethodGet, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decodeJSON[[]models.LogEntry](t, resp)
	matched := []models.LogEntry{}
	for _, e := range entries {
		if e.Action == action {
			matched = append(matched, e)
		}
	}
	return matched
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	t.Run("wrong password", func(t *testing.T) {
		resp := app.login(t, "admin", "wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := app.login(t, "nobody", "admin123")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("seeded credentials", func(t *testing.T) {
		resp := app.login(t, "admin", "admin123")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "admin", body["username"])
	})

	t.Run("me after login", func(t *testing.T) {
		resp := app.do(t, http.MethodGet, "/api/me", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "admin", body["username"])
	})
}

func TestAuthGate(t *testing.T) {
	app := newTestApp(t)

	guarded := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/people"},
		{http.MethodPost, "/api/people"},
		{http.MethodPut, "/api/people/1"},
		{http.MethodDelete, "/api/people/1"},
		{http.MethodGet, "/api/logs"},
		{http.MethodPost, "/api/change-password"},
	}
	for _, route := range guarded {
		resp := app.do(t, route.method, route.path, "", nil)
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s without session", route.method, route.path)
		resp.Body.Close()
	}

	resp := app.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	resp := app.login(t, "admin", "admin123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodGet, "/api/people", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodPost, "/api/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "Logged out", body["message"])

	resp = app.do(t, http.MethodGet, "/api/people", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Logout without a session is still a success.
	resp = app.do(t, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestPeopleCRUD(t *testing.T) {
	app := newTestApp(t)
	resp := app.login(t, "admin", "admin123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var created models.Person

	t.Run("create with photo", func(t *testing.T) {
		body, contentType := personForm(t, "Alice", "30", "Riga", "alice.jpg")
		resp := app.do(t, http.MethodPost, "/api/people", contentType, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		created = decodeJSON[models.Person](t, resp)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Alice", created.Name)
		assert.Equal(t, 30, created.Age)
		assert.Equal(t, "admin", created.CreatedBy)
		assert.Equal(t, "admin", created.UpdatedBy)
		require.NotNil(t, created.PhotoURL)
		assert.Contains(t, *created.PhotoURL, "/uploads/")

		require.Len(t, countLogs(t, app, models.ActionAdd), 1)
		assert.Equal(t, "Added person: Alice", countLogs(t, app, models.ActionAdd)[0].Details)
	})

	t.Run("list includes created person", func(t *testing.T) {
		resp := app.do(t, http.MethodGet, "/api/people", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		people := decodeJSON[[]models.Person](t, resp)
		require.Len(t, people, 1)
		assert.Equal(t, created.ID, people[0].ID)
	})

	t.Run("filter by age", func(t *testing.T) {
		body, contentType := personForm(t, "Bob", "41", "Tartu", "")
		resp := app.do(t, http.MethodPost, "/api/people", contentType, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = app.do(t, http.MethodGet, "/api/people?age=41", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		people := decodeJSON[[]models.Person](t, resp)
		require.Len(t, people, 1)
		assert.Equal(t, "Bob", people[0].Name)

		resp = app.do(t, http.MethodGet, "/api/people", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		all := decodeJSON[[]models.Person](t, resp)
		require.Len(t, all, 2)
		assert.Equal(t, "Alice", all[0].Name, "insertion order preserved")
		assert.Equal(t, "Bob", all[1].Name)
	})

	t.Run("non-integer age filter", func(t *testing.T) {
		resp := app.do(t, http.MethodGet, "/api/people?age=thirty", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "age must be an integer", body["error"])
	})

	t.Run("update missing record", func(t *testing.T) {
		body, contentType := personForm(t, "Ghost", "99", "Nowhere", "")
		resp := app.do(t, http.MethodPut, "/api/people/9999", contentType, body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		errBody := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "Record not found", errBody["error"])

		assert.Empty(t, countLogs(t, app, models.ActionEdit), "404 must not produce a log entry")
	})

	t.Run("update without photo preserves reference", func(t *testing.T) {
		body, contentType := personForm(t, "Alice", "31", "Riga", "")
		resp := app.do(t, http.MethodPut, fmt.Sprintf("/api/people/%d", created.ID), contentType, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		msg := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "Updated successfully", msg["message"])

		got, err := app.store.GetPerson(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, 31, got.Age)
		require.NotNil(t, got.PhotoURL)
		assert.Equal(t, *created.PhotoURL, *got.PhotoURL)

		require.Len(t, countLogs(t, app, models.ActionEdit), 1)
	})

	t.Run("update with photo replaces reference", func(t *testing.T) {
		body, contentType := personForm(t, "Alice", "31", "Riga", "new.png")
		resp := app.do(t, http.MethodPut, fmt.Sprintf("/api/people/%d", created.ID), contentType, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		got, err := app.store.GetPerson(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.PhotoURL)
		assert.NotEqual(t, *created.PhotoURL, *got.PhotoURL)
		assert.Contains(t, *got.PhotoURL, ".png")
	})

	t.Run("delete removes record and logs name", func(t *testing.T) {
		resp := app.do(t, http.MethodDelete, fmt.Sprintf("/api/people/%d", created.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		msg := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, "Deleted successfully", msg["message"])

		resp = app.do(t, http.MethodGet, "/api/people", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		people := decodeJSON[[]models.Person](t, resp)
		require.Len(t, people, 1)
		assert.Equal(t, "Bob", people[0].Name)

		deletes := countLogs(t, app, models.ActionDelete)
		require.Len(t, deletes, 1)
		assert.Contains(t, deletes[0].Details, "Alice")
	})

	t.Run("delete of missing record logs Unknown", func(t *testing.T) {
		resp := app.do(t, http.MethodDelete, "/api/people/9999", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		deletes := countLogs(t, app, models.ActionDelete)
		require.Len(t, deletes, 2)
		assert.Contains(t, deletes[0].Details, "Unknown")
	})
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	resp := app.login(t, "admin", "admin123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/api/change-password", map[string]string{"newPassword": "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "Password updated successfully", body["message"])

	// The current session survives a password change.
	resp = app.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.login(t, "admin", "admin123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "old password no longer valid")
	resp.Body.Close()

	resp = app.login(t, "admin", "hunter22")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/me", "", nil)
	resp.Body.Close()

	resp = app.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "peoplebook_http_requests_total")
}
