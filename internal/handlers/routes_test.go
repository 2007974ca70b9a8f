package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahsanfayaz52/noteservice/internal/accounts"
	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/db/dbtest"
	"github.com/ahsanfayaz52/noteservice/internal/models"
	"github.com/ahsanfayaz52/noteservice/internal/notes"
	"github.com/ahsanfayaz52/noteservice/internal/store"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	conn    *sql.DB
	jwt     *auth.JWTService
}

func newTestServer(t *testing.T, admins ...string) *testServer {
	t.Helper()
	conn := dbtest.Open(t)
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	h := NewRouter(Deps{
		Log:      zerolog.Nop(),
		JWT:      jwtService,
		Notes:    notes.NewService(notes.StoreScoper(store.NewNoteStore(conn))),
		Accounts: accounts.NewService(store.NewUserStore(conn), jwtService, admins),
	})
	return &testServer{t: t, handler: h, conn: conn, jwt: jwtService}
}

// user creates a user row and returns a bearer token for it.
func (s *testServer) user(email, role string) string {
	s.t.Helper()
	id := dbtest.CreateUser(s.t, s.conn, email)
	token, err := s.jwt.GenerateToken(id, role)
	require.NoError(s.t, err)
	return token
}

type response struct {
	status int
	header http.Header
	body   map[string]any
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) response {
	s.t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return response{status: rec.Code, header: rec.Header(), body: body}
}

func data(t *testing.T, res response) map[string]any {
	t.Helper()
	d, ok := res.body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", res.body)
	return d
}

func TestGroceriesScenarioOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)

	res := s.do(http.MethodPost, "/notes", token, map[string]string{"title": "Groceries", "content": "Milk, eggs"})
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, true, res.body["ok"])
	assert.Equal(t, "Note successfully added", res.body["message"])
	created := data(t, res)
	assert.Equal(t, "Groceries", created["title"])
	id := int64(created["id"].(float64))

	res = s.do(http.MethodGet, "/notes", token, nil)
	require.Equal(t, http.StatusOK, res.status)
	list, ok := res.body["data"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Groceries", list[0].(map[string]any)["title"])

	path := fmt.Sprintf("/notes/%d", id)
	res = s.do(http.MethodPut, path, token, map[string]string{"title": "Groceries", "content": "Milk, eggs, bread"})
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Milk, eggs, bread", data(t, res)["content"])

	res = s.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Note deleted successfully", res.body["message"])
	assert.Equal(t, "Milk, eggs, bread", data(t, res)["content"])

	res = s.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, false, res.body["ok"])
	assert.Equal(t, "Note not found", res.body["message"])
}

func TestCreateValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)

	res := s.do(http.MethodPost, "/notes", token, map[string]string{"title": "only title"})
	require.Equal(t, http.StatusBadRequest, res.status)
	errs, ok := res.body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "content", errs[0].(map[string]any)["field"])
	assert.Equal(t, "Content is required", errs[0].(map[string]any)["message"])

	res = s.do(http.MethodGet, "/notes", token, nil)
	assert.Empty(t, res.body["data"])
}

func TestCreateAcceptsFormBodies(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)

	form := url.Values{"title": {"Form"}, "content": {"posted"}}
	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	res := s.serve(req)
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "Form", data(t, res)["title"])
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	res := s.serve(req)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, false, res.body["ok"])
}

func TestNotesAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	alice := s.user("alice@example.com", models.RoleUser)
	bob := s.user("bob@example.com", models.RoleUser)

	res := s.do(http.MethodPost, "/notes", alice, map[string]string{"title": "secret", "content": "alice"})
	require.Equal(t, http.StatusCreated, res.status)
	path := fmt.Sprintf("/notes/%d", int64(data(t, res)["id"].(float64)))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		res := s.do(method, path, bob, map[string]string{"title": "x", "content": "y"})
		assert.Equal(t, http.StatusNotFound, res.status, method)
		assert.Equal(t, "Note not found", res.body["message"], method)
	}

	missing := s.do(http.MethodGet, "/notes/999999", bob, nil)
	assert.Equal(t, http.StatusNotFound, missing.status)
	assert.Equal(t, missing.body, s.do(http.MethodGet, path, bob, nil).body)

	res = s.do(http.MethodDelete, "/notes", bob, nil)
	require.Equal(t, http.StatusOK, res.status)

	res = s.do(http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "alice", data(t, res)["content"])
}

func TestRemoveAllTwice(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)
	s.do(http.MethodPost, "/notes", token, map[string]string{"title": "a", "content": "b"})

	for i := 0; i < 2; i++ {
		res := s.do(http.MethodDelete, "/notes", token, nil)
		require.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, true, res.body["ok"])
		assert.Equal(t, "All notes deleted successfully", res.body["message"])
		assert.NotContains(t, res.body, "data")
	}
	res := s.do(http.MethodGet, "/notes", token, nil)
	assert.Equal(t, []any{}, res.body["data"])
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.user("alice@example.com", models.RoleUser)

	res := s.do(http.MethodGet, "/notes/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Note not found", res.body["message"])
}

func TestNotesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/notes"},
		{http.MethodGet, "/notes"},
		{http.MethodDelete, "/notes"},
		{http.MethodGet, "/notes/1"},
		{http.MethodPut, "/notes/1"},
		{http.MethodDelete, "/notes/1"},
	}
	for _, rt := range routes {
		res := s.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.status, "%s %s", rt.method, rt.path)
		assert.Equal(t, false, res.body["ok"])

		res = s.do(rt.method, rt.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, res.status, "%s %s", rt.method, rt.path)
	}
}

func TestUnmatchedRoutesAnswer200(t *testing.T) {
	s := newTestServer(t)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/nowhere"},
		{http.MethodPatch, "/notes"},
		{http.MethodGet, "/notes/1/extra"},
	} {
		res := s.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusOK, res.status, "%s %s", rt.method, rt.path)
		assert.Equal(t, "This route is not found", res.body["message"])
	}

	res := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Welcome to Note-Taking application.", res.body["message"])
}

func TestRegisterLoginAndCookieAuth(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "jane@example.com", "password": "Abc1"})
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, "jane@example.com", data(t, res)["email"])
	assert.NotContains(t, data(t, res), "password")

	res = s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "jane@example.com", "password": "Abc1"})
	assert.Equal(t, http.StatusConflict, res.status)

	res = s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "bad", "password": "abcd"})
	require.Equal(t, http.StatusBadRequest, res.status)
	assert.Len(t, res.body["errors"], 2)

	res = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.status)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"Abc1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(cookies[0])
	res = s.serve(me)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "jane@example.com", data(t, res)["email"])
	assert.Equal(t, models.RoleUser, data(t, res)["role"])

	res = s.do(http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.status)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	user := s.user("user@example.com", models.RoleUser)
	admin := s.user("admin@example.com", models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/users", "", nil).status)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/users", user, nil).status)

	res := s.do(http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.body["data"], 2)
}

func TestResponsesCarryRequestID(t *testing.T) {
	s := newTestServer(t)
	res := s.do(http.MethodGet, "/nowhere", "", nil)
	assert.NotEmpty(t, res.header.Get("X-Request-ID"))
}
