package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/devconnect-backend/internal/handlers"
	"github.com/AnshRaj112/devconnect-backend/internal/repository/memory"
	"github.com/AnshRaj112/devconnect-backend/internal/routes"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

// testEnv wires the real router and handlers against in-memory repositories.
type testEnv struct {
	router   *chi.Mux
	tokens   *services.TokenService
	users    *memory.UserRepository
	profiles *memory.ProfileRepository
	posts    *memory.PostRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := services.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	require.NoError(t, err)

	users := memory.NewUserRepository()
	profiles := memory.NewProfileRepository()
	posts := memory.NewPostRepository()

	h := &routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens),
		Profile: handlers.NewProfileHandler(profiles, users),
		Post:    handlers.NewPostHandler(posts, users),
		Upload:  handlers.NewUploadHandler(users, nil),
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, tokens)

	return &testEnv{router: router, tokens: tokens, users: users, profiles: profiles, posts: posts}
}

// do performs a request against the router. A non-empty token is sent in the
// x-auth-token header; a non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns the session token.
func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// decode unmarshals a recorder body into dest.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

// errMsgs extracts the messages from an {"errors":[{"msg":...}]} body.
func errMsgs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	decode(t, rec, &body)
	msgs := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

// msgOf extracts the message from a {"msg":...} body.
func msgOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	decode(t, rec, &body)
	return body.Msg
}
