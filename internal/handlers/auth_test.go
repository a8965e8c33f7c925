package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReturnsWorkingToken(t *testing.T) {
	env := newTestEnv(t)

	token := env.register(t, "A", "a@x.com", "secret1")

	// the token must resolve to the newly created identity
	rec := env.do(t, http.MethodGet, "/api/auth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user map[string]interface{}
	decode(t, rec, &user)
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.Contains(t, user["avatar"], "gravatar.com")
	// the secret hash never leaves the server boundary
	assert.NotContains(t, user, "password")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": "", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	msgs := errMsgs(t, rec)
	assert.Contains(t, msgs, "Name is required")
	assert.Contains(t, msgs, "Please include a valid email")
	assert.Contains(t, msgs, "Please enter a password with 6 or more characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "A", "a@x.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": "B", "email": "a@x.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"User already exists"}, errMsgs(t, rec))
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com", "secret1")

	wrongPassword := env.do(t, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "a@x.com", "password": "wrong-secret",
	})
	unknownEmail := env.do(t, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	// same status, same body: no way to tell which part was wrong
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, []string{"Invalid Credentials"}, errMsgs(t, wrongPassword))
}

func TestGetAuthRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token, authorization denied", msgOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/auth", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid", msgOf(t, rec))
}
