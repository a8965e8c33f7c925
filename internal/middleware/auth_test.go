package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

func newAuthedRouter(t *testing.T) (*services.TokenService, http.Handler) {
	t.Helper()
	tokens, err := services.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	require.NoError(t, err)

	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		w.Write([]byte(id.Hex()))
	}))
	return tokens, handler
}

func TestRequireAuthNoToken(t *testing.T) {
	_, handler := newAuthedRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No token, authorization denied", body["msg"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	_, handler := newAuthedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth-token", "garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Token is not valid", body["msg"])
}

func TestRequireAuthExpiredToken(t *testing.T) {
	tokens, handler := newAuthedRouter(t)

	token, err := tokens.IssueWithTTL(primitive.NewObjectID().Hex(), -time.Second)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidTokenResolvesIdentity(t *testing.T) {
	tokens, handler := newAuthedRouter(t)

	userID := primitive.NewObjectID()
	token, err := tokens.Issue(userID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.Hex(), rec.Body.String())
}

func TestUserIDAbsentFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserID(req.Context())
	assert.False(t, ok)
}
