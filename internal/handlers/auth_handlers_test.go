package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/tokens"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	user := env.register("alice", "alice@example.com", "password")
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "user", user.Role)
	require.NotEmpty(t, user.ID)

	// The hash must be persisted but never equal the raw password and
	// never serialized.
	var stored models.User
	require.NoError(t, env.DB.Where("id = ?", user.ID).First(&stored).Error)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "password", stored.PasswordHash)
	require.NotContains(t, string(mustJSON(t, user)), stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.register("alice", "alice@example.com", "password")

	rec := env.do(http.MethodPost, "/api/users/register", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "other",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Details, "email")
	require.Contains(t, resp.Details, "password")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	user := env.register("alice", "alice@example.com", "password")
	token := env.login("alice@example.com", "password")

	claims, err := tokens.ClaimsFromToken(token, env.Secret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, user.Username, claims.Username)
	require.Equal(t, user.Role, claims.Role)
	require.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.register("alice", "alice@example.com", "password")

	unknown := env.do(http.MethodPost, "/api/users/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	}, "")
	wrongPw := env.do(http.MethodPost, "/api/users/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	}, "")

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	// No account enumeration: both failures answer the same body.
	require.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	user := env.register("alice", "alice@example.com", "password")
	token := env.login("alice@example.com", "password")

	rec := env.do(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "alice", resp.User.Username)

	noToken := env.do(http.MethodGet, "/api/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, noToken.Code)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)

	user := env.register("alice", "alice@example.com", "password")
	token := env.login("alice@example.com", "password")

	rec := env.do(http.MethodDelete, "/api/users/"+user.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	missing := env.do(http.MethodDelete, "/api/users/does-not-exist", nil, token)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
