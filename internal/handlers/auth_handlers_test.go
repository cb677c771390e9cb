package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKovalyov/food_delivery/internal/models"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthHandler) {
	env := newTestEnv(t)
	auth := &AuthHandler{
		DB:            env.DB,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	return env, auth
}

func TestRegister(t *testing.T) {
	env, auth := newAuthEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, "")
	require.NoError(t, auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegister_MissingFields(t *testing.T) {
	env, auth := newAuthEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice",
	}, "")
	err := auth.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRegister_Duplicate(t *testing.T) {
	env, auth := newAuthEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice", "password": "secret123",
	}, "")
	require.NoError(t, auth.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice", "password": "other456",
	}, "")
	err := auth.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestLogin(t *testing.T) {
	env, auth := newAuthEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice", "password": "secret123",
	}, "")
	require.NoError(t, auth.Register(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"username": "alice", "password": "secret123",
	}, "")
	require.NoError(t, auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, "accessToken")
	assert.Contains(t, names, "refreshToken")

	var count int64
	env.DB.Model(&models.RefreshToken{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLogin_WrongPassword(t *testing.T) {
	env, auth := newAuthEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "alice", "password": "secret123",
	}, "")
	require.NoError(t, auth.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"username": "alice", "password": "wrong",
	}, "")
	err := auth.Login(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
