package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jkx4r/techify/internal/models"
)

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "test_user", "password": "password123"}
	rec, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.NotZero(t, user.ID)

	// duplicate handle is rejected with a validation outcome
	rec, c = env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandlerValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/register", map[string]string{"username": "ab", "password": "password123"})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/register", map[string]string{"username": "test_user", "password": "short"})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandlerSetsCookies(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "test_user", "password": "password123"}
	_, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/login", payload)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	access := cookieByName(rec, "accessToken")
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)
	require.NotNil(t, cookieByName(rec, "refreshToken"))

	id, err := env.AuthSvc.Resolve(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "test_user", id.Handle)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "test_user", "password": "password123"}
	_, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{"username": "test_user", "password": "wrong_password"})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdatePasswordHandler(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "test_user", "password": "password123"}
	_, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))

	rec, c := env.doJSONRequest(http.MethodPatch, "/profile/password", map[string]string{"new_pass": "x"})
	require.NoError(t, env.Auth.UpdatePassword(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPatch, "/profile/password", map[string]string{"new_password": "brandnewpass1"})
	asUser(c, "test_user", models.RoleCustomer)
	require.NoError(t, env.Auth.UpdatePassword(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
