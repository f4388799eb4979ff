package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAuthHandlerRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "student@edu.hse.ru",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	require.Equal(t, float64(1), user["id"])
	require.Equal(t, "student@edu.hse.ru", user["email"])
	require.Equal(t, false, user["is_verified"])
	require.NotContains(t, rec.Body.String(), "secret123")
	require.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAuthHandlerRegisterForeignDomain(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "student@gmail.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_EMAIL_DOMAIN", errorCode(t, rec))
}

func TestAuthHandlerRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "student@edu.hse.ru", "secret123")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "student@edu.hse.ru",
		"password": "other-password",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "EMAIL_ALREADY_REGISTERED", errorCode(t, rec))
}

func TestAuthHandlerRegisterInvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]gin.H{
		"missing email":    {"password": "secret123"},
		"missing password": {"email": "student@edu.hse.ru"},
		"malformed email":  {"email": "not-an-email", "password": "secret123"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "student@edu.hse.ru", "secret123")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "student@edu.hse.ru",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	require.NotEmpty(t, data["access_token"])
	require.Equal(t, "bearer", data["token_type"])
}

func TestAuthHandlerLoginFailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "student@edu.hse.ru", "secret123")

	wrongPassword := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "student@edu.hse.ru",
		"password": "wrong",
	})
	unknownUser := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ghost@edu.hse.ru",
		"password": "secret123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	require.Equal(t, "INVALID_CREDENTIALS", errorCode(t, wrongPassword))
}

func TestAuthHandlerMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "student@edu.hse.ru", "secret123")

	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "student@edu.hse.ru", data["email"])
	require.Equal(t, false, data["is_verified"])
}

func TestAuthHandlerMeUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	for name, token := range map[string]string{
		"no token":      "",
		"garbage token": "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
		})
	}
}
