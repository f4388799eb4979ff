package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ndemidov/campusforum/pkg/errors"
)

func setupContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccessEnvelope(t *testing.T) {
	c, w := setupContext(t)

	Success(c, http.StatusCreated, gin.H{"id": 1})

	require.Equal(t, http.StatusCreated, w.Code)

	var payload Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Nil(t, payload.Error)
}

func TestErrorEnvelopeFromAppError(t *testing.T) {
	c, w := setupContext(t)

	Error(c, apperrors.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var payload Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, "INVALID_CREDENTIALS", payload.Error.Code)
}

func TestErrorEnvelopeHidesInternals(t *testing.T) {
	c, w := setupContext(t)

	Error(c, apperrors.ErrInternalServer.WithInternal(
		apperrors.NewBadRequest("driver: secret dsn leaked")))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "dsn")
}

func TestErrorDefaultsOnNil(t *testing.T) {
	c, w := setupContext(t)

	Error(c, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
