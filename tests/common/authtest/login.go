//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"venuebook/internal/handler/dto/request"
	"venuebook/internal/handler/dto/response"
	"venuebook/tests/common/dbtest"
	"venuebook/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens response.TokenPairResponse
	err := httptest.DecodeResponseBody(t, w.Body, &tokens)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken, "Access token missing from login response")

	return tokens.AccessToken
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, username, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, username, role)
	return LoginUser(t, router, username, "password123")
}
