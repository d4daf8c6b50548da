//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"venuebook/internal/handler/dto/request"
	"venuebook/internal/handler/dto/response"
	"venuebook/tests/common/authtest"
	"venuebook/tests/common/httptest"
	"venuebook/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type AuthSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestRegisterAndLogin() {
	s.Run("a registered user can log in and read their profile", func() {
		t := s.T()

		reg := request.RegisterRequest{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "password123",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reg, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		token := authtest.LoginUser(t, s.Router, "carol", "password123")

		mw := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, mw.Code, mw.Body.String())

		var me response.UserResponse
		err := httptest.DecodeResponseBody(t, mw.Body, &me)
		require.NoError(t, err)
		require.Equal(t, "carol", me.Username)
		require.Equal(t, "carol@example.com", me.Email)
		require.Equal(t, "user", me.Role)
	})

	s.Run("duplicate registration is rejected", func() {
		t := s.T()

		reg := request.RegisterRequest{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "password123",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reg, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reg, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("wrong password is unauthorized", func() {
		t := s.T()

		reg := request.RegisterRequest{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "password123",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reg, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Username: "carol", Password: "wrong-password"}, "")
		require.Equal(t, http.StatusUnauthorized, lw.Code)

		// Unknown users produce the same response as bad passwords.
		lw = httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Username: "nobody", Password: "password123"}, "")
		require.Equal(t, http.StatusUnauthorized, lw.Code)
	})

	s.Run("a refresh token yields a new token pair", func() {
		t := s.T()

		reg := request.RegisterRequest{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "password123",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reg, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Username: "carol", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, lw.Code)

		var pair response.TokenPairResponse
		err := httptest.DecodeResponseBody(t, lw.Body, &pair)
		require.NoError(t, err)

		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
		require.Equal(t, http.StatusOK, rw.Code, rw.Body.String())

		var refreshed response.TokenPairResponse
		err = httptest.DecodeResponseBody(t, rw.Body, &refreshed)
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.AccessToken)

		// An access token is not accepted as a refresh token.
		rw = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: pair.AccessToken}, "")
		require.Equal(t, http.StatusUnauthorized, rw.Code)
	})

	s.Run("requests without a token are unauthorized", func() {
		t := s.T()

		mw := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, mw.Code)
	})
}
