package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcount-api/models"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *AuthHandler) {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-test-secret")
	gin.SetMode(gin.TestMode)

	db := newHandlerTestDB(t)
	h := &AuthHandler{DB: db}

	router := gin.New()
	router.POST("/auth/signup", h.Signup)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)
	router.POST("/auth/logout", h.Logout)

	return router, h
}

func TestSignupAndLogin(t *testing.T) {
	router, _ := newAuthRouter(t)
	nobody := testUser{}

	w := doJSON(t, router, nobody, "POST", "/auth/signup", gin.H{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var signup models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.NotEmpty(t, signup.AccessToken)
	assert.NotEmpty(t, signup.RefreshToken)
	assert.Equal(t, "Alice", signup.User.Name)
	assert.Zero(t, signup.User.Budget)

	// Duplicate email is a conflict
	w = doJSON(t, router, nobody, "POST", "/auth/signup", gin.H{
		"email":    "alice@example.com",
		"password": "another-pass",
		"name":     "Imposter",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password
	w = doJSON(t, router, nobody, "POST", "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Right password
	w = doJSON(t, router, nobody, "POST", "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// Refresh mints a new access token off the session
	w = doJSON(t, router, nobody, "POST", "/auth/refresh", gin.H{
		"refresh_token": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Logout kills the session; refresh now fails
	w = doJSON(t, router, nobody, "POST", "/auth/logout", gin.H{
		"refresh_token": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, nobody, "POST", "/auth/refresh", gin.H{
		"refresh_token": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
