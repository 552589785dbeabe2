package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/dimitrije/projectboard/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type authTest struct {
	auth   *testutil.MockAuthService
	tokens *testutil.MockTokenService
	jwtSvc *services.JWTService
	app    http.Handler
}

func setupAuthTest() *authTest {
	at := &authTest{
		auth:   new(testutil.MockAuthService),
		tokens: new(testutil.MockTokenService),
		jwtSvc: testutil.TestJWTService(),
	}
	handler := NewAuthHandler(at.auth, at.tokens, discardLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/refresh", handler.RefreshToken)
	app.Post("/auth/logout", handler.Logout)
	protected := app.Group("")
	protected.Use(middleware.Auth(at.jwtSvc))
	protected.Post("/auth/logout-all", handler.LogoutAll)
	at.app = app
	return at
}

var testPair = &services.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

func TestAuthHandler_Register_Created(t *testing.T) {
	at := setupAuthTest()
	user := testUser("Marko")
	at.auth.On("Register", mock.Anything, "Marko", "marko@example.com", "secret1").Return(user, nil)
	at.tokens.On("Issue", mock.Anything, user).Return(testPair, nil)

	rec := testutil.Request(t, at.app, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{Name: "Marko", Email: "marko@example.com", Password: "secret1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var response dto.AuthResponse
	testutil.DecodeJSON(t, rec, &response)
	assert.Equal(t, "access", response.AccessToken)
	assert.Equal(t, "refresh", response.RefreshToken)
	assert.Equal(t, user.ID, response.User.ID)
	at.auth.AssertExpectations(t)
	at.tokens.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	at := setupAuthTest()
	at.auth.On("Register", mock.Anything, "", "taken@example.com", "secret1").Return(nil, services.ErrEmailTaken)

	rec := testutil.Request(t, at.app, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{Email: "taken@example.com", Password: "secret1"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_TAKEN")
	at.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	at := setupAuthTest()
	at.auth.On("Register", mock.Anything, "", "a@example.com", "123").
		Return(nil, &services.ValidationError{Field: "password", Reason: "must be at least 6 characters"})

	rec := testutil.Request(t, at.app, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{Email: "a@example.com", Password: "123"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password must be at least 6 characters")
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		at := setupAuthTest()
		user := testUser("Marko")
		at.auth.On("Login", mock.Anything, "marko@example.com", "secret1").Return(user, nil)
		at.tokens.On("Issue", mock.Anything, user).Return(testPair, nil)

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/login", "",
			dto.LoginRequest{Email: "marko@example.com", Password: "secret1"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		at := setupAuthTest()
		at.auth.On("Login", mock.Anything, "marko@example.com", "nope").Return(nil, services.ErrInvalidCredentials)

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/login", "",
			dto.LoginRequest{Email: "marko@example.com", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		at := setupAuthTest()

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "marko@example.com"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		at.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("profile bootstrap fails", func(t *testing.T) {
		at := setupAuthTest()
		at.auth.On("Login", mock.Anything, "marko@example.com", "secret1").
			Return(nil, errors.Join(services.ErrProfileCreation, errors.New("insert failed")))

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/login", "",
			dto.LoginRequest{Email: "marko@example.com", Password: "secret1"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("rotates", func(t *testing.T) {
		at := setupAuthTest()
		user := testUser("Marko")
		at.tokens.On("Rotate", mock.Anything, "old-refresh").Return(user, testPair, nil)

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/refresh", "",
			dto.RefreshTokenRequest{RefreshToken: "old-refresh"})

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.AuthResponse
		testutil.DecodeJSON(t, rec, &response)
		assert.Equal(t, "refresh", response.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		at := setupAuthTest()
		at.tokens.On("Rotate", mock.Anything, "stale").Return(nil, nil, services.ErrInvalidRefreshToken)

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/refresh", "",
			dto.RefreshTokenRequest{RefreshToken: "stale"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		at := setupAuthTest()

		rec := testutil.Request(t, at.app, http.MethodPost, "/auth/refresh", "", dto.RefreshTokenRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "refresh_token is required")
	})
}

func TestAuthHandler_Logout_RevokesHashedToken(t *testing.T) {
	at := setupAuthTest()
	at.tokens.On("RevokeRefreshToken", mock.Anything, services.HashToken("refresh")).Return(nil)

	rec := testutil.Request(t, at.app, http.MethodPost, "/auth/logout", "", dto.RefreshTokenRequest{RefreshToken: "refresh"})

	assert.Equal(t, http.StatusOK, rec.Code)
	at.tokens.AssertExpectations(t)
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	at := setupAuthTest()
	user := testUser("Marko")
	at.tokens.On("RevokeAllUserTokens", mock.Anything, user.ID).Return(nil)

	rec := testutil.Request(t, at.app, http.MethodPost, "/auth/logout-all", testutil.GenerateTestToken(t, user), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "all sessions logged out")

	rec = testutil.Request(t, at.app, http.MethodPost, "/auth/logout-all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
