package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	authService  AuthServiceInterface
	tokenService TokenServiceInterface
	logger       *slog.Logger
}

func NewAuthHandler(authService AuthServiceInterface, tokenService TokenServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, "register", "user", err)
		return
	}

	pair, err := h.tokenService.Issue(ctx, user)
	if err != nil {
		fail(c, h.logger, "generate tokens", "user", err)
		return
	}

	_ = c.JSON(http.StatusCreated, toAuthResponse(user, pair))
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, "sign in", "user", err)
		return
	}

	pair, err := h.tokenService.Issue(ctx, user)
	if err != nil {
		fail(c, h.logger, "generate tokens", "user", err)
		return
	}

	_ = c.JSON(http.StatusOK, toAuthResponse(user, pair))
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	user, pair, err := h.tokenService.Rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, h.logger, "refresh tokens", "user", err)
		return
	}

	_ = c.JSON(http.StatusOK, toAuthResponse(user, pair))
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash); err != nil {
			h.logger.Warn("revoke refresh token", slog.String("error", err.Error()))
		}
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		fail(c, h.logger, "revoke tokens", "user", err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "all sessions logged out"})
}
