package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	profileService ProfileServiceInterface
	logger         *slog.Logger
}

func NewUserHandler(profileService ProfileServiceInterface, logger *slog.Logger) *UserHandler {
	return &UserHandler{profileService: profileService, logger: logger}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.logger, "load profile", "user", err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe renames the caller. The new name is copied into every project
// snapshot that embeds the user.
func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.profileService.Rename(c.Request.Context(), userID, req.Name)
	if err != nil {
		fail(c, h.logger, "update profile", "user", err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}
