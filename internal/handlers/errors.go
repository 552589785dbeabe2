package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

// fail maps a service error onto a response. resource names what was looked
// up for 404s; op names the operation in 500s and in the log line.
func fail(c *drift.Context, logger *slog.Logger, op, resource string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.BadRequest(verr.Error())
	case errors.Is(err, services.ErrValidation):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		c.NotFound("member not found")
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(resource + " not found")
	case errors.Is(err, services.ErrDuplicateMember):
		_ = c.JSON(http.StatusConflict, map[string]string{
			"code":    "DUPLICATE_MEMBER",
			"message": services.ErrDuplicateMember.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		_ = c.JSON(http.StatusConflict, map[string]string{
			"code":    "EMAIL_TAKEN",
			"message": services.ErrEmailTaken.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(services.ErrForbidden.Error())
	case errors.Is(err, services.ErrCannotRemoveOwner):
		c.BadRequest(services.ErrCannotRemoveOwner.Error())
	case errors.Is(err, services.ErrCannotChangeOwnerRole):
		c.BadRequest(services.ErrCannotChangeOwnerRole.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrInvalidRefreshToken):
		c.Unauthorized(services.ErrInvalidRefreshToken.Error())
	default:
		logger.Error("request failed",
			slog.String("op", op),
			slog.String("path", c.Request.URL.Path),
			slog.String("user_id", middleware.GetUserID(c).String()),
			slog.String("user_email", middleware.GetUserEmail(c)),
			slog.String("error", err.Error()))
		c.InternalServerError("failed to " + op)
	}
}
