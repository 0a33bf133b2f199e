package httpresponse

import (
	"errors"
	"net/http"

	errs "team_achievements/internal/errors"
)

// ErrorStatus maps usecase errors to an HTTP status and the detail message
// shown to clients.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, errs.ErrAchievementNotFound):
		return http.StatusNotFound, "Achievement not found"
	case errors.Is(err, errs.ErrLastUser):
		return http.StatusBadRequest, "Cannot delete the last user in the system"
	case errors.Is(err, errs.ErrEmptyUsername):
		return http.StatusBadRequest, "Username is required"
	case errors.Is(err, errs.ErrInvalidAchievement), errors.Is(err, errs.ErrAchievementExists):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrReservedUser):
		return http.StatusForbidden, "Operation not allowed for the admin user"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
