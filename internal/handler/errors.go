// Package handler wires HTTP requests to the service layer.
package handler

import (
	"errors"
	"fmt"
	"log"

	apperrors "krushak/internal/errors"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps service errors to HTTP statuses. Anything unmapped is a 500
// and gets logged rather than leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrEquipmentNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrImageNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, apperrors.ErrEmailTaken),
		errors.Is(err, apperrors.ErrUsernameTaken),
		errors.Is(err, apperrors.ErrEquipmentHasBookings),
		errors.Is(err, apperrors.ErrInvalidTransition):
		response.Conflict(c, err.Error())

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrSessionReuse),
		errors.Is(err, apperrors.ErrTokenExpired):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, apperrors.ErrNotEquipmentOwner),
		errors.Is(err, apperrors.ErrNotBookingUser),
		errors.Is(err, apperrors.ErrNotBookingOwner),
		errors.Is(err, apperrors.ErrOwnBookingForbidden),
		errors.Is(err, apperrors.ErrInvalidRole):
		response.Forbidden(c, err.Error())

	case errors.Is(err, apperrors.ErrPasswordMismatch),
		errors.Is(err, apperrors.ErrLocationNotResolvable),
		errors.Is(err, apperrors.ErrImageLimitExceeded),
		errors.Is(err, apperrors.ErrNotAvailable),
		// A duplicate active booking is a 400, matching the message the
		// booking UI shows verbatim.
		errors.Is(err, apperrors.ErrAlreadyBooked),
		errors.Is(err, apperrors.ErrResetTokenInvalid):
		response.BadRequest(c, err.Error())

	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		response.InternalError(c)
	}
}

// bindingErrors flattens validator errors into human-readable strings.
func bindingErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("field %s failed on the %s rule", fe.Field(), fe.Tag()))
	}
	return out
}
