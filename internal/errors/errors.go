// Package errors provides custom error types for the application.
package errors

import "errors"

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("old password is incorrect")
	ErrInvalidRole        = errors.New("only farmers can become equipment owners")
)

// Auth errors
var (
	ErrUnauthorized      = errors.New("unauthorized user request")
	ErrTokenExpired      = errors.New("jwt expired")
	ErrInvalidToken      = errors.New("invalid token")
	ErrSessionNotFound   = errors.New("session not found or expired")
	ErrSessionReuse      = errors.New("refresh token reuse detected, session revoked")
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
)

// Equipment errors
var (
	ErrEquipmentNotFound     = errors.New("equipment not found")
	ErrNotEquipmentOwner     = errors.New("you can only modify your own equipment")
	ErrImageLimitExceeded    = errors.New("equipment can have at most 5 images")
	ErrImageNotFound         = errors.New("image not found on this equipment")
	ErrLocationNotResolvable = errors.New("could not resolve equipment location to coordinates")
	ErrEquipmentHasBookings  = errors.New("equipment has active bookings and cannot be deleted")
)

// Booking errors
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAlreadyBooked       = errors.New("you have already booked this equipment and the booking is in progress")
	ErrOwnBookingForbidden = errors.New("owners cannot book their own equipment")
	ErrNotAvailable        = errors.New("equipment is not available for booking")
	ErrNotBookingUser      = errors.New("only the booking user can cancel this booking")
	ErrNotBookingOwner     = errors.New("only the equipment owner can update this booking")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
)
