package reservation

import "errors"

var (
	ErrInvalidRange            = errors.New("invalid reservation range")
	ErrInvalidMode             = errors.New("invalid booking mode")
	ErrConflict                = errors.New("reservation range overlaps existing booking")
	ErrResourceNotFound        = errors.New("resource not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrRequesterNotFound       = errors.New("requester not found")
	ErrRequesterBlocked        = errors.New("requester is blocked")
	ErrForbidden               = errors.New("not allowed to access this reservation")
	ErrInvalidStatusTransition = errors.New("reservation status does not allow this transition")
)
