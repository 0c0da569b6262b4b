package domain

import "errors"

var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrNotFound          = errors.New("resource not found")
	ErrGeofenceViolation = errors.New("outside badge geofence")
	ErrQRMismatch        = errors.New("proof token does not match")
	ErrAlreadyUsedCoupon = errors.New("coupon already used")
	ErrExpiredCoupon     = errors.New("coupon expired")
	ErrIneligiblePartner = errors.New("badge count below partner minimum")
	ErrValidation        = errors.New("invalid request")
)
