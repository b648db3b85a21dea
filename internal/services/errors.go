// Package services defines the business logic for the daycare register:
// child lifecycle, action logging, settings, and authentication. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages and HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// Validation errors (caller must correct the input and retry).
var (
	// ErrNameRequired is returned when a registration has an empty child name.
	ErrNameRequired = errors.New("child name is required")

	// ErrParentPhoneRequired is returned when the primary guardian contact
	// is missing. The secondary contact is always optional.
	ErrParentPhoneRequired = errors.New("parent phone is required")

	// ErrPickupTimeRequired is returned when a registration has no pickup time.
	ErrPickupTimeRequired = errors.New("pickup time is required")

	// ErrPickupTimeInvalid is returned when the pickup time does not parse
	// as a time of day (HH:MM).
	ErrPickupTimeInvalid = errors.New("pickup time must be a time of day (HH:MM)")

	// ErrStatusInvalid is returned when a status filter is neither "active"
	// nor "picked_up".
	ErrStatusInvalid = errors.New("status must be active or picked_up")

	// ErrChildIDRequired is returned when an action log names no child.
	ErrChildIDRequired = errors.New("child id is required")

	// ErrChildNameRequired is returned when an action log carries no child
	// name snapshot.
	ErrChildNameRequired = errors.New("child name is required")

	// ErrActionTypeRequired is returned when an action log has no type.
	ErrActionTypeRequired = errors.New("action type is required")

	// ErrMessageRequired is returned when an action log has no message text.
	ErrMessageRequired = errors.New("message is required")

	// ErrSettingKeyRequired is returned when a settings write names no key.
	ErrSettingKeyRequired = errors.New("setting key is required")

	// ErrUsernameRequired is returned when a registration has no username.
	ErrUsernameRequired = errors.New("username is required")

	// ErrPasswordRequired is returned when a registration has no password.
	ErrPasswordRequired = errors.New("password is required")

	// ErrPasswordTooShort is returned when a password is shorter than the
	// minimum of 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Lookup and conflict errors.
var (
	// ErrChildNotFound indicates that the requested child does not exist.
	ErrChildNotFound = errors.New("child not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on login when the user is unknown
	// OR the password does not match. One error for both cases so the
	// response never reveals whether a username exists.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
