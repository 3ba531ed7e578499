package user

import "errors"

// Validation errors.
var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrAllFieldsRequired     = errors.New("All fields are required")
	ErrPasswordTooShort      = errors.New("Password must be at least 6 characters long")
	ErrTokenRequired         = errors.New("Token is required")
)

// Business errors.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserAlreadyExists  = errors.New("User already exists")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrUserNotFound       = errors.New("User not found")
)

// Internal failures surfaced with stable messages.
var (
	ErrLoginFailed        = errors.New("Login failed")
	ErrRegistrationFailed = errors.New("Registration failed")
)
