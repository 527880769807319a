package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrNoProfiles          = errors.New("no profiles configured")
	ErrProfileExists       = errors.New("profile already exists")
	ErrProfileNameRequired = errors.New("profile name is required")
)

// ErrEmptyPath is returned when a remote path normalizes to nothing.
var ErrEmptyPath = errors.New("path is required")
