package models

import "errors"

var (
	errEmptyID                       = errors.New("models: descriptor id must not be empty")
	errLocalPathMissing               = errors.New("models: local path does not exist")
	errNoCompatibleBackends           = errors.New("models: installed descriptor must declare compatible backends")
	errPreferredBackendNotCompatible  = errors.New("models: preferred backend is not a member of compatible backends")
	// ErrNotFound is returned by Get/Update/Unregister when no descriptor is
	// registered under the given id.
	ErrNotFound = errors.New("models: descriptor not found")
	// ErrAlreadyRegistered is returned by Register when the id is already
	// present (callers that want to overwrite should Update instead).
	ErrAlreadyRegistered = errors.New("models: descriptor already registered")
)
