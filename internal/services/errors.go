package services

import "errors"

var (
	// ErrNoWorkspace aborts a flow when there is no root to scan.
	ErrNoWorkspace = errors.New("no workspace folder is open")
	// ErrMissingAPIKey aborts a flow before any I/O.
	ErrMissingAPIKey = errors.New("API key is not configured")
)
