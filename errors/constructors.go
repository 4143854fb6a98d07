package errors

import (
	"fmt"
)

// NotConfigured creates an error for a missing or incomplete configuration.
func NotConfigured() *OverlapError {
	return New(ErrCodeNotConfigured, "server URL, team token and user token must all be set")
}

// APIRequest creates an error for a non-retryable server rejection.
func APIRequest(status int, message string) *OverlapError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return New(ErrCodeAPIRequest, message).WithDetail("status", status)
}

// APIConnection creates an error for an exhausted retryable transport failure.
func APIConnection(err error) *OverlapError {
	return Wrap(err, ErrCodeAPIConnection, "connection error")
}

// StoreWrite creates an error for a failed session store write.
func StoreWrite(path string, err error) *OverlapError {
	return Wrap(err, ErrCodeStoreWrite, fmt.Sprintf("failed to write session store: %s", path)).
		WithDetail("path", path)
}

// IsNotFound reports whether an error indicates the remote session is gone.
func IsNotFound(err error) bool {
	return Is(err, ErrCodeSessionNotFound)
}
