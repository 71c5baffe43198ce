package gateway

import "fmt"

// NetworkError indicates the request never produced a usable server
// response: dial/DNS failure, timeout, or an unreadable body.
type NetworkError struct {
	Msg string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return e.Msg
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DomainError indicates the server responded with an envelope whose code
// is non-zero. Code values are server-defined.
type DomainError struct {
	Code int
	Msg  string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with code %d", e.Code)
}

// UnauthorizedError indicates an HTTP 401 response. By the time the
// caller sees it the session has already been invalidated.
type UnauthorizedError struct {
	Msg string
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}
