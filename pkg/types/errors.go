package types

import "fmt"

// DevnetError is the typed error every subsystem raises. Code is an
// HTTP-compatible status; the router maps it 1:1 onto a response.
type DevnetError struct {
	Code    int
	Message string
}

func (e *DevnetError) Error() string {
	return e.Message
}

// NewInvalidSpec reports a devnet spec that failed validation.
func NewInvalidSpec(field, reason string) *DevnetError {
	return &DevnetError{Code: 400, Message: fmt.Sprintf("invalid devnet spec: field %s: %s", field, reason)}
}

// NewBadRequest reports a malformed path or body.
func NewBadRequest(msg string) *DevnetError {
	return &DevnetError{Code: 400, Message: msg}
}

// NewForbidden reports a tenant/namespace mismatch.
func NewForbidden() *DevnetError {
	return &DevnetError{Code: 403, Message: "network id must match the user id of the authenticated user"}
}

// NewNotFound reports an absent namespace or asset set.
func NewNotFound(msg string) *DevnetError {
	return &DevnetError{Code: 404, Message: msg}
}

// NewAlreadyExists reports a create against a non-absent namespace.
func NewAlreadyExists(namespace string) *DevnetError {
	return &DevnetError{Code: 409, Message: fmt.Sprintf("network %s already exists", namespace)}
}

// NewConflict reports cluster-observed divergence from the expected asset
// shape. No rollback is attempted; the caller must delete.
func NewConflict(msg string) *DevnetError {
	return &DevnetError{Code: 409, Message: msg}
}

// NewUpstream reports a proxy transport failure.
func NewUpstream(msg string) *DevnetError {
	return &DevnetError{Code: 502, Message: msg}
}

// NewInternal reports an unexpected failure.
func NewInternal(msg string) *DevnetError {
	return &DevnetError{Code: 500, Message: msg}
}

// AsDevnetError coerces any error into a DevnetError, defaulting to an
// internal error so a raw cluster or transport failure still carries a code.
func AsDevnetError(err error) *DevnetError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DevnetError); ok {
		return de
	}
	return NewInternal(err.Error())
}
