package services

import "fmt"

// ServiceError carries the HTTP status a handler should answer with. Store
// failures are wrapped with WrapError instead and surfaced generically, so
// query text never reaches a caller.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

// ErrNoFieldsToUpdate distinguishes "nothing to do" from "did nothing": a
// patch with an empty field set is a caller mistake, not a silent no-op.
func ErrNoFieldsToUpdate() error {
	return ServiceError{Status: 400, Message: "No fields to update"}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
