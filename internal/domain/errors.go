package domain

import (
	"errors"
)

// Категории ошибок. Граница HTTP сопоставляет их со статусами.
var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("authentication failed")
	ErrPersistence = errors.New("persistence error")
)

// Error несёт категорию, сообщение для клиента и исходную причину.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

func NewAuthError(msg string) *Error {
	return &Error{Kind: ErrAuth, Msg: msg}
}

func NewPersistenceError(msg string, err error) *Error {
	return &Error{Kind: ErrPersistence, Msg: msg, Err: err}
}

// Message возвращает сообщение для клиента, если err - *Error.
func Message(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg, true
	}
	return "", false
}
