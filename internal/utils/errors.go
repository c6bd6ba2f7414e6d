package utils

import "net/http"

type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindConflict   ErrorKind = "ConflictError"
	KindAuth       ErrorKind = "AuthError"
	KindForbidden  ErrorKind = "ForbiddenError"
	KindUpload     ErrorKind = "UploadError"
)

// AppError is a failure that already knows the message and status the
// client should see.
type AppError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, StatusCode: http.StatusBadRequest}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg, StatusCode: http.StatusBadRequest}
}

func NewAuthError(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg, StatusCode: http.StatusBadRequest}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg, StatusCode: http.StatusForbidden}
}

func NewUploadError(msg string) *AppError {
	return &AppError{Kind: KindUpload, Message: msg, StatusCode: http.StatusInternalServerError}
}
