package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error that knows its HTTP status and the message key shown
// to the user.
type AppError struct {
	Code    int          `json:"code"`
	Key     string       `json:"key"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError points a message at one field or row.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Key + ": " + e.Err.Error()
	}
	return e.Key
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, key string, err error) *AppError {
	return &AppError{Code: code, Key: key, Err: err}
}

func BadRequest(key string, err error) *AppError {
	return New(http.StatusBadRequest, key, err)
}

func NotFound(key string, err error) *AppError {
	return New(http.StatusNotFound, key, err)
}

func Conflict(key string, err error) *AppError {
	return New(http.StatusConflict, key, err)
}

func Unprocessable(key string, err error) *AppError {
	return New(http.StatusUnprocessableEntity, key, err)
}

func Unauthorized(key string) *AppError {
	return New(http.StatusUnauthorized, key, nil)
}

func BadGateway(key string, err error) *AppError {
	return New(http.StatusBadGateway, key, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "internal", err)
}

// WithField attaches a field-level detail.
func (e *AppError) WithField(field, message string) *AppError {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
	return e
}

// GetAppError converts an error to AppError if possible.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
