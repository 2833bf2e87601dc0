package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	//404 注文・顧客・料理が無い
	ErrNotFound = errors.New("not found")
	//409 キャンセルできない状態
	ErrInvalidTransition = errors.New("invalid transition")
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//409 競合
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// handlerがそのままJSONにできるエラー。
// Kindで errors.Is(err, ErrNotFound) のように種類を判定できる
type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Kind
}

// statusからKindを決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindForStatus(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

func Validation(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

func Unauthorized(message string) error {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func Forbidden(message string) error {
	return NewHTTPError(http.StatusForbidden, message)
}

func Conflict(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}

// InvalidTransitionも409だがKindはConflictと分ける
func InvalidTransition(message string) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Message: message,
		Kind:    ErrInvalidTransition,
	}
}

func Internal(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}
