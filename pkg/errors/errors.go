package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Сентинельные ошибки доменного слоя. Сервисы оборачивают их через %w,
// контроллеры сводят к HTTP-кодам в ToHttpError.
var (
	ErrNotFound     = errors.New("запись не найдена")
	ErrForbidden    = errors.New("доступ запрещён")
	ErrConflict     = errors.New("конфликт состояния")
	ErrUnauthorized = errors.New("неавторизован")
	ErrBadRequest   = errors.New("неверный запрос")

	// JWT и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrInvalidCredentials   = errors.New("неверные учётные данные")
	ErrEmptyAuthHeader      = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader    = errors.New("неверный формат заголовка авторизации")

	// Контекст
	ErrActorNotFoundInContext = errors.New("актор не найден в контексте запроса")
)

type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// ToHttpError сводит доменную ошибку к HTTP-ответу. Неизвестные ошибки
// считаются внутренними и не раскрывают деталей клиенту.
func ToHttpError(err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewHttpError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, ErrConflict):
		return NewHttpError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidCredentials):
		return NewHttpError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, err.Error(), err)
	}
	return NewHttpError(http.StatusInternalServerError, "внутренняя ошибка сервера", err)
}
