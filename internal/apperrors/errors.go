// Package apperrors описывает таксономию ошибок сервиса.
// Проверять ошибки следует через errors.Is / errors.As.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - входные данные не прошли проверку. Возникает до обращения к хранилищу.
	ErrValidation = errors.New("ошибка валидации")
	// ErrNotFound - запись с указанным id не существует.
	ErrNotFound = errors.New("не найдено")
	// ErrStoreUnavailable - хранилище документов недоступно.
	ErrStoreUnavailable = errors.New("хранилище недоступно")
	// ErrDispatchFailed - уведомление не отправлено.
	ErrDispatchFailed = errors.New("не удалось отправить уведомление")
)

// ValidationError описывает нарушенное предусловие для конкретного поля.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет сравнивать через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid - короткий конструктор ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound оборачивает ErrNotFound с указанием сущности и id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// StoreUnavailable оборачивает ошибку транспорта хранилища, сохраняя исходный текст.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// DispatchError несёт описание, полученное от API мессенджера.
type DispatchError struct {
	Code        int
	Description string
}

func (e *DispatchError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (код %d)", ErrDispatchFailed.Error(), e.Description, e.Code)
	}
	return fmt.Sprintf("%s: %s", ErrDispatchFailed.Error(), e.Description)
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailed
}
