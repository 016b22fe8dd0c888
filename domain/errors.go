package domain

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica los errores de las entidades
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation_error"
	KindDuplicate    ErrorKind = "duplicate_entity"
	KindNotDeletable ErrorKind = "not_deletable"
)

// Sentinels para usar con errors.Is
var (
	ErrNotFound     = errors.New("entity not found")
	ErrValidation   = errors.New("entity validation failed")
	ErrDuplicate    = errors.New("duplicate entity")
	ErrNotDeletable = errors.New("entity cannot be deleted")
)

// EntityError es el error tipado que devuelven los servicios de entidades
type EntityError struct {
	Kind    ErrorKind
	Entity  string
	Message string
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// Is hace que errors.Is(err, ErrNotFound) funcione según el Kind
func (e *EntityError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrDuplicate:
		return e.Kind == KindDuplicate
	case ErrNotDeletable:
		return e.Kind == KindNotDeletable
	}
	return false
}

func NotFoundError(entity, format string, args ...any) error {
	return &EntityError{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(entity, format string, args ...any) error {
	return &EntityError{Kind: KindValidation, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func DuplicateError(entity, format string, args ...any) error {
	return &EntityError{Kind: KindDuplicate, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func NotDeletableError(entity, format string, args ...any) error {
	return &EntityError{Kind: KindNotDeletable, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// KindOf retorna el Kind de un error de entidad, o "" si no lo es
func KindOf(err error) ErrorKind {
	var entityErr *EntityError
	if errors.As(err, &entityErr) {
		return entityErr.Kind
	}
	return ""
}
