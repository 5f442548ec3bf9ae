package errors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPersistence
	KindExternalData
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindPersistence:
		return "persistence"
	case KindExternalData:
		return "external data"
	default:
		return "unknown"
	}
}

// Exception is the error type returned by the core. None of its kinds are fatal.
type Exception struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Is matches sentinel exceptions by kind and message so wrapped copies still compare equal.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func KindOf(err error) Kind {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Kind
	}
	return 0
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsPersistence(err error) bool {
	return KindOf(err) == KindPersistence
}

func IsExternalData(err error) bool {
	return KindOf(err) == KindExternalData
}
