package errors

import "fmt"

func Persistence(op, slot string, err error) *Exception {
	return &Exception{
		Kind:    KindPersistence,
		Message: fmt.Sprintf("%s %s", op, slot),
		Err:     err,
	}
}
