package errors

var ErrDateNotFound = &Exception{
	Kind:    KindNotFound,
	Message: "no tasks recorded for date",
}

var ErrTaskNotFound = &Exception{
	Kind:    KindNotFound,
	Message: "task not found",
}
