package errors

var ErrEmptyText = &Exception{
	Kind:    KindValidation,
	Message: "task text must not be empty",
}

var ErrInvalidDate = &Exception{
	Kind:    KindValidation,
	Message: "date must be formatted as YYYY-MM-DD",
}

var ErrInvalidPriority = &Exception{
	Kind:    KindValidation,
	Message: "priority must be one of high, normal, low",
}

var ErrInvalidCategory = &Exception{
	Kind:    KindValidation,
	Message: "category must be one of work, personal, health, shopping, study, hobby",
}

var ErrInvalidFilter = &Exception{
	Kind:    KindValidation,
	Message: "unknown filter",
}
