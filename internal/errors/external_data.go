package errors

var ErrRefreshInProgress = &Exception{
	Kind:    KindExternalData,
	Message: "refresh already in progress",
}

var ErrNoFetcher = &Exception{
	Kind:    KindExternalData,
	Message: "no external data source configured",
}

func ExternalData(err error) *Exception {
	return &Exception{
		Kind:    KindExternalData,
		Message: "fetch external data",
		Err:     err,
	}
}
