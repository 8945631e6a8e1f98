package badgerstore

import "errors"

var (
	errNotFound          = errors.New("record not found")
	errIllegalTransition = errors.New("status does not match expected `from` value")
)
