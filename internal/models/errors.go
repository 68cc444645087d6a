package models

import "errors"

// Error kinds shared by the models, storage and manager layers.
var (
	ErrUnknownType        = errors.New("unknown type")
	ErrNotFound           = errors.New("not found")
	ErrMalformedFile      = errors.New("malformed file")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrMissingIdentity    = errors.New("missing identity")
	ErrSerialization      = errors.New("serialization error")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNullArgument       = errors.New("null argument")
)
