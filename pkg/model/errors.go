package model

import "errors"

var (
	ErrUnsupportedType    = errors.New("unsupported type: not an image")
	ErrDecode             = errors.New("could not decode image")
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrEmptyDocument      = errors.New("no images to convert")
	ErrEncodingFailure    = errors.New("could not embed image")
	ErrPersistenceFailure = errors.New("could not save document")
	ErrIndexOutOfRange    = errors.New("index out of range")
)
