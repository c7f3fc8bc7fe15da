package documents

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist for the session.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates missing or malformed upload parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates a non-PDF upload.
	ErrUnsupportedType = errors.New("only PDF files are accepted")
	// ErrTooLarge indicates the upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds maximum size")
)
