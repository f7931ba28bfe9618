package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound is returned when a referenced post id does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrDuplicateEmail is returned when subscribing an email that is
	// already present.
	ErrDuplicateEmail = errors.New("email already subscribed")

	// ErrInvalidImageType is returned when an upload's extension or media
	// type is not an allowed image format.
	ErrInvalidImageType = errors.New("unsupported image type")

	// ErrImageTooLarge is returned when an upload exceeds the size limit.
	ErrImageTooLarge = errors.New("image exceeds maximum size")

	// ErrStorageUnavailable wraps genuine I/O failures from the image store.
	ErrStorageUnavailable = errors.New("image storage unavailable")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// IsBadRequest reports whether err should surface to API callers as a 400
// rather than a 500.
func IsBadRequest(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrInvalidImageType) ||
		errors.Is(err, ErrImageTooLarge) ||
		errors.As(err, &ve)
}
