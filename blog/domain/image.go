package domain

// ImageUpload is an inbound image payload from a multipart request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore manages uploaded image artifacts on durable storage. It has no
// knowledge of which post references which artifact; the post service owns
// that mapping.
type ImageStore interface {
	// Store validates the upload and writes it under a collision-free name,
	// returning the artifact reference (a relative path).
	// Returns ErrInvalidImageType, ErrImageTooLarge, or ErrStorageUnavailable.
	Store(upload *ImageUpload) (string, error)

	// Delete removes the named artifact. A missing artifact is not an error;
	// a genuine I/O failure is reported as ErrStorageUnavailable.
	Delete(ref string) error
}

// ImageDirective tells an update what to do with a post's image.
type ImageDirective struct {
	upload *ImageUpload
	remove bool
}

// ReplaceImage replaces the post's image with the given upload.
func ReplaceImage(upload *ImageUpload) ImageDirective {
	return ImageDirective{upload: upload}
}

// RemoveImage drops the post's current image, if any.
func RemoveImage() ImageDirective {
	return ImageDirective{remove: true}
}

// KeepImage leaves the post's image untouched.
func KeepImage() ImageDirective {
	return ImageDirective{}
}

// Replacement returns the new upload, or nil if this directive is not a
// replacement.
func (d ImageDirective) Replacement() *ImageUpload {
	return d.upload
}

// Removes reports whether the directive drops the existing image.
func (d ImageDirective) Removes() bool {
	return d.remove && d.upload == nil
}
