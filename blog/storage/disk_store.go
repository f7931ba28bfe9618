package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxUploadBytes caps inbound image payloads at 50 MiB.
const DefaultMaxUploadBytes = 50 << 20

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true, // nonstandard, but clients send it for .jpg files
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var _ domain.ImageStore = (*DiskStore)(nil)

// DiskStore implements domain.ImageStore on a managed directory. Artifact
// names are generated with a UUID so they never collide, which also means a
// reference is never reused after deletion.
type DiskStore struct {
	dir      string
	maxBytes int64
}

// NewDiskStore creates a store rooted at dir. maxBytes <= 0 selects the
// default payload cap.
func NewDiskStore(dir string, maxBytes int64) *DiskStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
	}
}

// Dir returns the managed directory, for wiring the static file route.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Store validates the upload and writes it to the managed directory under a
// generated name, returning the artifact reference.
func (s *DiskStore) Store(upload *domain.ImageUpload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrInvalidImageType)
	}

	if int64(len(upload.Data)) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrImageTooLarge, len(upload.Data), s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: extension %q", domain.ErrInvalidImageType, ext)
	}

	if declared := normalizeMediaType(upload.ContentType); declared != "" && !allowedMediaTypes[declared] {
		return "", fmt.Errorf("%w: declared type %q", domain.ErrInvalidImageType, declared)
	}

	// Sniff the actual bytes; the extension and declared type are both
	// caller-controlled.
	if detected := mimetype.Detect(upload.Data); !allowedMediaTypes[detected.String()] {
		return "", fmt.Errorf("%w: detected type %q", domain.ErrInvalidImageType, detected.String())
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create image directory: %v", domain.ErrStorageUnavailable, err)
	}

	ref := uuid.NewString() + ext
	path := filepath.Join(s.dir, ref)

	if err := os.WriteFile(path, upload.Data, 0644); err != nil {
		// Best-effort cleanup of a partial write; the name is never reused
		// either way.
		os.Remove(path)
		return "", fmt.Errorf("%w: write artifact: %v", domain.ErrStorageUnavailable, err)
	}

	return ref, nil
}

// Delete removes the named artifact. Deleting an artifact that is already
// gone is a no-op.
func (s *DiskStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}

	// References are bare filenames; strip any path components so a stored
	// reference can never reach outside the managed directory.
	path := filepath.Join(s.dir, filepath.Base(ref))

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove artifact %s: %v", domain.ErrStorageUnavailable, ref, err)
	}

	return nil
}

// normalizeMediaType lowercases a Content-Type header value and strips any
// parameters (e.g. "image/png; charset=binary" -> "image/png").
func normalizeMediaType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
