package rest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/dfryer1193/inkwell/blog/application"
	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/dfryer1193/inkwell/blog/storage"
	"github.com/gin-gonic/gin"
)

// PostHandler translates HTTP requests into post service calls.
type PostHandler struct {
	posts          *application.PostService
	maxUploadBytes int64
}

// NewPostHandler creates a handler. maxUploadBytes caps inbound image
// payloads; <= 0 selects the store's default cap.
func NewPostHandler(posts *application.PostService, maxUploadBytes int64) *PostHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = storage.DefaultMaxUploadBytes
	}
	return &PostHandler{posts: posts, maxUploadBytes: maxUploadBytes}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p))
	}
	c.JSON(http.StatusOK, views)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := parsePostID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostView(post))
}

func (h *PostHandler) Create(c *gin.Context) {
	fields, err := bindPostFields(c)
	if err != nil {
		respondError(c, err)
		return
	}

	upload, err := bindImageFile(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), fields, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPostView(post))
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := parsePostID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	fields, err := bindPostFields(c)
	if err != nil {
		respondError(c, err)
		return
	}

	upload, err := bindImageFile(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	// A new file always replaces the current image. Without one,
	// keep_image=false drops the existing image; anything else keeps it.
	directive := domain.KeepImage()
	if upload != nil {
		directive = domain.ReplaceImage(upload)
	} else if c.PostForm("keep_image") == "false" {
		directive = domain.RemoveImage()
	}

	post, err := h.posts.Update(c.Request.Context(), id, fields, directive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostView(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := parsePostID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("post %d deleted", id)})
}

func parsePostID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}

// bindPostFields reads the multipart form fields shared by create and update.
func bindPostFields(c *gin.Context) (application.PostFields, error) {
	fields := application.PostFields{
		Title:   c.PostForm("title"),
		Excerpt: c.PostForm("excerpt"),
		Content: c.PostForm("content"),
	}

	rawDate := c.PostForm("post_date")
	if rawDate != "" {
		date, err := parsePostDate(rawDate)
		if err != nil {
			return fields, err
		}
		fields.PostDate = date
	}

	return fields, nil
}

func parsePostDate(raw string) (time.Time, error) {
	if t, err := time.Parse(postDateFormat, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, &domain.ValidationError{Field: "post_date", Reason: "expected YYYY-MM-DD"}
}

// bindImageFile reads the optional image file from the multipart form.
// A missing file is not an error; it just means no image was sent. An
// oversized payload is rejected before it is buffered into memory.
func bindImageFile(c *gin.Context, maxBytes int64) (*domain.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, &domain.ValidationError{Field: "image", Reason: err.Error()}
	}

	if file.Size > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrImageTooLarge, file.Size, maxBytes)
	}

	data, err := readUpload(file, maxBytes)
	if err != nil {
		return nil, err
	}

	return &domain.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// readUpload buffers the file, never reading past the payload cap even if
// the declared size was wrong.
func readUpload(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrImageTooLarge, maxBytes)
	}

	return data, nil
}
