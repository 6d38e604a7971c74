package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"adminhub/internal/infra/media"

	"github.com/gin-gonic/gin"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageSize       = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func noop() {}

func errInvalid(field string) error {
	return fmt.Errorf("invalid %s", field)
}

// formImage returns the optional "image" part of a multipart form. done
// must be called once the service is finished with the body.
func formImage(c *gin.Context) (img *media.File, done func(), err error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	if fh.Size == 0 {
		return nil, noop, nil
	}
	if fh.Size > maxImageSize {
		return nil, nil, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	if !allowedImageTypes[ct] {
		return nil, nil, fmt.Errorf("unsupported image type %q", ct)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}
	return &media.File{Name: fh.Filename, ContentType: ct, Size: fh.Size, Body: f}, func() { f.Close() }, nil
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(c *gin.Context) error {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.ParseMultipartForm(maxMultipartMemory)
	}
	return c.Request.ParseForm()
}

func formUint(c *gin.Context, key string) (uint64, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errInvalid(key)
	}
	return v, nil
}

// formOptionalUint treats "", "null" and "none" as absent.
func formOptionalUint(c *gin.Context, key string) (*uint64, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	switch strings.ToLower(raw) {
	case "", "null", "none":
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errInvalid(key)
	}
	return &v, nil
}

func formRequiredInt(c *gin.Context, key string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return 0, errInvalid(key)
	}
	return v, nil
}
