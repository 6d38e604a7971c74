package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"adminhub/internal/domain"

	"github.com/google/uuid"
)

// ErrDisabled is returned by Disabled.Upload.
var ErrDisabled = errors.New("media uploads are not configured")

type Image = domain.Image

// File is an upload as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store interface {
	Upload(ctx context.Context, f File, folder string) (Image, error)
	// Delete removes the object; deleting a missing object is not an error.
	Delete(ctx context.Context, publicID string) error
}

// Disabled rejects uploads and ignores deletes.
type Disabled struct{}

func (Disabled) Upload(context.Context, File, string) (Image, error) {
	return Image{}, ErrDisabled
}

func (Disabled) Delete(context.Context, string) error { return nil }

// objectKey is folder/<uuid><ext>; the original file name never reaches the store.
func objectKey(folder, name string) string {
	ext := strings.ToLower(path.Ext(name))
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
}

var (
	_ Store = Disabled{}
	_ Store = (*Cloudinary)(nil)
	_ Store = (*S3)(nil)
)
