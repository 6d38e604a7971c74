package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, rootFolder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init error: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, folder: rootFolder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, f File, folder string) (Image, error) {
	key := objectKey(path.Join(c.folder, folder), f.Name)
	resp, err := c.cld.Upload.Upload(ctx, f.Body, uploader.UploadParams{
		PublicID: strings.TrimSuffix(path.Base(key), path.Ext(key)),
		Folder:   path.Dir(key),
	})
	if err != nil {
		return Image{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp == nil || resp.SecureURL == "" {
		msg := "empty response"
		if resp != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return Image{}, fmt.Errorf("cloudinary upload: %s", msg)
	}
	return Image{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if resp != nil && resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Error.Message)
	}
	return nil
}
