package media

import (
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image (data URI or URL) and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, source, folder string) (string, error)
}

type Cloudinary struct{ cld *cloudinary.Cloudinary }

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) UploadImage(ctx context.Context, source, folder string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		// square crop, automatic quality
		Transformation: "c_fill,w_400,h_400/q_auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// Disabled rejects every upload; used when cloudinary credentials are unset.
type Disabled struct{}

func (Disabled) UploadImage(context.Context, string, string) (string, error) {
	return "", errors.New("media storage is not configured")
}
