package media

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset is an external-storage reference: the hosted file's id and URL.
type Asset struct {
	PublicID  string `json:"public_id" bson:"public_id"`
	SecureURL string `json:"secure_url" bson:"secure_url"`
}

// AvatarTransform crops avatars to a 250x250 face-centered square.
const AvatarTransform = "w_250,h_250,c_fill,g_faces"

// Uploader is the narrow media-hosting contract handlers rely on.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, folder, transform string) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Cloudinary implements Uploader against the Cloudinary API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) UploadFile(ctx context.Context, localPath, folder, transform string) (Asset, error) {
	res, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         folder,
		Transformation: transform,
	})
	if err != nil {
		return Asset{}, err
	}
	return Asset{PublicID: res.PublicID, SecureURL: res.SecureURL}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
