// Package assetstore wraps the external image CDN holding airline logos and
// parking maps. Uploads overwrite on public-ID collision; deletes treat an
// already-absent asset as success so callers never fail on a 404-equivalent.
package assetstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"aeropark-service/pkg/logger"
)

const (
	// FolderAirlineLogos holds airline logo assets.
	FolderAirlineLogos = "airline-logos"
	// FolderParkingMaps holds parking stand-map assets.
	FolderParkingMaps = "parking-maps"
)

// UploadResult identifies a stored asset.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store is the asset-store port implemented by the Cloudinary adapter.
type Store interface {
	Upload(ctx context.Context, data []byte, publicID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStore implements Store against the Cloudinary upload API.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	log    logger.Logger
}

// NewCloudinaryStore creates a Cloudinary-backed asset store.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string, log logger.Logger) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	client.Config.URL.Secure = true
	return &CloudinaryStore{client: client, log: log}, nil
}

// Upload stores an image under publicID, replacing any existing asset with
// the same ID.
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, publicID string) (*UploadResult, error) {
	resp, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload %s: %s", publicID, resp.Error.Message)
	}
	return &UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Delete removes an asset. An asset that is already gone counts as success.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	resp, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		s.log.Debug("asset already absent", "publicId", publicID)
		return nil
	default:
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Result)
	}
}
