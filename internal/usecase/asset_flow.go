package usecase

import (
	"context"

	"aeropark-service/internal/infrastructure/assetstore"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

// replaceAsset runs the upload-before-commit protocol shared by the airline
// logo and parking map flows: upload the new asset, run commit (the entity
// write), then clean up. A failed commit removes the just-uploaded asset so
// nothing is orphaned; a successful commit removes the superseded old asset.
// Both cleanups are best-effort and never fail the operation.
func replaceAsset(ctx context.Context, store assetstore.Store, log logger.Logger, m *metrics.Metrics,
	data []byte, publicID, oldPublicID string, commit func(*assetstore.UploadResult) error) (*assetstore.UploadResult, error) {

	result, err := store.Upload(ctx, data, publicID)
	if err != nil {
		log.Error("asset upload failed", "publicId", publicID, "error", err)
		return nil, apperrors.NewUpstreamAssetError("Erreur lors du téléversement de l'image.")
	}
	m.AssetUploads.Inc()

	if err := commit(result); err != nil {
		if derr := store.Delete(ctx, result.PublicID); derr != nil {
			log.Error("orphaned asset cleanup failed", "publicId", result.PublicID, "error", derr)
			m.AssetDeleteFailures.Inc()
		}
		return nil, err
	}

	if oldPublicID != "" && oldPublicID != result.PublicID {
		if derr := store.Delete(ctx, oldPublicID); derr != nil {
			log.Error("old asset cleanup failed", "publicId", oldPublicID, "error", derr)
			m.AssetDeleteFailures.Inc()
		}
	}
	return result, nil
}

// deleteAsset is the best-effort standalone deletion used when an entity
// carrying an asset goes away.
func deleteAsset(ctx context.Context, store assetstore.Store, log logger.Logger, m *metrics.Metrics, publicID string) {
	if publicID == "" {
		return
	}
	if err := store.Delete(ctx, publicID); err != nil {
		log.Error("asset deletion failed", "publicId", publicID, "error", err)
		m.AssetDeleteFailures.Inc()
	}
}
