package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropark-service/internal/infrastructure/assetstore"
	"aeropark-service/pkg/logger"
)

func TestReplaceAssetDeletesOldAfterCommit(t *testing.T) {
	store := &fakeAssetStore{}

	res, err := replaceAsset(context.Background(), store, logger.NewNop(), testMetrics, []byte("img"), "new-id", "old-id", func(res *assetstore.UploadResult) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", res.PublicID)
	assert.Equal(t, []string{"upload:new-id", "delete:old-id"}, store.callLog())
}

func TestReplaceAssetRollsBackUploadOnCommitFailure(t *testing.T) {
	store := &fakeAssetStore{}
	commitErr := errors.New("insert failed")

	_, err := replaceAsset(context.Background(), store, logger.NewNop(), testMetrics, []byte("img"), "new-id", "old-id", func(res *assetstore.UploadResult) error {
		return commitErr
	})
	require.ErrorIs(t, err, commitErr)
	// The new asset is removed, the old one survives.
	assert.Equal(t, []string{"upload:new-id", "delete:new-id"}, store.callLog())
}

func TestReplaceAssetUploadFailureAbortsBeforeCommit(t *testing.T) {
	store := &fakeAssetStore{uploadErr: errors.New("cdn down")}
	committed := false

	_, err := replaceAsset(context.Background(), store, logger.NewNop(), testMetrics, []byte("img"), "new-id", "old-id", func(res *assetstore.UploadResult) error {
		committed = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, committed)
	assert.Empty(t, store.callLog())
}

func TestReplaceAssetSkipsDeleteWhenIDUnchanged(t *testing.T) {
	store := &fakeAssetStore{}

	_, err := replaceAsset(context.Background(), store, logger.NewNop(), testMetrics, []byte("img"), "same-id", "same-id", func(res *assetstore.UploadResult) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"upload:same-id"}, store.callLog())
}

func TestDeleteAssetSwallowsFailure(t *testing.T) {
	store := &fakeAssetStore{deleteErr: errors.New("cdn down")}

	deleteAsset(context.Background(), store, logger.NewNop(), testMetrics, "some-id")
	assert.Equal(t, []string{"delete:some-id"}, store.callLog())
}

func TestDeleteAssetIgnoresEmptyID(t *testing.T) {
	store := &fakeAssetStore{}

	deleteAsset(context.Background(), store, logger.NewNop(), testMetrics, "")
	assert.Empty(t, store.callLog())
}
