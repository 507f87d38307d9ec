package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

// The prometheus default registry rejects duplicate registration, so the
// whole test binary shares one Metrics instance.
var testMetrics = metrics.NewMetrics("test")

func newParkingFixture(t *testing.T) (*ParkingService, *fakeParkingRepo, *fakeActivityLogRepo, *fakeAssetStore) {
	t.Helper()
	parkings := newFakeParkingRepo()
	auditRepo := &fakeActivityLogRepo{}
	assets := &fakeAssetStore{}
	audit := NewActivityLogger(auditRepo, logger.NewNop(), testMetrics)
	t.Cleanup(audit.Close)
	svc := NewParkingService(parkings, assets, audit, testMetrics, logger.NewNop())
	return svc, parkings, auditRepo, assets
}

func testActor() *entity.User {
	return &entity.User{
		ID:       primitive.NewObjectID(),
		Username: "tester",
		Roles:    []entity.Role{entity.RoleAdmin},
		IsActive: true,
	}
}

func TestParkingCreateUppercasesPair(t *testing.T) {
	svc, _, _, _ := newParkingFixture(t)

	parking, err := svc.Create(context.Background(), testActor(), CreateParkingInput{
		Airline: "afr",
		Airport: "lfpg",
		Gate:    entity.Gate{Terminal: "2E", Porte: "K41"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AFR", parking.Airline)
	assert.Equal(t, "LFPG", parking.Airport)
}

func TestParkingCreateRejectsDuplicatePair(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})

	_, err := svc.Create(context.Background(), testActor(), CreateParkingInput{
		Airline: "AFR",
		Airport: "LFPG",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Un parking existe déjà pour AFR/LFPG.")
}

func TestParkingCreateRequiresPair(t *testing.T) {
	svc, _, _, _ := newParkingFixture(t)

	_, err := svc.Create(context.Background(), testActor(), CreateParkingInput{Airline: "AFR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sont requis")
}

func TestParkingUpdateRejectsIdentityChange(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	p := parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})

	airline := "DLH"
	_, err := svc.Update(context.Background(), testActor(), p.ID.Hex(), UpdateParkingInput{Airline: &airline})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n'est pas permise via PUT")
}

func TestParkingUpdateNoopSkipsAudit(t *testing.T) {
	svc, parkings, auditRepo, _ := newParkingFixture(t)
	p := parkings.add(entity.Parking{
		Airline: "AFR",
		Airport: "LFPG",
		Gate:    entity.Gate{Terminal: "2E"},
	})

	terminal := "2E"
	updated, err := svc.Update(context.Background(), testActor(), p.ID.Hex(), UpdateParkingInput{
		Gate: &GatePatch{Terminal: &terminal},
	})
	require.NoError(t, err)
	assert.Equal(t, "2E", updated.Gate.Terminal)
	assert.Equal(t, 0, auditRepo.count())
}

func TestParkingListGroupedFallsBackOnUnknownSort(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})

	_, err := svc.ListGrouped(context.Background(), ParkingListQuery{Sort: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, repository.GroupSortAirport, parkings.lastSort)
}

func TestParkingBulkCreateSkipsExistingPairs(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})

	result, err := svc.BulkCreate(context.Background(), testActor(), []CreateParkingInput{
		{Airline: "afr", Airport: "lfpg"},
		{Airline: "DLH", Airport: "EDDF"},
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", result.Status)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Inserted)
	assert.Equal(t, 1, result.Summary.Duplicates)
	require.Len(t, result.DuplicateDetails, 1)
	assert.Equal(t, "AFR", result.DuplicateDetails[0].Airline)
}

func TestParkingBulkCreateDeduplicatesWithinBatch(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)

	result, err := svc.BulkCreate(context.Background(), testActor(), []CreateParkingInput{
		{Airline: "DLH", Airport: "EDDF"},
		{Airline: "dlh", Airport: "eddf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", result.Status)
	assert.Equal(t, 1, result.Summary.Inserted)
	assert.Equal(t, 1, result.Summary.Duplicates)
	require.Len(t, result.Parkings, 1)

	n, err := parkings.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestParkingByCountryValidatesCodes(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})
	parkings.add(entity.Parking{Airline: "DLH", Airport: "EDDF"})

	_, err := svc.ByCountry(context.Background(), []string{"1F", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Aucun code pays valide")

	got, err := svc.ByCountry(context.Background(), []string{"lf"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LFPG", got[0].Airport)
}

func TestParkingDeleteRemovesCloudinaryMap(t *testing.T) {
	svc, parkings, _, assets := newParkingFixture(t)
	p := parkings.add(entity.Parking{
		Airline: "AFR",
		Airport: "LFPG",
		MapInfo: entity.MapInfo{
			HasMap: true,
			MapURL: "https://cdn.example.com/parking-maps/parking_abc_1.png",
			Source: entity.MapSourceCloudinary,
		},
	})

	require.NoError(t, svc.Delete(context.Background(), testActor(), p.ID.Hex()))
	assert.Contains(t, assets.callLog(), "delete:parking-maps/parking_abc_1")
}

func TestParkingGlobalStats(t *testing.T) {
	svc, parkings, _, _ := newParkingFixture(t)
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPG"})
	parkings.add(entity.Parking{Airline: "AFR", Airport: "LFPO"})
	parkings.add(entity.Parking{Airline: "DLH", Airport: "EDDF"})

	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalParkings)
	assert.Equal(t, 3, stats.TotalAirports)
	assert.Equal(t, 2, stats.TotalCompanies)
	assert.Equal(t, 2, stats.TotalCountries)
	assert.Equal(t, []string{"ED", "LF"}, stats.Countries)
}
