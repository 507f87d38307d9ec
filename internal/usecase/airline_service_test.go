package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/logger"
)

type fakeAirlineRepo struct {
	mu       sync.Mutex
	airlines map[primitive.ObjectID]entity.Airline
}

func newFakeAirlineRepo() *fakeAirlineRepo {
	return &fakeAirlineRepo{airlines: map[primitive.ObjectID]entity.Airline{}}
}

func (r *fakeAirlineRepo) add(a entity.Airline) entity.Airline {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	r.airlines[a.ID] = a
	return a
}

func (r *fakeAirlineRepo) List(ctx context.Context, search string, page, limit int) ([]entity.Airline, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Airline
	for _, a := range r.airlines {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAirlineRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.airlines[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &a, nil
}

func (r *fakeAirlineRepo) FindByICAO(ctx context.Context, icao string) (*entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.airlines {
		if a.ICAO == icao {
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAirlineRepo) FindByICAOs(ctx context.Context, icaos []string) ([]entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[string]struct{}{}
	for _, icao := range icaos {
		want[icao] = struct{}{}
	}
	var out []entity.Airline
	for _, a := range r.airlines {
		if _, ok := want[a.ICAO]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAirlineRepo) Insert(ctx context.Context, airline *entity.Airline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	airline.ID = primitive.NewObjectID()
	airline.CreatedAt = time.Now()
	airline.UpdatedAt = airline.CreatedAt
	r.airlines[airline.ID] = *airline
	return nil
}

func (r *fakeAirlineRepo) Update(ctx context.Context, airline *entity.Airline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.airlines[airline.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	airline.UpdatedAt = time.Now()
	r.airlines[airline.ID] = *airline
	return nil
}

func (r *fakeAirlineRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.airlines[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.airlines, id)
	return nil
}

var _ repository.AirlineRepository = (*fakeAirlineRepo)(nil)

func newAirlineFixture(t *testing.T) (*AirlineService, *fakeAirlineRepo, *fakeActivityLogRepo, *fakeAssetStore, *ActivityLogger) {
	t.Helper()
	airlines := newFakeAirlineRepo()
	auditRepo := &fakeActivityLogRepo{}
	assets := &fakeAssetStore{}
	audit := NewActivityLogger(auditRepo, logger.NewNop(), testMetrics)
	t.Cleanup(audit.Close)
	svc := NewAirlineService(airlines, newFakeParkingRepo(), assets, audit, testMetrics, logger.NewNop())
	return svc, airlines, auditRepo, assets, audit
}

func TestAirlineUpdateNoopSkipsAudit(t *testing.T) {
	svc, airlines, auditRepo, assets, _ := newAirlineFixture(t)
	afr := airlines.add(entity.Airline{ICAO: "AFR", Name: "Air France", Country: "France"})

	name := "Air France"
	updated, err := svc.Update(context.Background(), testActor(), afr.ID.Hex(), AirlinePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Air France", updated.Name)
	assert.Equal(t, 0, auditRepo.count())
	assert.Empty(t, assets.callLog())
}

func TestAirlineUpdateClearLogoWithoutLogoIsNoop(t *testing.T) {
	svc, airlines, auditRepo, assets, _ := newAirlineFixture(t)
	afr := airlines.add(entity.Airline{ICAO: "AFR", Name: "Air France", Country: "France"})

	_, err := svc.Update(context.Background(), testActor(), afr.ID.Hex(), AirlinePatch{ClearLogo: true})
	require.NoError(t, err)
	assert.Equal(t, 0, auditRepo.count())
	assert.Empty(t, assets.callLog())
}

func TestAirlineUpdateAuditsFieldDiff(t *testing.T) {
	svc, airlines, auditRepo, _, audit := newAirlineFixture(t)
	afr := airlines.add(entity.Airline{ICAO: "AFR", Name: "Air France", Callsign: "AIRFRANS", Country: "France"})

	callsign := "AIRFRANCE"
	_, err := svc.Update(context.Background(), testActor(), afr.ID.Hex(), AirlinePatch{Callsign: &callsign})
	require.NoError(t, err)
	audit.Close()

	entry := auditRepo.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionUpdate, entry.Action)
	changes, ok := entry.Details["changes"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, changes, "callsign")
	assert.NotContains(t, changes, "name")
}

func TestAirlineUpdateClearLogoRemovesAsset(t *testing.T) {
	svc, airlines, auditRepo, assets, audit := newAirlineFixture(t)
	afr := airlines.add(entity.Airline{
		ICAO:         "AFR",
		Name:         "Air France",
		Country:      "France",
		LogoURL:      "https://cdn.example.com/AFR.png",
		LogoPublicID: "AFR",
	})

	updated, err := svc.Update(context.Background(), testActor(), afr.ID.Hex(), AirlinePatch{ClearLogo: true})
	require.NoError(t, err)
	audit.Close()

	assert.Empty(t, updated.LogoURL)
	assert.Contains(t, assets.callLog(), "delete:AFR")
	assert.Equal(t, 1, auditRepo.count())
}
