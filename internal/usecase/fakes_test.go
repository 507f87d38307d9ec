package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/infrastructure/assetstore"
)

// fakeParkingRepo is an in-memory ParkingRepository.
type fakeParkingRepo struct {
	mu       sync.Mutex
	parkings map[primitive.ObjectID]entity.Parking
	lastSort repository.GroupSort
	failWith error
}

func newFakeParkingRepo() *fakeParkingRepo {
	return &fakeParkingRepo{parkings: map[primitive.ObjectID]entity.Parking{}}
}

func (r *fakeParkingRepo) add(p entity.Parking) entity.Parking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.parkings[p.ID] = p
	return p
}

func (r *fakeParkingRepo) ListGrouped(ctx context.Context, q repository.ParkingGroupQuery) ([]entity.AirportGroup, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	r.lastSort = q.Sort
	groups := map[string][]entity.Parking{}
	for _, p := range r.parkings {
		if q.Airline != "" && p.Airline != q.Airline {
			continue
		}
		if q.Airport != "" && p.Airport != q.Airport {
			continue
		}
		groups[p.Airport] = append(groups[p.Airport], p)
	}
	out := make([]entity.AirportGroup, 0, len(groups))
	for airport, parkings := range groups {
		out = append(out, entity.AirportGroup{
			Airport:                airport,
			TotalParkingsInAirport: int64(len(parkings)),
			Parkings:               parkings,
		})
	}
	return out, int64(len(out)), nil
}

func (r *fakeParkingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parkings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (r *fakeParkingRepo) FindByPair(ctx context.Context, airline, airport string) (*entity.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parkings {
		if p.Airline == airline && p.Airport == airport {
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeParkingRepo) FindByPairs(ctx context.Context, pairs []repository.ParkingPair) ([]entity.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[repository.ParkingPair]struct{}{}
	for _, pair := range pairs {
		want[pair] = struct{}{}
	}
	var out []entity.Parking
	for _, p := range r.parkings {
		if _, ok := want[repository.ParkingPair{Airline: p.Airline, Airport: p.Airport}]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) ListByCountryPrefixes(ctx context.Context, prefixes []string) ([]entity.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Parking
	for _, p := range r.parkings {
		for _, prefix := range prefixes {
			if strings.HasPrefix(p.Airport, prefix) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) Insert(ctx context.Context, parking *entity.Parking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	parking.ID = primitive.NewObjectID()
	parking.CreatedAt = time.Now()
	parking.UpdatedAt = parking.CreatedAt
	r.parkings[parking.ID] = *parking
	return nil
}

func (r *fakeParkingRepo) InsertMany(ctx context.Context, parkings []entity.Parking) ([]entity.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Parking, 0, len(parkings))
	for _, p := range parkings {
		p.ID = primitive.NewObjectID()
		r.parkings[p.ID] = p
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeParkingRepo) Update(ctx context.Context, parking *entity.Parking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.parkings[parking.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	parking.UpdatedAt = time.Now()
	r.parkings[parking.ID] = *parking
	return nil
}

func (r *fakeParkingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parkings[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.parkings, id)
	return nil
}

func (r *fakeParkingRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.parkings[id]; ok {
			delete(r.parkings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeParkingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.parkings)), nil
}

func (r *fakeParkingRepo) CountByAirport(ctx context.Context, icao string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.parkings {
		if p.Airport == icao {
			n++
		}
	}
	return n, nil
}

func (r *fakeParkingRepo) CountByAirline(ctx context.Context, icao string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.parkings {
		if p.Airline == icao {
			n++
		}
	}
	return n, nil
}

func (r *fakeParkingRepo) DistinctAirlines(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, p := range r.parkings {
		if _, ok := seen[p.Airline]; !ok {
			seen[p.Airline] = struct{}{}
			out = append(out, p.Airline)
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) DistinctAirports(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, p := range r.parkings {
		if _, ok := seen[p.Airport]; !ok {
			seen[p.Airport] = struct{}{}
			out = append(out, p.Airport)
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) CountryCounts(ctx context.Context) ([]entity.CountryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCode := map[string]map[string]struct{}{}
	for _, p := range r.parkings {
		if len(p.Airport) < 2 {
			continue
		}
		code := p.Airport[:2]
		if byCode[code] == nil {
			byCode[code] = map[string]struct{}{}
		}
		byCode[code][p.Airport] = struct{}{}
	}
	out := make([]entity.CountryCount, 0, len(byCode))
	for code, airports := range byCode {
		out = append(out, entity.CountryCount{Code: code, Count: int64(len(airports))})
	}
	return out, nil
}

// fakeActivityLogRepo records audit entries in memory.
type fakeActivityLogRepo struct {
	mu       sync.Mutex
	entries  []entity.ActivityLog
	failWith error
}

func (r *fakeActivityLogRepo) Insert(ctx context.Context, log *entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	entry := *log
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityLogRepo) List(ctx context.Context, filter repository.ActivityLogFilter, page, limit int, sortField string, sortDesc bool) ([]entity.ActivityLogWithUser, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.ActivityLogWithUser, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, entity.ActivityLogWithUser{ActivityLog: e})
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityLogRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeActivityLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeActivityLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *fakeActivityLogRepo) last() *entity.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	e := r.entries[len(r.entries)-1]
	return &e
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]entity.User{}}
}

func (r *fakeUserRepo) add(u entity.User) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lower := strings.ToLower(identifier)
	for _, u := range r.users {
		if u.Username == identifier || u.Email == lower {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lower := strings.ToLower(email)
	for _, u := range r.users {
		if u.Username == username || u.Email == lower {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) Insert(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, onlyInactive bool) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if onlyInactive && u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// fakeAssetStore records uploads and deletes in call order.
type fakeAssetStore struct {
	mu        sync.Mutex
	calls     []string
	uploadErr error
	deleteErr error
}

func (s *fakeAssetStore) Upload(ctx context.Context, data []byte, publicID string) (*assetstore.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.calls = append(s.calls, "upload:"+publicID)
	return &assetstore.UploadResult{
		URL:      "https://cdn.example.com/" + publicID + ".png",
		PublicID: publicID,
	}, nil
}

func (s *fakeAssetStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete:"+publicID)
	return s.deleteErr
}

func (s *fakeAssetStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// fakeCommandLogRepo serves canned command logs for retention tests.
type fakeCommandLogRepo struct {
	mu     sync.Mutex
	logs   []entity.CommandLog
	oldest *time.Time
}

func (r *fakeCommandLogRepo) List(ctx context.Context, filter repository.CommandLogFilter, page, limit int) ([]entity.CommandLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CommandLog
	for _, l := range r.logs {
		if filter.Since != nil && l.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommandLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.logs {
		if l.ID == id {
			r.logs = append(r.logs[:i], r.logs[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCommandLogRepo) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.logs {
		if l.Timestamp.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommandLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []entity.CommandLog
	var deleted int64
	for _, l := range r.logs {
		if l.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept
	return deleted, nil
}

func (r *fakeCommandLogRepo) OldestTimestamp(ctx context.Context) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.oldest, nil
}

func (r *fakeCommandLogRepo) Summary(ctx context.Context, since *time.Time) (entity.CommandStatsSummary, entity.AcarsStatsSummary, error) {
	return entity.CommandStatsSummary{}, entity.AcarsStatsSummary{}, nil
}

func (r *fakeCommandLogRepo) UsageByDay(ctx context.Context, since *time.Time, acarsOnly bool) ([]entity.DailyUsage, error) {
	return nil, nil
}

func (r *fakeCommandLogRepo) TopAirports(ctx context.Context, since *time.Time, limit int) ([]entity.AirportCount, error) {
	return nil, nil
}

func (r *fakeCommandLogRepo) TopAirlines(ctx context.Context, since *time.Time, limit int) ([]entity.AirlineCount, error) {
	return nil, nil
}

func (r *fakeCommandLogRepo) TopAcarsNetworks(ctx context.Context, since *time.Time, limit int) ([]entity.NetworkCount, error) {
	return nil, nil
}
