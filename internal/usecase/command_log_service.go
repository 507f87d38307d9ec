package usecase

import (
	"context"
	"math"
	"strconv"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
	"aeropark-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultStatsPeriodDays = 30
	topAirportsLimit       = 10
	topAirlinesLimit       = 10
	topAcarsNetworksLimit  = 5
)

// CommandLogService implements the Discord command-log operations: listing,
// deletion, retention and statistics.
type CommandLogService struct {
	logs    repository.CommandLogRepository
	audit   *ActivityLogger
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewCommandLogService creates a new command-log service
func NewCommandLogService(logs repository.CommandLogRepository, audit *ActivityLogger, m *metrics.Metrics, log logger.Logger) *CommandLogService {
	return &CommandLogService{
		logs:    logs,
		audit:   audit,
		metrics: m,
		log:     log,
	}
}

// parsePeriod turns a period query value into a lower time bound. "all"
// means unbounded; an invalid value falls back to the given default (or
// unbounded when defaultDays is 0), with a warning.
func (s *CommandLogService) parsePeriod(period string, defaultDays int) *time.Time {
	if period == "" || period == "all" {
		if period == "all" || defaultDays == 0 {
			return nil
		}
		since := time.Now().AddDate(0, 0, -defaultDays)
		return &since
	}
	days, err := strconv.Atoi(period)
	if err != nil || days <= 0 {
		s.log.Warn("invalid period, using default", "period", period, "defaultDays", defaultDays)
		if defaultDays == 0 {
			return nil
		}
		since := time.Now().AddDate(0, 0, -defaultDays)
		return &since
	}
	since := time.Now().AddDate(0, 0, -days)
	return &since
}

// List returns a page of command logs. The period filter accepts a day
// count or "all"; an invalid value lists everything.
func (s *CommandLogService) List(ctx context.Context, search, period string, page, limit int) (utils.PageEnvelope, error) {
	page, limit = utils.ClampPage(page, limit, 10)

	filter := repository.CommandLogFilter{
		Search: search,
		Since:  s.parsePeriod(period, 0),
	}

	logs, total, err := s.logs.List(ctx, filter, page, limit)
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération des logs.")
	}
	if logs == nil {
		logs = []entity.CommandLog{}
	}
	return utils.NewPageEnvelope(logs, total, page, limit), nil
}

// Delete removes one command log.
func (s *CommandLogService) Delete(ctx context.Context, admin *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID de log invalide.")
	}
	if err := s.logs.Delete(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NewNotFoundError("Log non trouvé")
		}
		return apperrors.NewInternalError("Erreur serveur lors de la suppression du log.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionDelete, entity.TargetDiscordLog, id, nil)
	return nil
}

// CleanResult reports a retention run.
type CleanResult struct {
	DeletedCount int64 `json:"deletedCount"`
	DaysKept     int   `json:"daysKept"`
}

// Clean purges logs older than the requested number of days. An invalid
// days value falls back to the default with a warning. The purge is audited
// only when something was actually deleted.
func (s *CommandLogService) Clean(ctx context.Context, admin *entity.User, daysParam string) (*CleanResult, error) {
	daysToKeep := defaultStatsPeriodDays
	if daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil && parsed > 0 {
			daysToKeep = parsed
		} else {
			s.log.Warn("invalid days parameter, using default", "days", daysParam, "default", daysToKeep)
		}
	}

	deleted, cutoff, err := s.purge(ctx, daysToKeep)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors du nettoyage des logs.")
	}

	if deleted > 0 && admin != nil {
		s.audit.Record(admin.ID, entity.ActionCleanLogs, entity.TargetDiscordLog, "", map[string]interface{}{
			"daysKept":     daysToKeep,
			"deletedCount": deleted,
			"cutoffDate":   cutoff.Format(time.RFC3339),
		})
	}
	return &CleanResult{DeletedCount: deleted, DaysKept: daysToKeep}, nil
}

// PurgeExpired is the scheduled retention entry point. It is not audited:
// there is no acting user.
func (s *CommandLogService) PurgeExpired(ctx context.Context, daysToKeep int) (int64, error) {
	deleted, _, err := s.purge(ctx, daysToKeep)
	return deleted, err
}

// purge deletes everything older than midnight daysToKeep days ago.
func (s *CommandLogService) purge(ctx context.Context, daysToKeep int) (int64, time.Time, error) {
	year, month, day := time.Now().AddDate(0, 0, -daysToKeep).Date()
	cutoff := time.Date(year, month, day, 0, 0, 0, 0, time.Local)

	count, err := s.logs.CountOlderThan(ctx, cutoff)
	if err != nil {
		return 0, cutoff, err
	}
	if count == 0 {
		s.log.Info("no command logs past retention", "daysKept", daysToKeep)
		return 0, cutoff, nil
	}

	deleted, err := s.logs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, cutoff, err
	}
	s.metrics.LogsPurged.Add(float64(deleted))
	s.log.Info("command logs purged", "deleted", deleted, "daysKept", daysToKeep)
	return deleted, cutoff, nil
}

// OldestLogInfo describes the oldest retained command log.
type OldestLogInfo struct {
	Message            string     `json:"message"`
	OldestLogTimestamp *time.Time `json:"oldestLogTimestamp"`
	DaysAgo            int        `json:"daysAgo,omitempty"`
	CurrentDate        time.Time  `json:"currentDate"`
}

// Oldest returns the timestamp of the oldest command log, if any.
func (s *CommandLogService) Oldest(ctx context.Context) (*OldestLogInfo, error) {
	oldest, err := s.logs.OldestTimestamp(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération du log le plus ancien.")
	}

	now := time.Now()
	if oldest == nil {
		return &OldestLogInfo{
			Message:     "Aucun log trouvé",
			CurrentDate: now,
		}, nil
	}

	daysAgo := int(math.Ceil(now.Sub(*oldest).Hours() / 24))
	return &OldestLogInfo{
		Message:            "Log le plus ancien trouvé",
		OldestLogTimestamp: oldest,
		DaysAgo:            daysAgo,
		CurrentDate:        now,
	}, nil
}

// AcarsStats is the ACARS section of the statistics response.
type AcarsStats struct {
	entity.AcarsStatsSummary
	UsageByDay  []entity.DailyUsage   `json:"usageByDay"`
	TopNetworks []entity.NetworkCount `json:"topNetworks"`
}

// CommandLogStats is the full statistics response over a period.
type CommandLogStats struct {
	entity.CommandStatsSummary
	UsageByDay  []entity.DailyUsage   `json:"usageByDay"`
	TopAirports []entity.AirportCount `json:"topAirports"`
	TopAirlines []entity.AirlineCount `json:"topAirlines"`
	Acars       AcarsStats            `json:"acarsStats"`
}

// Stats aggregates command and ACARS statistics over the period ("all" or a
// day count, default 30; invalid values fall back to 30 with a warning).
// Daily histograms are zero-filled across the whole window.
func (s *CommandLogService) Stats(ctx context.Context, period string) (*CommandLogStats, error) {
	since := s.parsePeriod(period, defaultStatsPeriodDays)
	return s.aggregateStats(ctx, since)
}

// RecomputeStats recalculates over the full history. Nothing is persisted;
// the result is always derived from the logs currently retained.
func (s *CommandLogService) RecomputeStats(ctx context.Context) (*CommandLogStats, error) {
	return s.aggregateStats(ctx, nil)
}

func (s *CommandLogService) aggregateStats(ctx context.Context, since *time.Time) (*CommandLogStats, error) {
	summary, acarsSummary, err := s.logs.Summary(ctx, since)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques.")
	}

	// The histogram window starts at the period bound, or 30 days back
	// when the period is unbounded.
	windowStart := time.Now().AddDate(0, 0, -defaultStatsPeriodDays)
	if since != nil {
		windowStart = *since
	}

	usage, err := s.logs.UsageByDay(ctx, since, false)
	if err != nil {
		s.log.Error("command usage histogram failed", "error", err)
		usage = nil
	}
	acarsUsage, err := s.logs.UsageByDay(ctx, since, true)
	if err != nil {
		s.log.Error("acars usage histogram failed", "error", err)
		acarsUsage = nil
	}

	topAirports, err := s.logs.TopAirports(ctx, since, topAirportsLimit)
	if err != nil {
		s.log.Error("top airports aggregation failed", "error", err)
	}
	if topAirports == nil {
		topAirports = []entity.AirportCount{}
	}
	topAirlines, err := s.logs.TopAirlines(ctx, since, topAirlinesLimit)
	if err != nil {
		s.log.Error("top airlines aggregation failed", "error", err)
	}
	if topAirlines == nil {
		topAirlines = []entity.AirlineCount{}
	}
	topNetworks, err := s.logs.TopAcarsNetworks(ctx, since, topAcarsNetworksLimit)
	if err != nil {
		s.log.Error("top acars networks aggregation failed", "error", err)
	}
	if topNetworks == nil {
		topNetworks = []entity.NetworkCount{}
	}

	return &CommandLogStats{
		CommandStatsSummary: summary,
		UsageByDay:          fillDailyWindow(windowStart, time.Now(), usage),
		TopAirports:         topAirports,
		TopAirlines:         topAirlines,
		Acars: AcarsStats{
			AcarsStatsSummary: acarsSummary,
			UsageByDay:        fillDailyWindow(windowStart, time.Now(), acarsUsage),
			TopNetworks:       topNetworks,
		},
	}, nil
}

// fillDailyWindow expands sparse per-day buckets into a dense series over
// [start, end], one entry per calendar day, zeroes where no traffic.
func fillDailyWindow(start, end time.Time, usage []entity.DailyUsage) []entity.DailyUsage {
	byDate := make(map[string]entity.DailyUsage, len(usage))
	for _, u := range usage {
		byDate[u.Date] = u
	}

	filled := []entity.DailyUsage{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.UTC().Format("2006-01-02")
		if u, ok := byDate[date]; ok {
			filled = append(filled, u)
		} else {
			filled = append(filled, entity.DailyUsage{Date: date})
		}
	}
	return filled
}
