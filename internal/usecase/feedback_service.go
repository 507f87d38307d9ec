package usecase

import (
	"context"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultFeedbackLimit = 20
	topFeedbackLimit     = 5
	feedbackDailyWindow  = 7
)

// FeedbackService handles Discord bot feedback intake and triage.
type FeedbackService struct {
	feedbacks repository.DiscordFeedbackRepository
	audit     *ActivityLogger
	log       logger.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbacks repository.DiscordFeedbackRepository, audit *ActivityLogger, log logger.Logger) *FeedbackService {
	return &FeedbackService{
		feedbacks: feedbacks,
		audit:     audit,
		log:       log,
	}
}

// CreateFeedbackInput is the bot submission payload.
type CreateFeedbackInput struct {
	FeedbackID     string     `json:"feedbackId" binding:"required"`
	Timestamp      *time.Time `json:"timestamp"`
	UserID         string     `json:"userId" binding:"required"`
	Username       string     `json:"username"`
	Airport        string     `json:"airport"`
	Airline        string     `json:"airline"`
	ParkingName    string     `json:"parkingName"`
	HasInformation bool       `json:"hasInformation"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes"`
	MessageID      string     `json:"messageId"`
	ChannelID      string     `json:"channelId"`
}

// Create records a feedback submitted by the bot. Resubmitting the same
// feedbackId is a conflict.
func (s *FeedbackService) Create(ctx context.Context, in CreateFeedbackInput) (*entity.DiscordFeedback, error) {
	if in.FeedbackID == "" || in.UserID == "" {
		return nil, apperrors.NewValidationError("Données incomplètes")
	}

	existing, err := s.feedbacks.FindByFeedbackID(ctx, in.FeedbackID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'enregistrement du feedback.")
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("Ce feedback existe déjà")
	}

	status := entity.FeedbackNew
	if in.Status != "" {
		status = entity.FeedbackStatus(in.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("Statut invalide")
		}
	}

	feedback := &entity.DiscordFeedback{
		FeedbackID:     in.FeedbackID,
		UserID:         in.UserID,
		Username:       in.Username,
		Airport:        in.Airport,
		Airline:        in.Airline,
		ParkingName:    in.ParkingName,
		HasInformation: in.HasInformation,
		Status:         status,
		Notes:          in.Notes,
		MessageID:      in.MessageID,
		ChannelID:      in.ChannelID,
	}
	if in.Timestamp != nil {
		feedback.Timestamp = *in.Timestamp
	}
	feedback.ParseNotes()

	if err := s.feedbacks.Insert(ctx, feedback); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError("Ce feedback existe déjà")
		}
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'enregistrement du feedback.")
	}

	s.log.Info("feedback recorded", "feedbackId", feedback.FeedbackID, "airport", feedback.Airport)
	return feedback, nil
}

// FeedbackListQuery narrows a feedback listing.
type FeedbackListQuery struct {
	Status         string
	HasInformation *bool
	Airport        string
	Airline        string
	Page           int
	Limit          int
}

// List returns a page of feedbacks, newest first.
func (s *FeedbackService) List(ctx context.Context, q FeedbackListQuery) (utils.PageEnvelope, error) {
	page, limit := utils.ClampPage(q.Page, q.Limit, defaultFeedbackLimit)

	filter := repository.FeedbackFilter{
		Status:         entity.FeedbackStatus(q.Status),
		HasInformation: q.HasInformation,
		Airport:        q.Airport,
		Airline:        q.Airline,
	}
	feedbacks, total, err := s.feedbacks.List(ctx, filter, page, limit)
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération des feedbacks.")
	}
	if feedbacks == nil {
		feedbacks = []entity.DiscordFeedback{}
	}
	return utils.NewPageEnvelope(feedbacks, total, page, limit), nil
}

// Get returns one feedback by ID.
func (s *FeedbackService) Get(ctx context.Context, id string) (*entity.DiscordFeedback, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de feedback invalide.")
	}
	feedback, err := s.feedbacks.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Feedback non trouvé")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération du feedback.")
	}
	return feedback, nil
}

// StatusUpdateInput carries a triage update.
type StatusUpdateInput struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
	AssignedTo string `json:"assignedTo"`
}

// UpdateStatus moves a feedback through the triage workflow. Reaching
// COMPLETED stamps the completion time.
func (s *FeedbackService) UpdateStatus(ctx context.Context, admin *entity.User, id string, in StatusUpdateInput) (*entity.DiscordFeedback, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de feedback invalide.")
	}

	status := entity.FeedbackStatus(in.Status)
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Statut invalide")
	}

	feedback, err := s.feedbacks.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Feedback non trouvé")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour du feedback.")
	}

	previous := feedback.Status
	feedback.Status = status
	if in.AdminNotes != "" {
		feedback.AdminNotes = in.AdminNotes
	}
	if in.AssignedTo != "" {
		feedback.AssignedTo = in.AssignedTo
	}
	if status == entity.FeedbackCompleted && feedback.CompletedAt == nil {
		now := time.Now()
		feedback.CompletedAt = &now
	}

	if err := s.feedbacks.Update(ctx, feedback); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour du feedback.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionUpdate, entity.TargetDiscordFeedback, id, map[string]interface{}{
		"feedbackId":     feedback.FeedbackID,
		"previousStatus": previous,
		"newStatus":      status,
	})
	return feedback, nil
}

// Delete removes a feedback.
func (s *FeedbackService) Delete(ctx context.Context, admin *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID de feedback invalide.")
	}

	feedback, err := s.feedbacks.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("Feedback non trouvé")
	}
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression du feedback.")
	}

	if err := s.feedbacks.Delete(ctx, oid); err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression du feedback.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionDelete, entity.TargetDiscordFeedback, id, map[string]interface{}{
		"feedbackId": feedback.FeedbackID,
		"airport":    feedback.Airport,
	})
	return nil
}

// FeedbackStats is the triage dashboard payload.
type FeedbackStats struct {
	ByStatus  []entity.StatusCount  `json:"byStatus"`
	ByAirport []entity.AirportCount `json:"byAirport"`
	ByAirline []entity.AirlineCount `json:"byAirline"`
	Daily     []entity.DateCount    `json:"daily"`
}

// Stats aggregates feedback counts by status, top airports and airlines,
// and daily volume over the last week.
func (s *FeedbackService) Stats(ctx context.Context) (*FeedbackStats, error) {
	byStatus, err := s.feedbacks.StatusCounts(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques de feedback.")
	}
	byAirport, err := s.feedbacks.TopAirports(ctx, topFeedbackLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques de feedback.")
	}
	byAirline, err := s.feedbacks.TopAirlines(ctx, topFeedbackLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques de feedback.")
	}

	since := time.Now().AddDate(0, 0, -feedbackDailyWindow)
	daily, err := s.feedbacks.DailyCounts(ctx, since)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques de feedback.")
	}

	if byStatus == nil {
		byStatus = []entity.StatusCount{}
	}
	if byAirport == nil {
		byAirport = []entity.AirportCount{}
	}
	if byAirline == nil {
		byAirline = []entity.AirlineCount{}
	}
	if daily == nil {
		daily = []entity.DateCount{}
	}
	return &FeedbackStats{
		ByStatus:  byStatus,
		ByAirport: byAirport,
		ByAirline: byAirline,
		Daily:     daily,
	}, nil
}
