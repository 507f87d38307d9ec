package entity

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackStatus is the workflow state of a Discord feedback.
type FeedbackStatus string

const (
	FeedbackNew        FeedbackStatus = "NEW"
	FeedbackPending    FeedbackStatus = "PENDING"
	FeedbackInProgress FeedbackStatus = "IN_PROGRESS"
	FeedbackCompleted  FeedbackStatus = "COMPLETED"
)

// Valid reports whether s is a known feedback status.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackNew, FeedbackPending, FeedbackInProgress, FeedbackCompleted:
		return true
	}
	return false
}

// FeedbackDetails is the structured form of the free-text notes field when
// the bot submitted it as JSON.
type FeedbackDetails struct {
	Stands         string `bson:"stands,omitempty" json:"stands,omitempty"`
	Terminal       string `bson:"terminal,omitempty" json:"terminal,omitempty"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
	Email          string `bson:"email,omitempty" json:"email,omitempty"`
}

// DiscordFeedback is user feedback collected by the Discord bot.
type DiscordFeedback struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FeedbackID     string             `bson:"feedbackId" json:"feedbackId"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	UserID         string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Username       string             `bson:"username,omitempty" json:"username,omitempty"`
	Airport        string             `bson:"airport,omitempty" json:"airport,omitempty"`
	Airline        string             `bson:"airline,omitempty" json:"airline,omitempty"`
	ParkingName    string             `bson:"parkingName,omitempty" json:"parkingName,omitempty"`
	HasInformation bool               `bson:"hasInformation" json:"hasInformation"`
	Status         FeedbackStatus     `bson:"status" json:"status"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	MessageID      string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	ChannelID      string             `bson:"channelId,omitempty" json:"channelId,omitempty"`
	AdminNotes     string             `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	AssignedTo     string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ParsedDetails  *FeedbackDetails   `bson:"parsedDetails,omitempty" json:"parsedDetails,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ParseNotes decodes JSON-encoded notes into ParsedDetails. Invalid JSON is
// left as-is; only notes that look like an object are attempted.
func (f *DiscordFeedback) ParseNotes() {
	notes := strings.TrimSpace(f.Notes)
	if !strings.HasPrefix(notes, "{") || !strings.HasSuffix(notes, "}") {
		return
	}
	var parsed FeedbackDetails
	if err := json.Unmarshal([]byte(notes), &parsed); err != nil {
		return
	}
	f.ParsedDetails = &parsed
}
