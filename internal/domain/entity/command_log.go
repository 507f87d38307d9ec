package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommandLog is one Discord bot command invocation, written by the bot and
// purged by the retention job.
type CommandLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Command   string             `bson:"command" json:"command"`
	User      CommandUser        `bson:"user" json:"user"`
	Guild     CommandGuild       `bson:"guild" json:"guild"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Details   CommandDetails     `bson:"details" json:"details"`
}

type CommandUser struct {
	ID       string `bson:"id,omitempty" json:"id,omitempty"`
	Tag      string `bson:"tag,omitempty" json:"tag,omitempty"`
	Nickname string `bson:"nickname,omitempty" json:"nickname,omitempty"`
}

type CommandGuild struct {
	ID   string `bson:"id,omitempty" json:"id,omitempty"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

type CommandDetails struct {
	Airport       string       `bson:"airport,omitempty" json:"airport,omitempty"`
	Airline       string       `bson:"airline,omitempty" json:"airline,omitempty"`
	Found         bool         `bson:"found" json:"found"`
	ParkingsCount int          `bson:"parkingsCount,omitempty" json:"parkingsCount,omitempty"`
	ResponseTime  float64      `bson:"responseTime,omitempty" json:"responseTime,omitempty"`
	Acars         AcarsDetails `bson:"acars,omitempty" json:"acars,omitempty"`
}

// AcarsDetails describes an optional ACARS dispatch attached to a command.
type AcarsDetails struct {
	Used         bool       `bson:"used" json:"used"`
	Network      string     `bson:"network,omitempty" json:"network,omitempty"`
	Callsign     string     `bson:"callsign,omitempty" json:"callsign,omitempty"`
	Success      bool       `bson:"success" json:"success"`
	Timestamp    *time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	ResponseTime float64    `bson:"responseTime,omitempty" json:"responseTime,omitempty"`
}
