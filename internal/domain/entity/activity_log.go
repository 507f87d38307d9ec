package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is an audit-trail action. The set is closed; the activity logger
// refuses to persist anything outside it.
type Action string

const (
	ActionCreate         Action = "CREATE"
	ActionUpdate         Action = "UPDATE"
	ActionDelete         Action = "DELETE"
	ActionBulkCreate     Action = "BULK_CREATE"
	ActionBulkDelete     Action = "BULK_DELETE"
	ActionUpdateMap      Action = "UPDATE_MAP"
	ActionUpdateLogo     Action = "UPDATE_LOGO"
	ActionValidateUser   Action = "VALIDATE_USER"
	ActionChangeRole     Action = "CHANGE_ROLE"
	ActionCleanLogs      Action = "CLEAN_LOGS"
	ActionDeleteLogEntry Action = "DELETE_LOG_ENTRY"
	ActionLogin          Action = "LOGIN"
	ActionLogout         Action = "LOGOUT"
	ActionRegister       Action = "REGISTER"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionBulkCreate,
		ActionBulkDelete, ActionUpdateMap, ActionUpdateLogo,
		ActionValidateUser, ActionChangeRole, ActionCleanLogs,
		ActionDeleteLogEntry, ActionLogin, ActionLogout, ActionRegister:
		return true
	}
	return false
}

// TargetType is the kind of entity an audit entry refers to.
type TargetType string

const (
	TargetParking         TargetType = "Parking"
	TargetAirport         TargetType = "Airport"
	TargetAirline         TargetType = "Airline"
	TargetUser            TargetType = "User"
	TargetDiscordLog      TargetType = "DiscordLog"
	TargetDiscordFeedback TargetType = "DiscordFeedback"
	TargetActivityLog     TargetType = "ActivityLog"
	TargetAuth            TargetType = "Auth"
	TargetSystem          TargetType = "System"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetParking, TargetAirport, TargetAirline, TargetUser,
		TargetDiscordLog, TargetDiscordFeedback, TargetActivityLog,
		TargetAuth, TargetSystem:
		return true
	}
	return false
}

// ActivityLog is one immutable audit-trail entry. TargetID is a string so
// it can hold ObjectIDs as well as ICAO codes.
type ActivityLog struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID     `bson:"userId" json:"userId"`
	Action     Action                 `bson:"action" json:"action"`
	TargetType TargetType             `bson:"targetType" json:"targetType"`
	TargetID   string                 `bson:"targetId,omitempty" json:"targetId,omitempty"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Details    map[string]interface{} `bson:"details" json:"details"`
}

// UserSummary is the minimal user projection joined onto listed entries.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
}

// ActivityLogWithUser is a listed entry enriched with its user. User is nil
// when the user was deleted since the entry was written (left-join
// semantics).
type ActivityLogWithUser struct {
	ActivityLog `bson:",inline"`
	User        *UserSummary `bson:"user,omitempty" json:"user,omitempty"`
}
