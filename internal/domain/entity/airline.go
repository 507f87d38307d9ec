package entity

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var airlineICAORe = regexp.MustCompile(`^[A-Z]{3}$`)

// Airline is an airline record keyed by its 3-letter ICAO code. The logo
// asset lives in the external asset store; LogoPublicID is the handle used
// to delete it when the record changes or goes away.
type Airline struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ICAO         string             `bson:"icao" json:"icao"`
	Name         string             `bson:"name" json:"name"`
	Callsign     string             `bson:"callsign,omitempty" json:"callsign,omitempty"`
	Country      string             `bson:"country" json:"country"`
	LogoURL      string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	LogoPublicID string             `bson:"logoPublicId,omitempty" json:"logoPublicId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidAirlineICAO reports whether s is a well-formed 3-letter airline ICAO.
func ValidAirlineICAO(s string) bool {
	return airlineICAORe.MatchString(s)
}
