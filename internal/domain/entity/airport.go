package entity

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var airportICAORe = regexp.MustCompile(`^[A-Z]{4}$`)

// Airport is an airport record keyed by its 4-letter ICAO code.
type Airport struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ICAO          string             `bson:"icao" json:"icao"`
	Name          string             `bson:"name" json:"name"`
	City          string             `bson:"city,omitempty" json:"city,omitempty"`
	Country       string             `bson:"country,omitempty" json:"country,omitempty"`
	Latitude      float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Elevation     float64            `bson:"elevation,omitempty" json:"elevation,omitempty"`
	Timezone      string             `bson:"timezone,omitempty" json:"timezone,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	LastUpdatedBy primitive.ObjectID `bson:"lastUpdatedBy,omitempty" json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidAirportICAO reports whether s is a well-formed 4-letter airport ICAO.
func ValidAirportICAO(s string) bool {
	return airportICAORe.MatchString(s)
}
