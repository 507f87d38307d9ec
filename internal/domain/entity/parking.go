package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MapSourceCloudinary marks a map that lives in the external asset store
// and must be cleaned up when the parking record changes or is deleted.
const MapSourceCloudinary = "Cloudinary"

// Gate is the terminal/gate assignment of a parking.
type Gate struct {
	Terminal string `bson:"terminal" json:"terminal"`
	Porte    string `bson:"porte" json:"porte"`
}

// MapInfo describes the optional stand map attached to a parking.
type MapInfo struct {
	HasMap bool   `bson:"hasMap" json:"hasMap"`
	MapURL string `bson:"mapUrl,omitempty" json:"mapUrl,omitempty"`
	Source string `bson:"source,omitempty" json:"source,omitempty"`
}

// Parking links one airline to one airport. The (airline, airport) pair is
// unique and immutable once created; changing it requires delete+recreate.
type Parking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Airline       string             `bson:"airline" json:"airline"`
	Airport       string             `bson:"airport" json:"airport"`
	Gate          Gate               `bson:"gate" json:"gate"`
	MapInfo       MapInfo            `bson:"mapInfo" json:"mapInfo"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	LastUpdatedBy primitive.ObjectID `bson:"lastUpdatedBy,omitempty" json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AirportGroup is one paginated unit of the grouped parking listing: all
// parkings of a single airport plus group-level metadata.
type AirportGroup struct {
	Airport                string    `bson:"_id" json:"airport"`
	TotalParkingsInAirport int64     `bson:"totalParkingsInAirport" json:"totalParkingsInAirport"`
	Parkings               []Parking `bson:"parkings" json:"parkings"`
	LastUpdatedAt          time.Time `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}
