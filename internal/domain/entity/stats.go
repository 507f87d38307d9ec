package entity

// AirportWithParkingCount is an airport listing row enriched with the number
// of parkings referencing it.
type AirportWithParkingCount struct {
	Airport      `bson:",inline"`
	ParkingCount int64 `bson:"parkingCount" json:"parkingCount"`
}

// CountryCount counts unique airports per 2-letter ICAO country prefix.
type CountryCount struct {
	Code  string `bson:"code" json:"code"`
	Count int64  `bson:"count" json:"count"`
}

// ParkingGlobalStats summarizes the parking collection. Countries holds the
// unique 2-letter ICAO prefixes.
type ParkingGlobalStats struct {
	TotalParkings  int64          `json:"totalParkings"`
	TotalAirports  int            `json:"totalAirports"`
	TotalCompanies int            `json:"totalCompanies"`
	TotalCountries int            `json:"totalCountries"`
	Countries      []string       `json:"countries"`
	CountryCounts  []CountryCount `json:"countryCounts"`
}

// CommandStatsSummary aggregates command-log totals over a period.
type CommandStatsSummary struct {
	TotalCommands       int64   `bson:"totalCommands" json:"totalCommands"`
	SuccessfulCommands  int64   `bson:"successfulCommands" json:"successfulCommands"`
	AverageResponseTime float64 `bson:"averageResponseTime" json:"averageResponseTime"`
	UniqueUsers         int64   `bson:"uniqueUsers" json:"uniqueUsers"`
	UniqueAirports      int64   `bson:"uniqueAirports" json:"uniqueAirports"`
	UniqueAirlines      int64   `bson:"uniqueAirlines" json:"uniqueAirlines"`
}

// AcarsStatsSummary aggregates ACARS dispatch totals over a period.
type AcarsStatsSummary struct {
	TotalUsed           int64   `bson:"totalUsed" json:"totalUsed"`
	SuccessCount        int64   `bson:"successCount" json:"successCount"`
	SuccessRate         float64 `bson:"successRate" json:"successRate"`
	AverageResponseTime float64 `bson:"averageResponseTime" json:"averageResponseTime"`
}

// DailyUsage is one day of a usage histogram. Date is YYYY-MM-DD.
// SuccessRate is a percentage.
type DailyUsage struct {
	Date        string  `bson:"date" json:"date"`
	Count       int64   `bson:"count" json:"count"`
	SuccessRate float64 `bson:"successRate" json:"successRate"`
}

// AirportCount is a top-N grouping row keyed by airport ICAO.
type AirportCount struct {
	Airport string `bson:"airport" json:"airport"`
	Count   int64  `bson:"count" json:"count"`
}

// AirlineCount is a top-N grouping row keyed by airline ICAO.
type AirlineCount struct {
	Airline string `bson:"airline" json:"airline"`
	Count   int64  `bson:"count" json:"count"`
}

// NetworkCount is a top-N grouping row keyed by ACARS network.
type NetworkCount struct {
	Network string `bson:"network" json:"network"`
	Count   int64  `bson:"count" json:"count"`
}

// StatusCount is a per-status feedback count.
type StatusCount struct {
	Status FeedbackStatus `bson:"_id" json:"status"`
	Count  int64          `bson:"count" json:"count"`
}

// DateCount is a per-day count keyed by YYYY-MM-DD.
type DateCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}
