package domain

import "time"

// FlightArea is the color zone a flight strip is assigned to.
type FlightArea string

const (
	FlightAreaRed    FlightArea = "red"
	FlightAreaYellow FlightArea = "yellow"
	FlightAreaOrange FlightArea = "orange"
	FlightAreaGreen  FlightArea = "green"
	FlightAreaBlue   FlightArea = "blue"
	FlightAreaPurple FlightArea = "purple"
)

// Valid reports whether the area is one of the known color zones.
func (a FlightArea) Valid() bool {
	switch a {
	case FlightAreaRed, FlightAreaYellow, FlightAreaOrange, FlightAreaGreen, FlightAreaBlue, FlightAreaPurple:
		return true
	}
	return false
}

// FlightStrip represents a flight strip tracked by the observer.
// Name is the business key; takeoff and landing times are zero-padded
// "HH:MM" strings so lexicographic order matches chronological order
// within a day.
type FlightStrip struct {
	Name         string     `json:"name"`
	FlightArea   FlightArea `json:"flight_area"`
	Height       int        `json:"height"`
	TakeoffSpace string     `json:"takeoff_space"`
	LandingSpace string     `json:"landing_space"`
	TakeoffTime  string     `json:"takeoff_time"`
	LandingTime  string     `json:"landing_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	UpdatedBy    *string    `json:"updated_by,omitempty"`
	DeletedBy    *string    `json:"deleted_by,omitempty"`
}

// IsDeleted reports whether the strip is soft deleted.
func (f *FlightStrip) IsDeleted() bool {
	return f != nil && f.DeletedAt != nil
}

// SoftDelete marks the strip as logically deleted.
func (f *FlightStrip) SoftDelete(deletedBy *string) {
	now := time.Now().UTC()
	f.DeletedAt = &now
	f.DeletedBy = deletedBy
	f.UpdatedAt = now
}

// Restore clears the deletion markers.
func (f *FlightStrip) Restore() {
	f.DeletedAt = nil
	f.DeletedBy = nil
	f.UpdatedAt = time.Now().UTC()
}
