package transport

// CreateFlightStripRequest is the payload for creating a flight strip.
// Bodies arrive pre-validated by the API gateway; handlers only enforce
// presence of required fields.
type CreateFlightStripRequest struct {
	Name         string `json:"name"`
	FlightArea   string `json:"flight_area"`
	Height       int    `json:"height"`
	TakeoffSpace string `json:"takeoff_space"`
	LandingSpace string `json:"landing_space"`
	TakeoffTime  string `json:"takeoff_time"`
	LandingTime  string `json:"landing_time"`
	CreatedBy    string `json:"created_by,omitempty"`
}

// UpdateFlightStripRequest is a partial update; absent fields stay unchanged.
type UpdateFlightStripRequest struct {
	FlightArea   *string `json:"flight_area,omitempty"`
	Height       *int    `json:"height,omitempty"`
	TakeoffSpace *string `json:"takeoff_space,omitempty"`
	LandingSpace *string `json:"landing_space,omitempty"`
	TakeoffTime  *string `json:"takeoff_time,omitempty"`
	LandingTime  *string `json:"landing_time,omitempty"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
}

// CreateDroneMappingRequest is the payload for creating a drone mapping.
type CreateDroneMappingRequest struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Sisant       string `json:"sisant"`
	CreatedBy    string `json:"created_by,omitempty"`
}

// BulkDroneMappingsRequest carries a batch for bulk create or reconcile.
type BulkDroneMappingsRequest struct {
	Mappings  []CreateDroneMappingRequest `json:"mappings"`
	CreatedBy string                      `json:"created_by,omitempty"`
}

// UpdateDroneMappingRequest is a partial update; absent fields stay unchanged.
type UpdateDroneMappingRequest struct {
	SerialNumber *string `json:"serial_number,omitempty"`
	Sisant       *string `json:"sisant,omitempty"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
}
