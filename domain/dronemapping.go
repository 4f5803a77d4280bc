package domain

import "time"

// DroneMapping maps a human-readable drone name to its serial number and
// SISANT registration. Name, SerialNumber and Sisant are each unique among
// active records.
type DroneMapping struct {
	Name         string     `json:"name"`
	SerialNumber string     `json:"serial_number"`
	Sisant       string     `json:"sisant"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	UpdatedBy    *string    `json:"updated_by,omitempty"`
	DeletedBy    *string    `json:"deleted_by,omitempty"`
}

// IsDeleted reports whether the mapping is soft deleted.
func (m *DroneMapping) IsDeleted() bool {
	return m != nil && m.DeletedAt != nil
}

// SoftDelete marks the mapping as logically deleted.
func (m *DroneMapping) SoftDelete(deletedBy *string) {
	now := time.Now().UTC()
	m.DeletedAt = &now
	m.DeletedBy = deletedBy
	m.UpdatedAt = now
}

// Restore clears the deletion markers.
func (m *DroneMapping) Restore() {
	m.DeletedAt = nil
	m.DeletedBy = nil
	m.UpdatedAt = time.Now().UTC()
}

// MatchesIdentifier reports whether any of the mapping's keys equals the
// given identifier.
func (m *DroneMapping) MatchesIdentifier(identifier string) bool {
	if m == nil {
		return false
	}
	return m.Name == identifier || m.SerialNumber == identifier || m.Sisant == identifier
}
