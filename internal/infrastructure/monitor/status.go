package monitor

import "time"

// Status is a point-in-time snapshot of dependency health. Redis is optional;
// RedisEnabled distinguishes "down" from "not configured".
type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	RedisEnabled bool      `json:"redis_enabled"`
	Journal      bool      `json:"journal"`
	JournalSize  int       `json:"journal_size"`
	LastCheck    time.Time `json:"last_check"`
}
