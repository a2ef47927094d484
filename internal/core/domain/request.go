package domain

import "time"

// RequestRecord is one entry of the append-only request log.
type RequestRecord struct {
	RequestID  string
	Method     string
	Route      string
	URI        string
	Status     int
	Latency    time.Duration
	UserID     int64
	RemoteIP   string
	UserAgent  string
	Error      string
	OccurredAt time.Time
}
