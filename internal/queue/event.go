// Package queue defines message payloads exchanged over the message broker.
package queue

// DashboardViewedEvent is published after a dashboard query succeeds.  It
// carries enough detail for an access log without touching the database.
type DashboardViewedEvent struct {
	RequestID  string `json:"request_id"`
	RemoteIP   string `json:"remote_ip"`
	RowCount   int    `json:"row_count"`
	DurationMs int64  `json:"duration_ms"`
	ViewedAt   string `json:"viewed_at"`
}
