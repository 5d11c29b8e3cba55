// ABOUTME: Request and response envelopes for the advisor API
// ABOUTME: JSON-serializable structures matching frontend expectations

package models

import "time"

// CostRequest is the body of POST /cost-estimation.
type CostRequest struct {
	Provider string `json:"provider"`
	Region   string `json:"region"`
}

// StrategyRequest is the body of POST /migration-strategy.
type StrategyRequest struct {
	Provider   string `json:"provider"`
	Region     string `json:"region"`
	Complexity string `json:"complexity"`
}

// TimelineRequest is the body of POST /timeline.
type TimelineRequest struct {
	StartDate string `json:"start_date,omitempty"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// HealthResponse reports service dependencies.
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	AIEnabled bool      `json:"ai_enabled"`
	VSphere   string    `json:"vsphere"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportResult reports a vSphere import batch.
type ImportResult struct {
	BatchID   string    `json:"batch_id"`
	Source    string    `json:"source"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
