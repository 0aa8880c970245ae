// Package stats aggregates the desk's counters for the dashboard and the
// spreadsheet export.
package stats

import "time"

// Dashboard is the snapshot shown on the desk's home screen.
type Dashboard struct {
	Waiting            int       `json:"waiting"`
	ConsultationsToday int       `json:"consultations_today"`
	ActiveStaff        int       `json:"active_staff"`
	CriticalResources  int       `json:"critical_resources"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Count is one row of a grouped report.
type Count struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// NoStatus labels resources saved without a status.
const NoStatus = "Sin estado"
