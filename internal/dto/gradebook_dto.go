package dto

import "time"

// GradebookSummaryResponse aggregates the grading progress of one assignment
// for its creator. Served from a short-lived cache.
type GradebookSummaryResponse struct {
	AssignmentID         uint      `json:"assignment_id"`
	Title                string    `json:"title"`
	Deadline             time.Time `json:"deadline"`
	SubmissionCount      uint      `json:"submission_count"`
	GradedCount          uint      `json:"graded_count"`
	PendingCount         uint      `json:"pending_count"`
	GradingStarted       bool      `json:"grading_started"`
	AcceptingSubmissions bool      `json:"accepting_submissions"`
	GeneratedAt          time.Time `json:"generated_at"`
}
