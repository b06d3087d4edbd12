package models

import "time"

// Assignment is the root record of the grading workflow. Title, requirements,
// deadline and creator are immutable after creation; SubmissionCount only
// grows and GradingStarted only flips false to true.
type Assignment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Requirements    string    `gorm:"type:text" json:"requirements"`
	Deadline        time.Time `gorm:"not null" json:"deadline"`
	Creator         string    `gorm:"size:128;not null;index" json:"creator"`
	SubmissionCount uint      `gorm:"not null;default:0" json:"submission_count"`
	GradingStarted  bool      `gorm:"not null;default:false" json:"grading_started"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsPastDeadline reports whether the deadline has been reached. The boundary
// is inclusive: at reference == deadline submissions close and grading opens.
func (a Assignment) IsPastDeadline(reference time.Time) bool {
	return !reference.Before(a.Deadline)
}

// IsCreator reports whether principal created this assignment.
func (a Assignment) IsCreator(principal string) bool {
	return principal != "" && a.Creator == principal
}
