package models

import "time"

// Grade records an encrypted score for a submission. A Grade can only exist
// when a Submission for the same (assignment, student) pair exists, and at
// most one is ever written per pair.
type Grade struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_grades_assignment_student" json:"assignment_id"`
	StudentID    string     `gorm:"size:128;not null;uniqueIndex:idx_grades_assignment_student" json:"student_id"`
	ScoreHandle  string     `gorm:"size:128;not null" json:"score_handle"`
	GradedAt     time.Time  `gorm:"not null" json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}
