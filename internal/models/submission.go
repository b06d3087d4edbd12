package models

import "time"

// Submission records that a student handed in an encrypted answer for an
// assignment. The row's existence is the "has submitted" fact: there is never
// more than one per (assignment, student) pair and rows are never deleted.
// AnswerHandle references the ciphertext held by the cipher engine.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    string     `gorm:"size:128;not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	AnswerHandle string     `gorm:"size:128;not null" json:"answer_handle"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}
