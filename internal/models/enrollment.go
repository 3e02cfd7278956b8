package models

import "time"

// Enrollment links one student to one course. Enrollment lifecycle is owned
// by the surrounding application; the grading engine only reads these rows
// and keys derived grades by their ID.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrolled_at"`
}
