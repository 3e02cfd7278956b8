package models

import "time"

// CourseGrade stores the derived corte sub-grades and final grade for one
// enrollment. Values are NULL while the student has no scores contributing to
// the corte ("no grade yet"); the row is replaced wholesale on every
// recomputation and never edited directly.
type CourseGrade struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	StudentName  string    `db:"student_name" json:"student_name"`
	Corte1       *float64  `db:"corte1" json:"corte1,omitempty"`
	Corte2       *float64  `db:"corte2" json:"corte2,omitempty"`
	Corte3       *float64  `db:"corte3" json:"corte3,omitempty"`
	FinalGrade   *float64  `db:"final_grade" json:"final_grade,omitempty"`
	CalculatedAt time.Time `db:"calculated_at" json:"calculated_at"`
}
