package models

import "time"

// Corte percentage caps. Corte 1 allows 30% of the final grade, cortes 2
// and 3 allow 35% each; final-grade weights mirror the caps divided by 100.
const (
	Corte1Cap = 30.0
	Corte2Cap = 35.0
	Corte3Cap = 35.0

	CorteCount = 3
)

// Activity is a gradable item (quiz, assignment, exam) inside one corte of a
// course, weighted in percentage points of that corte's cap.
type Activity struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Name       string    `db:"name" json:"name"`
	Corte      int       `db:"corte" json:"corte"`
	Percentage float64   `db:"percentage" json:"percentage"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ActivityScore is a student's recorded score for one activity, on the 0-5
// scale. One row per (activity, student); writes overwrite the prior value.
type ActivityScore struct {
	ID         string    `db:"id" json:"id"`
	ActivityID string    `db:"activity_id" json:"activity_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	Score      float64   `db:"score" json:"score"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CorteAllocation summarises the weight budget of one corte within a course.
type CorteAllocation struct {
	Corte int     `json:"corte"`
	Used  float64 `json:"used"`
	Cap   float64 `json:"cap"`
}
