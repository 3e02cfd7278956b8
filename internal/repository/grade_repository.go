package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusoft-co/gradebook-api/internal/models"
)

// GradeRepository manages derived corte/final grade rows.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// UpsertForEnrollment replaces the grade row of one enrollment wholesale.
func (r *GradeRepository) UpsertForEnrollment(ctx context.Context, grade *models.CourseGrade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.CalculatedAt.IsZero() {
		grade.CalculatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO grades (id, enrollment_id, student_id, course_id, student_name, corte1, corte2, corte3, final_grade, calculated_at)
        VALUES (:id, :enrollment_id, :student_id, :course_id, :student_name, :corte1, :corte2, :corte3, :final_grade, :calculated_at)
        ON CONFLICT (enrollment_id)
        DO UPDATE SET student_name = EXCLUDED.student_name,
            corte1 = EXCLUDED.corte1,
            corte2 = EXCLUDED.corte2,
            corte3 = EXCLUDED.corte3,
            final_grade = EXCLUDED.final_grade,
            calculated_at = EXCLUDED.calculated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// ListByCourse returns the grade board for a course ordered by student name.
func (r *GradeRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseGrade, error) {
	const query = `SELECT id, enrollment_id, student_id, course_id, student_name, corte1, corte2, corte3, final_grade, calculated_at
        FROM grades WHERE course_id = $1 ORDER BY student_name`
	var grades []models.CourseGrade
	if err := r.db.SelectContext(ctx, &grades, query, courseID); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByStudent returns one student's grade row in a course.
func (r *GradeRepository) FindByStudent(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error) {
	const query = `SELECT id, enrollment_id, student_id, course_id, student_name, corte1, corte2, corte3, final_grade, calculated_at
        FROM grades WHERE course_id = $1 AND student_id = $2`
	var grade models.CourseGrade
	if err := r.db.GetContext(ctx, &grade, query, courseID, studentID); err != nil {
		return nil, err
	}
	return &grade, nil
}
