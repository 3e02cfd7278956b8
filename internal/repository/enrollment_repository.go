package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusoft-co/gradebook-api/internal/models"
)

// EnrollmentRepository reads enrollment rows. Enrollment CRUD lives in the
// surrounding application; the grading engine only resolves students to the
// enrollment their grades hang off.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByCourse returns every enrollment of the course.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, p.full_name AS student_name, e.enrolled_at
        FROM enrollments e
        JOIN profiles p ON p.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY p.full_name`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByCourseAndStudent resolves one student's enrollment in a course.
func (r *EnrollmentRepository) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, p.full_name AS student_name, e.enrolled_at
        FROM enrollments e
        JOIN profiles p ON p.id = e.student_id
        WHERE e.course_id = $1 AND e.student_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, courseID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
