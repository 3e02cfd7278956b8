package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusoft-co/gradebook-api/internal/models"
)

// ActivityRepository handles persistence of weighted grade activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListByCourse returns every activity of the course ordered by corte.
func (r *ActivityRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Activity, error) {
	const query = `SELECT id, course_id, name, corte, percentage, created_at
        FROM grade_activities WHERE course_id = $1 ORDER BY corte, created_at`
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, courseID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// FindByID returns one activity.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	const query = `SELECT id, course_id, name, corte, percentage, created_at
        FROM grade_activities WHERE id = $1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Create inserts a new activity.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO grade_activities (id, course_id, name, corte, percentage, created_at)
        VALUES (:id, :course_id, :name, :corte, :percentage, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// Delete removes an activity. Scores recorded against it stay behind as
// orphans; reads join through grade_activities so they stop contributing.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grade_activities WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
