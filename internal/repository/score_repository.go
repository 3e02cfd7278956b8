package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusoft-co/gradebook-api/internal/models"
)

// ScoreRepository handles persistence of per-activity scores.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository constructs the repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ListByStudent returns the student's scores for activities that still exist
// in the course. Orphaned scores of deleted activities are filtered out by
// the join.
func (r *ScoreRepository) ListByStudent(ctx context.Context, courseID, studentID string) ([]models.ActivityScore, error) {
	const query = `SELECT ag.id, ag.activity_id, ag.student_id, ag.score, ag.created_at, ag.updated_at
        FROM activity_grades ag
        JOIN grade_activities a ON a.id = ag.activity_id
        WHERE a.course_id = $1 AND ag.student_id = $2`
	var scores []models.ActivityScore
	if err := r.db.SelectContext(ctx, &scores, query, courseID, studentID); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}

// Upsert inserts or overwrites the score for one (activity, student) pair.
func (r *ScoreRepository) Upsert(ctx context.Context, score *models.ActivityScore) error {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if score.CreatedAt.IsZero() {
		score.CreatedAt = now
	}
	score.UpdatedAt = now
	const query = `INSERT INTO activity_grades (id, activity_id, student_id, score, created_at, updated_at)
        VALUES (:id, :activity_id, :student_id, :score, :created_at, :updated_at)
        ON CONFLICT (activity_id, student_id)
        DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, score); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}
