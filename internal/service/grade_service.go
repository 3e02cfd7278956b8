package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusoft-co/gradebook-api/internal/grading"
	"github.com/edusoft-co/gradebook-api/internal/models"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
)

type activityReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Activity, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
}

type scoreRepo interface {
	ListByStudent(ctx context.Context, courseID, studentID string) ([]models.ActivityScore, error)
	Upsert(ctx context.Context, score *models.ActivityScore) error
}

type gradeRepo interface {
	UpsertForEnrollment(ctx context.Context, grade *models.CourseGrade) error
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseGrade, error)
	FindByStudent(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error)
}

type enrollmentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
}

type boardCache interface {
	Get(ctx context.Context, courseID string) ([]models.CourseGrade, bool)
	Set(ctx context.Context, courseID string, grades []models.CourseGrade)
	Invalidate(ctx context.Context, courseID string)
}

// SubmitScoreRequest is a single-cell score write.
type SubmitScoreRequest struct {
	ActivityID string  `json:"activity_id" validate:"required"`
	StudentID  string  `json:"student_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0,lte=5"`
}

// GradeService orchestrates score writes and grade recomputation. It holds no
// state between calls; every recomputation reads the store's current contents,
// derives the three corte grades and the final grade in memory, and persists
// them in a single upsert keyed by enrollment.
type GradeService struct {
	activities  activityReader
	scores      scoreRepo
	grades      gradeRepo
	enrollments enrollmentReader
	cache       boardCache
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService. cache and metrics may be nil.
func NewGradeService(activities activityReader, scores scoreRepo, grades gradeRepo, enrollments enrollmentReader, cache boardCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		activities:  activities,
		scores:      scores,
		grades:      grades,
		enrollments: enrollments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// SubmitScore validates and records one score, then synchronously recomputes
// the student's corte and final grades. Rejected values never reach storage
// and trigger no recomputation.
func (s *GradeService) SubmitScore(ctx context.Context, req SubmitScoreRequest) (*models.CourseGrade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if math.IsNaN(req.Score) || math.IsInf(req.Score, 0) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score must be a finite number between 0 and 5")
	}
	activity, err := s.activities.FindByID(ctx, req.ActivityID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	enrollment, err := s.enrollments.FindByCourseAndStudent(ctx, activity.CourseID, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in the course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	score := &models.ActivityScore{ActivityID: req.ActivityID, StudentID: req.StudentID, Score: req.Score}
	if err := s.scores.Upsert(ctx, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save score")
	}
	grade, err := s.recomputeEnrollment(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	return grade, nil
}

// RecomputeStudent recomputes one student's grades from the store's current
// scores and activities.
func (s *GradeService) RecomputeStudent(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error) {
	enrollment, err := s.enrollments.FindByCourseAndStudent(ctx, courseID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in the course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return s.recomputeEnrollment(ctx, enrollment)
}

// SettleAll recomputes every enrolled student of the course sequentially. A
// student without an enrollment cannot appear here, but any per-student
// NotFound is skipped so one bad row never aborts the batch; persistence
// errors propagate and stop the settle.
func (s *GradeService) SettleAll(ctx context.Context, courseID string) (int, error) {
	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	settled := 0
	for i := range enrollments {
		if _, err := s.recomputeEnrollment(ctx, &enrollments[i]); err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				s.logger.Warn("skipping student without enrollment",
					zap.String("course_id", courseID),
					zap.String("student_id", enrollments[i].StudentID))
				continue
			}
			return settled, err
		}
		settled++
	}
	s.logger.Info("course grades settled", zap.String("course_id", courseID), zap.Int("students", settled))
	return settled, nil
}

// Board returns every student's derived grades for the course, served from
// the snapshot cache when possible.
func (s *GradeService) Board(ctx context.Context, courseID string) ([]models.CourseGrade, error) {
	if s.cache != nil {
		if grades, ok := s.cache.Get(ctx, courseID); ok {
			return grades, nil
		}
	}
	grades, err := s.grades.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	if s.cache != nil {
		s.cache.Set(ctx, courseID, grades)
	}
	return grades, nil
}

// StudentGrade returns one student's derived grade row.
func (s *GradeService) StudentGrade(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error) {
	grade, err := s.grades.FindByStudent(ctx, courseID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no grade recorded for student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return grade, nil
}

// recomputeEnrollment runs the full read-aggregate-write sequence for one
// enrollment. All derived values are computed in memory before the single
// upsert, so a failed write leaves the previous row untouched.
func (s *GradeService) recomputeEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.CourseGrade, error) {
	start := time.Now()
	activities, err := s.activities.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	scores, err := s.scores.ListByStudent(ctx, enrollment.CourseID, enrollment.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	scoreByActivity := make(map[string]float64, len(scores))
	for _, score := range scores {
		scoreByActivity[score.ActivityID] = score.Score
	}

	cortes := make([]float64, models.CorteCount)
	for corte := 1; corte <= models.CorteCount; corte++ {
		raw := grading.CorteGrade(corte, activities, scoreByActivity)
		if raw > 0 {
			cortes[corte-1] = grading.ApplyRoundingMargin(raw)
		}
	}
	final := grading.FinalGrade(cortes[0], cortes[1], cortes[2])

	grade := &models.CourseGrade{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		StudentName:  enrollment.StudentName,
		Corte1:       presentGrade(cortes[0]),
		Corte2:       presentGrade(cortes[1]),
		Corte3:       presentGrade(cortes[2]),
		FinalGrade:   presentGrade(final),
		CalculatedAt: time.Now().UTC(),
	}
	if err := s.grades.UpsertForEnrollment(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grades")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, enrollment.CourseID)
	}
	if s.metrics != nil {
		s.metrics.ObserveRecompute(time.Since(start))
	}
	return grade, nil
}

// presentGrade maps a computed value to its stored form: values at or below
// zero mean "no grade yet" and are stored as NULL, never as a literal zero.
func presentGrade(value float64) *float64 {
	if value <= 0 {
		return nil
	}
	return &value
}
