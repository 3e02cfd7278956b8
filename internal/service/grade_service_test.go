package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusoft-co/gradebook-api/internal/models"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
)

type fakeActivityRepo struct {
	activities map[string]models.Activity
}

func (f *fakeActivityRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Activity, error) {
	var result []models.Activity
	for _, a := range f.activities {
		if a.CourseID == courseID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeActivityRepo) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	if a, ok := f.activities[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if f.activities == nil {
		f.activities = make(map[string]models.Activity)
	}
	if activity.ID == "" {
		activity.ID = "act-" + activity.Name
	}
	f.activities[activity.ID] = *activity
	return nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.activities[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.activities, id)
	return nil
}

type fakeScoreRepo struct {
	activities *fakeActivityRepo
	scores     map[string]models.ActivityScore
	upsertErr  error
	upserts    int
}

func (f *fakeScoreRepo) ListByStudent(ctx context.Context, courseID, studentID string) ([]models.ActivityScore, error) {
	var result []models.ActivityScore
	for _, s := range f.scores {
		if s.StudentID != studentID {
			continue
		}
		activity, ok := f.activities.activities[s.ActivityID]
		if !ok || activity.CourseID != courseID {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeScoreRepo) Upsert(ctx context.Context, score *models.ActivityScore) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.scores == nil {
		f.scores = make(map[string]models.ActivityScore)
	}
	f.upserts++
	f.scores[score.ActivityID+"|"+score.StudentID] = *score
	return nil
}

type fakeGradeRepo struct {
	rows      map[string]models.CourseGrade
	upsertErr error
}

func (f *fakeGradeRepo) UpsertForEnrollment(ctx context.Context, grade *models.CourseGrade) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.rows == nil {
		f.rows = make(map[string]models.CourseGrade)
	}
	f.rows[grade.EnrollmentID] = *grade
	return nil
}

func (f *fakeGradeRepo) ListByCourse(ctx context.Context, courseID string) ([]models.CourseGrade, error) {
	var result []models.CourseGrade
	for _, g := range f.rows {
		if g.CourseID == courseID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (f *fakeGradeRepo) FindByStudent(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error) {
	for _, g := range f.rows {
		if g.CourseID == courseID && g.StudentID == studentID {
			return &g, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeEnrollmentRepo struct {
	enrollments []models.Enrollment
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			enrollment := e
			return &enrollment, nil
		}
	}
	return nil, sql.ErrNoRows
}

type gradeFixture struct {
	activities  *fakeActivityRepo
	scores      *fakeScoreRepo
	grades      *fakeGradeRepo
	enrollments *fakeEnrollmentRepo
	svc         *GradeService
}

func newGradeFixture() *gradeFixture {
	activities := &fakeActivityRepo{activities: map[string]models.Activity{}}
	scores := &fakeScoreRepo{activities: activities}
	grades := &fakeGradeRepo{}
	enrollments := &fakeEnrollmentRepo{}
	svc := NewGradeService(activities, scores, grades, enrollments, nil, nil, validator.New(), zap.NewNop())
	return &gradeFixture{activities: activities, scores: scores, grades: grades, enrollments: enrollments, svc: svc}
}

func (f *gradeFixture) enroll(enrollmentID, courseID, studentID, name string) {
	f.enrollments.enrollments = append(f.enrollments.enrollments, models.Enrollment{
		ID: enrollmentID, CourseID: courseID, StudentID: studentID, StudentName: name,
	})
}

func (f *gradeFixture) addActivity(id, courseID string, corte int, percentage float64) {
	f.activities.activities[id] = models.Activity{ID: id, CourseID: courseID, Name: id, Corte: corte, Percentage: percentage}
}

func TestSubmitScoreRecomputesGrades(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 15)
	f.addActivity("a2", "course", 1, 15)
	ctx := context.Background()

	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.0})
	require.NoError(t, err)
	grade, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a2", StudentID: "stu1", Score: 5.0})
	require.NoError(t, err)

	require.NotNil(t, grade.Corte1)
	assert.InDelta(t, 4.5, *grade.Corte1, 1e-9)
	assert.Nil(t, grade.Corte2)
	assert.Nil(t, grade.Corte3)
	require.NotNil(t, grade.FinalGrade)
	// 4.5*0.30 = 1.35
	assert.InDelta(t, 1.35, *grade.FinalGrade, 1e-9)

	stored := f.grades.rows["en1"]
	assert.Equal(t, "Ana", stored.StudentName)
}

func TestSubmitScoreMissingScoreNotRenormalized(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 20)
	f.addActivity("a2", "course", 1, 10)

	// Only the weight-10 activity is scored: 4.0*(10/30) = 1.333...
	grade, err := f.svc.SubmitScore(context.Background(), SubmitScoreRequest{ActivityID: "a2", StudentID: "stu1", Score: 4.0})
	require.NoError(t, err)
	require.NotNil(t, grade.Corte1)
	assert.InDelta(t, 4.0/3.0, *grade.Corte1, 1e-9)
	// Final stays above zero so it is stored, not treated as absent.
	require.NotNil(t, grade.FinalGrade)
	assert.InDelta(t, 4.0/3.0*0.30, *grade.FinalGrade, 1e-9)
}

func TestSubmitScoreValidation(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 30)
	ctx := context.Background()

	for _, score := range []float64{-0.1, 5.1} {
		_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: score})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Zero(t, f.scores.upserts, "rejected scores must never reach the repository")

	// Boundary values are accepted.
	for _, score := range []float64{0, 5} {
		_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: score})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.scores.upserts)
}

func TestSubmitScoreUnknownActivity(t *testing.T) {
	f := newGradeFixture()
	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreRequest{ActivityID: "ghost", StudentID: "stu1", Score: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmitScoreStudentNotEnrolled(t *testing.T) {
	f := newGradeFixture()
	f.addActivity("a1", "course", 1, 30)
	_, err := f.svc.SubmitScore(context.Background(), SubmitScoreRequest{ActivityID: "a1", StudentID: "ghost", Score: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, f.scores.upserts)
}

func TestRecomputeStudentIdempotent(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 15)
	f.addActivity("a2", "course", 2, 35)
	ctx := context.Background()

	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.2})
	require.NoError(t, err)
	_, err = f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a2", StudentID: "stu1", Score: 3.7})
	require.NoError(t, err)

	first, err := f.svc.RecomputeStudent(ctx, "course", "stu1")
	require.NoError(t, err)
	second, err := f.svc.RecomputeStudent(ctx, "course", "stu1")
	require.NoError(t, err)

	assert.Equal(t, first.Corte1, second.Corte1)
	assert.Equal(t, first.Corte2, second.Corte2)
	assert.Equal(t, first.Corte3, second.Corte3)
	assert.Equal(t, first.FinalGrade, second.FinalGrade)
}

func TestRecomputeStudentNotEnrolled(t *testing.T) {
	f := newGradeFixture()
	_, err := f.svc.RecomputeStudent(context.Background(), "course", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRecomputeRoundingMargin(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 15)
	f.addActivity("a2", "course", 1, 15)
	ctx := context.Background()

	// 4.99*(15/30) + 4.99*(15/30) = 4.99 -> rounds up to 5.0.
	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.99})
	require.NoError(t, err)
	grade, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a2", StudentID: "stu1", Score: 4.99})
	require.NoError(t, err)

	require.NotNil(t, grade.Corte1)
	assert.InDelta(t, 5.0, *grade.Corte1, 1e-9)
}

func TestRecomputeAllCortesAbsentStoresNulls(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 30)

	grade, err := f.svc.RecomputeStudent(context.Background(), "course", "stu1")
	require.NoError(t, err)
	assert.Nil(t, grade.Corte1)
	assert.Nil(t, grade.Corte2)
	assert.Nil(t, grade.Corte3)
	assert.Nil(t, grade.FinalGrade)
}

func TestSettleAllRecomputesEveryStudent(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.enroll("en2", "course", "stu2", "Blas")
	f.enroll("other", "another-course", "stu3", "Carla")
	f.addActivity("a1", "course", 1, 30)
	ctx := context.Background()

	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.0})
	require.NoError(t, err)

	settled, err := f.svc.SettleAll(ctx, "course")
	require.NoError(t, err)
	assert.Equal(t, 2, settled)
	assert.Len(t, f.grades.rows, 2)

	withScore := f.grades.rows["en1"]
	require.NotNil(t, withScore.Corte1)
	assert.InDelta(t, 4.0, *withScore.Corte1, 1e-9)
	withoutScore := f.grades.rows["en2"]
	assert.Nil(t, withoutScore.Corte1)
	assert.Nil(t, withoutScore.FinalGrade)
}

func TestSettleAllPersistenceErrorAborts(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.grades.upsertErr = assert.AnError

	_, err := f.svc.SettleAll(context.Background(), "course")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestBoardAndStudentGrade(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 30)
	ctx := context.Background()

	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.0})
	require.NoError(t, err)

	board, err := f.svc.Board(ctx, "course")
	require.NoError(t, err)
	require.Len(t, board, 1)

	grade, err := f.svc.StudentGrade(ctx, "course", "stu1")
	require.NoError(t, err)
	require.NotNil(t, grade.Corte1)

	_, err = f.svc.StudentGrade(ctx, "course", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeletedActivityScoresExcluded(t *testing.T) {
	f := newGradeFixture()
	f.enroll("en1", "course", "stu1", "Ana")
	f.addActivity("a1", "course", 1, 15)
	f.addActivity("a2", "course", 1, 15)
	ctx := context.Background()

	_, err := f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.0})
	require.NoError(t, err)
	_, err = f.svc.SubmitScore(ctx, SubmitScoreRequest{ActivityID: "a2", StudentID: "stu1", Score: 5.0})
	require.NoError(t, err)

	// Dropping a2 removes its weight and orphans its score.
	require.NoError(t, f.activities.Delete(ctx, "a2"))
	grade, err := f.svc.RecomputeStudent(ctx, "course", "stu1")
	require.NoError(t, err)
	require.NotNil(t, grade.Corte1)
	assert.InDelta(t, 4.0, *grade.Corte1, 1e-9)
}
