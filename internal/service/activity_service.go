package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusoft-co/gradebook-api/internal/grading"
	"github.com/edusoft-co/gradebook-api/internal/models"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
)

type activityRepo interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Activity, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id string) error
}

// CreateActivityRequest is the payload for defining a weighted activity.
type CreateActivityRequest struct {
	Name       string  `json:"name" validate:"required"`
	Corte      int     `json:"corte" validate:"required,min=1,max=3"`
	Percentage float64 `json:"percentage" validate:"required,gt=0"`
}

// ActivityService manages weighted activities and the corte allocation rule.
type ActivityService struct {
	activities activityRepo
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewActivityService constructs ActivityService.
func NewActivityService(activities activityRepo, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{activities: activities, validator: validate, logger: logger}
}

// List returns a course's activities ordered by corte.
func (s *ActivityService) List(ctx context.Context, courseID string) ([]models.Activity, error) {
	activities, err := s.activities.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, nil
}

// Allocations returns the used/cap weight summary per corte.
func (s *ActivityService) Allocations(ctx context.Context, courseID string) ([]models.CorteAllocation, error) {
	activities, err := s.activities.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return grading.Allocations(activities), nil
}

// ValidateAllocation checks a proposed weight against the corte's remaining
// budget without persisting anything.
func (s *ActivityService) ValidateAllocation(ctx context.Context, courseID string, corte int, proposed float64) error {
	if corte < 1 || corte > models.CorteCount {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("corte must be between 1 and %d", models.CorteCount))
	}
	if proposed <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "percentage must be greater than zero")
	}
	activities, err := s.activities.ListByCourse(ctx, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	used := grading.AllocatedWeight(corte, activities)
	if !grading.CanAllocate(corte, used, proposed) {
		return appErrors.Clone(appErrors.ErrAllocationExceeded,
			fmt.Sprintf("corte %d only allows %g%% total; %g%% is already allocated", corte, grading.Cap(corte), used))
	}
	return nil
}

// Create validates the allocation cap and persists the activity.
func (s *ActivityService) Create(ctx context.Context, courseID string, req CreateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if err := s.ValidateAllocation(ctx, courseID, req.Corte, req.Percentage); err != nil {
		return nil, err
	}
	activity := &models.Activity{
		CourseID:   courseID,
		Name:       req.Name,
		Corte:      req.Corte,
		Percentage: req.Percentage,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create activity")
	}
	s.logger.Info("activity created",
		zap.String("course_id", courseID),
		zap.Int("corte", activity.Corte),
		zap.Float64("percentage", activity.Percentage))
	return activity, nil
}

// Delete removes an activity, freeing its weight in the corte. Scores already
// recorded against it are left orphaned and drop out of future aggregation.
func (s *ActivityService) Delete(ctx context.Context, activityID string) error {
	if err := s.activities.Delete(ctx, activityID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete activity")
	}
	return nil
}
