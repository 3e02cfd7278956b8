package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusoft-co/gradebook-api/internal/models"
	"github.com/edusoft-co/gradebook-api/internal/service"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
	"github.com/edusoft-co/gradebook-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, courseID string) ([]models.Activity, error)
	Allocations(ctx context.Context, courseID string) ([]models.CorteAllocation, error)
	ValidateAllocation(ctx context.Context, courseID string, corte int, proposed float64) error
	Create(ctx context.Context, courseID string, req service.CreateActivityRequest) (*models.Activity, error)
	Delete(ctx context.Context, activityID string) error
}

// ActivityHandler exposes activity and allocation endpoints.
type ActivityHandler struct {
	activities activityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activities activityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List godoc
// @Summary List course activities
// @Tags Activities
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.activities.List(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities)
}

// Create godoc
// @Summary Create a weighted activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Router /courses/{courseId}/activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	activity, err := h.activities.Create(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Tags Activities
// @Param activityId path string true "Activity ID"
// @Success 204
// @Router /activities/{activityId} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.activities.Delete(c.Request.Context(), c.Param("activityId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Allocations godoc
// @Summary Per-corte weight allocation summary
// @Tags Activities
// @Produce json
// @Param courseId path string true "Course ID"
// @Param corte query int false "Validate a proposed weight for this corte"
// @Param percentage query number false "Proposed weight to validate"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/allocations [get]
func (h *ActivityHandler) Allocations(c *gin.Context) {
	courseID := c.Param("courseId")
	if corteRaw, ok := c.GetQuery("corte"); ok {
		corte, err := strconv.Atoi(corteRaw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corte must be an integer"))
			return
		}
		proposed, err := strconv.ParseFloat(c.Query("percentage"), 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "percentage must be a number"))
			return
		}
		if err := h.activities.ValidateAllocation(c.Request.Context(), courseID, corte, proposed); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"status": "accepted"})
		return
	}
	allocations, err := h.activities.Allocations(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations)
}
