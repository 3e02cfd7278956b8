package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusoft-co/gradebook-api/internal/models"
	"github.com/edusoft-co/gradebook-api/internal/service"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
	"github.com/edusoft-co/gradebook-api/pkg/response"
)

type gradeService interface {
	SubmitScore(ctx context.Context, req service.SubmitScoreRequest) (*models.CourseGrade, error)
	SettleAll(ctx context.Context, courseID string) (int, error)
	Board(ctx context.Context, courseID string) ([]models.CourseGrade, error)
	StudentGrade(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error)
}

type exportService interface {
	ExportBoard(ctx context.Context, courseID, format string) (*service.ExportResult, error)
}

// GradeHandler exposes score submission and derived grade endpoints.
type GradeHandler struct {
	grades  gradeService
	exports exportService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades gradeService, exports exportService) *GradeHandler {
	return &GradeHandler{grades: grades, exports: exports}
}

// SubmitScore godoc
// @Summary Submit a score for one activity and student
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.SubmitScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Router /scores [post]
func (h *GradeHandler) SubmitScore(c *gin.Context) {
	var req service.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.SubmitScore(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// Settle godoc
// @Summary Recompute grades for every enrolled student
// @Tags Grades
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/grades/settle [post]
func (h *GradeHandler) Settle(c *gin.Context) {
	settled, err := h.grades.SettleAll(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "settled", "students": settled})
}

// Board godoc
// @Summary Course grade board
// @Tags Grades
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/grades [get]
func (h *GradeHandler) Board(c *gin.Context) {
	grades, err := h.grades.Board(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// StudentGrade godoc
// @Summary One student's derived grades in a course
// @Tags Grades
// @Produce json
// @Param courseId path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/students/{studentId}/grade [get]
func (h *GradeHandler) StudentGrade(c *gin.Context) {
	grade, err := h.grades.StudentGrade(c.Request.Context(), c.Param("courseId"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// Export godoc
// @Summary Export the course grade sheet
// @Tags Grades
// @Produce text/csv
// @Produce application/pdf
// @Param courseId path string true "Course ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /courses/{courseId}/grades/export [get]
func (h *GradeHandler) Export(c *gin.Context) {
	result, err := h.exports.ExportBoard(c.Request.Context(), c.Param("courseId"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
