package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusoft-co/gradebook-api/internal/models"
	"github.com/edusoft-co/gradebook-api/internal/service"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
)

type gradeServiceMock struct {
	submitResp *models.CourseGrade
	submitErr  error
	settled    int
	boardResp  []models.CourseGrade
}

func (m *gradeServiceMock) SubmitScore(ctx context.Context, req service.SubmitScoreRequest) (*models.CourseGrade, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitResp, nil
}

func (m *gradeServiceMock) SettleAll(ctx context.Context, courseID string) (int, error) {
	return m.settled, nil
}

func (m *gradeServiceMock) Board(ctx context.Context, courseID string) ([]models.CourseGrade, error) {
	return m.boardResp, nil
}

func (m *gradeServiceMock) StudentGrade(ctx context.Context, courseID, studentID string) (*models.CourseGrade, error) {
	if m.submitResp == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no grade recorded for student")
	}
	return m.submitResp, nil
}

type exportServiceMock struct {
	result *service.ExportResult
	err    error
}

func (m *exportServiceMock) ExportBoard(ctx context.Context, courseID, format string) (*service.ExportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestGradeHandlerSubmitScore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	corte1 := 4.5
	handler := NewGradeHandler(&gradeServiceMock{submitResp: &models.CourseGrade{EnrollmentID: "en1", Corte1: &corte1}}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 4.5})
	req, _ := http.NewRequest(http.MethodPost, "/scores", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SubmitScore(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "en1")
}

func TestGradeHandlerSubmitScoreInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradeHandler(&gradeServiceMock{}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scores", bytes.NewReader([]byte(`{"score":"abc"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SubmitScore(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradeHandlerSubmitScoreValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradeHandler(&gradeServiceMock{submitErr: appErrors.Clone(appErrors.ErrValidation, "score must be between 0 and 5")}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.SubmitScoreRequest{ActivityID: "a1", StudentID: "stu1", Score: 5.1})
	req, _ := http.NewRequest(http.MethodPost, "/scores", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SubmitScore(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGradeHandlerSettle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradeHandler(&gradeServiceMock{settled: 12}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/grades/settle", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}

	handler.Settle(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"students":12`)
}

func TestGradeHandlerStudentGradeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradeHandler(&gradeServiceMock{}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/course-1/students/ghost/grade", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}, {Key: "studentId", Value: "ghost"}}

	handler.StudentGrade(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradeHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradeHandler(&gradeServiceMock{}, &exportServiceMock{result: &service.ExportResult{
		Content:     []byte("Student,Final\n"),
		ContentType: "text/csv",
		Filename:    "grade-sheet-course-1.csv",
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/course-1/grades/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "grade-sheet-course-1.csv")
}
