package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westcoast-edu/education-api/internal/models"
	"github.com/westcoast-edu/education-api/internal/service"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
)

type courseServiceMock struct {
	listResp      []models.CourseListItem
	listErr       error
	getResp       *models.CourseDetail
	getErr        error
	byNumberResp  *models.Course
	byNumberErr   error
	createResp    *models.Course
	createErr     error
	updateResp    *models.Course
	updateErr     error
	statusErr     error
	assignErr     error
	deleteErr     error
	lastNumber    int
	createCalled  bool
	assignCalled  bool
	markedFull    []string
	markedDone    []string
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.CourseListItem, error) {
	return m.listResp, m.listErr
}

func (m *courseServiceMock) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	return m.getResp, m.getErr
}

func (m *courseServiceMock) GetByNumber(ctx context.Context, number int) (*models.Course, error) {
	m.lastNumber = number
	return m.byNumberResp, m.byNumberErr
}

func (m *courseServiceMock) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	return m.byNumberResp, m.byNumberErr
}

func (m *courseServiceMock) GetByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error) {
	return m.byNumberResp, m.byNumberErr
}

func (m *courseServiceMock) Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	m.createCalled = true
	return m.createResp, m.createErr
}

func (m *courseServiceMock) Update(ctx context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error) {
	return m.updateResp, m.updateErr
}

func (m *courseServiceMock) MarkFull(ctx context.Context, id string) error {
	m.markedFull = append(m.markedFull, id)
	return m.statusErr
}

func (m *courseServiceMock) MarkCompleted(ctx context.Context, id string) error {
	m.markedDone = append(m.markedDone, id)
	return m.statusErr
}

func (m *courseServiceMock) AssignTeacher(ctx context.Context, courseID, teacherID string) error {
	m.assignCalled = true
	return m.assignErr
}

func (m *courseServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

type rosterExporterMock struct {
	resp *service.RosterExport
	err  error
}

func (m *rosterExporterMock) Roster(ctx context.Context, courseID, format string) (*service.RosterExport, error) {
	return m.resp, m.err
}

func TestCourseHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{listResp: []models.CourseListItem{{ID: "c1", Title: "Go Fundamentals"}}}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go Fundamentals")
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{getErr: appErrors.ErrNotFound}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerSearchByNumber(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{byNumberResp: &models.Course{ID: "c1", CourseNumber: 120}}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/search?number=120", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 120, mockSvc.lastNumber)
}

func TestCourseHandlerSearchWithoutCriteria(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{}, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/search", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerSearchBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{}, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/search?startDate=01-01-2024", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{createResp: &models.Course{ID: "c1", Title: "Go Fundamentals"}}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	payload, _ := json.Marshal(service.CreateCourseRequest{
		Title:         "Go Fundamentals",
		CourseNumber:  120,
		DurationWeeks: 4,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/courses/c1", w.Header().Get("Location"))
	assert.True(t, mockSvc.createCalled)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{}, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerMarkFull(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/courses/c1/full", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.MarkFull(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"c1"}, mockSvc.markedFull)
}

func TestCourseHandlerAssignTeacherConflictPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{assignErr: appErrors.ErrNotFound}
	handler := NewCourseHandler(mockSvc, &rosterExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/courses/c1/teacher/t1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}, {Key: "teacherId", Value: "t1"}}

	handler.AssignTeacher(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, mockSvc.assignCalled)
}

func TestCourseHandlerExportRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &rosterExporterMock{resp: &service.RosterExport{
		Content:     []byte("Student,Email,Phone,Status\n"),
		ContentType: "text/csv",
		Filename:    "roster-120.csv",
	}}
	handler := NewCourseHandler(&courseServiceMock{}, exporter)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/c1/roster/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.ExportRoster(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "roster-120.csv")
}
