package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/westcoast-edu/education-api/internal/models"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
)

type mockCourseRepo struct {
	courses     map[string]models.Course
	taken       map[string]string // "number|date" -> course id
	statuses    map[string]models.CourseStatus
	assigned    map[string]string
	deleted     []string
	listItems   []models.CourseListItem
	err         error
}

func takenKey(number int, startDate time.Time) string {
	return fmt.Sprintf("%d|%s", number, startDate.Format("2006-01-02"))
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.CourseListItem, error) {
	return m.listItems, m.err
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return &models.CourseDetail{Course: c, Students: []models.CourseStudent{}}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByNumberAndDate(ctx context.Context, number int, startDate time.Time, excludeID string) (bool, error) {
	if id, ok := m.taken[takenKey(number, startDate)]; ok {
		if excludeID == "" || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) FindFirstByNumber(ctx context.Context, number int) (*models.Course, error) {
	for _, c := range m.courses {
		if c.CourseNumber == number {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindFirstByTitle(ctx context.Context, title string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.Title == title {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindFirstByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error) {
	for _, c := range m.courses {
		if c.StartDate.Equal(startDate) {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	if course.ID == "" {
		course.ID = "generated"
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.CourseStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockCourseRepo) AssignTeacher(ctx context.Context, courseID, teacherID string) error {
	if m.assigned == nil {
		m.assigned = make(map[string]string)
	}
	m.assigned[courseID] = teacherID
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTeacherReader struct {
	teachers map[string]models.Teacher
}

func (m *mockTeacherReader) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func TestCourseServiceCreateComputesEndDate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, &mockTeacherReader{}, validator.New(), zap.NewNop())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Title:         "Go Fundamentals",
		CourseNumber:  120,
		DurationWeeks: 4,
		StartDate:     start,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), course.EndDate)
	assert.Equal(t, models.CourseStatusNone, course.Status)
	assert.NotEmpty(t, course.ID)
}

func TestCourseServiceCreateDuplicateNumberAndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockCourseRepo{taken: map[string]string{takenKey(120, start): "existing"}}
	svc := NewCourseService(repo, &mockTeacherReader{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Title:         "Go Fundamentals",
		CourseNumber:  120,
		DurationWeeks: 4,
		StartDate:     start,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestCourseServiceCreateInvalidPayload(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherReader{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{Title: "No number"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestCourseServiceUpdateRecomputesEndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockCourseRepo{courses: map[string]models.Course{"id1": {
		ID: "id1", Title: "Go", CourseNumber: 120, DurationWeeks: 4,
		StartDate: start, EndDate: models.ComputeEndDate(start, 4),
		Status: models.CourseStatusFull,
	}}}
	svc := NewCourseService(repo, &mockTeacherReader{}, validator.New(), zap.NewNop())

	newStart := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), "id1", UpdateCourseRequest{
		Title:         "Go, revised",
		CourseNumber:  121,
		DurationWeeks: 6,
		StartDate:     newStart,
	})
	require.NoError(t, err)
	assert.Equal(t, newStart.AddDate(0, 0, 42), updated.EndDate)
	assert.Equal(t, models.CourseStatusFull, updated.Status)
}

func TestCourseServiceUpdateNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherReader{}, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateCourseRequest{
		Title: "X", CourseNumber: 1, DurationWeeks: 1, StartDate: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCourseServiceMarkFull(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"id1": {ID: "id1"}}}
	svc := NewCourseService(repo, &mockTeacherReader{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.MarkFull(context.Background(), "id1"))
	assert.Equal(t, models.CourseStatusFull, repo.statuses["id1"])

	// marking again is a no-op, not an error
	require.NoError(t, svc.MarkFull(context.Background(), "id1"))
}

func TestCourseServiceMarkCompletedNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherReader{}, validator.New(), zap.NewNop())

	err := svc.MarkCompleted(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCourseServiceAssignTeacher(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"id1": {ID: "id1"}}}
	teachers := &mockTeacherReader{teachers: map[string]models.Teacher{"t1": {Person: models.Person{ID: "t1"}}}}
	svc := NewCourseService(repo, teachers, validator.New(), zap.NewNop())

	require.NoError(t, svc.AssignTeacher(context.Background(), "id1", "t1"))
	assert.Equal(t, "t1", repo.assigned["id1"])

	err := svc.AssignTeacher(context.Background(), "id1", "ghost")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCourseServiceDelete(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"id1": {ID: "id1"}}}
	svc := NewCourseService(repo, &mockTeacherReader{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "id1"))
	assert.Contains(t, repo.deleted, "id1")
}

func TestCourseServiceGetByNumberNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherReader{}, validator.New(), zap.NewNop())

	_, err := svc.GetByNumber(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
