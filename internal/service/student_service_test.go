package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/westcoast-edu/education-api/internal/models"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
)

type mockStudentRepo struct {
	students      map[string]models.Student
	emails        map[string]string // lowercased email -> student id
	skippedOnNext []string
	lastCourseIDs []string
	deleted       []string
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.StudentListItem, error) {
	items := make([]models.StudentListItem, 0, len(m.students))
	for _, s := range m.students {
		items = append(items, models.StudentListItem{ID: s.ID, FullName: s.FullName(), Email: s.Email})
	}
	return items, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	if id, ok := m.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
		if excludeID == "" || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student, courseIDs []string) ([]string, error) {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	m.students[student.ID] = *student
	m.lastCourseIDs = courseIDs
	return m.skippedOnNext, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockEnrollmentRepo struct {
	pairs    map[string]models.StudentCourse // courseID|studentID
	byStudent map[string][]models.StudentCourseItem
	created  []models.StudentCourse
	statuses map[string]models.CourseStatus
}

func pairKey(courseID, studentID string) string {
	return courseID + "|" + studentID
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	_, ok := m.pairs[pairKey(courseID, studentID)]
	return ok, nil
}

func (m *mockEnrollmentRepo) Find(ctx context.Context, courseID, studentID string) (*models.StudentCourse, error) {
	if e, ok := m.pairs[pairKey(courseID, studentID)]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.StudentCourse) error {
	if m.pairs == nil {
		m.pairs = make(map[string]models.StudentCourse)
	}
	m.pairs[pairKey(enrollment.CourseID, enrollment.StudentID)] = *enrollment
	m.created = append(m.created, *enrollment)
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, courseID, studentID string, status models.CourseStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.CourseStatus)
	}
	m.statuses[pairKey(courseID, studentID)] = status
	return nil
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentCourseItem, error) {
	items := m.byStudent[studentID]
	if items == nil {
		items = []models.StudentCourseItem{}
	}
	return items, nil
}

type mockCourseReader struct {
	courses map[string]models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func newStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{PersonRequest: PersonRequest{
		BirthDate: time.Date(2000, 5, 20, 0, 0, 0, 0, time.UTC),
		FirstName: "John",
		LastName:  "Smith",
		Email:     "john@example.com",
	}}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{emails: make(map[string]string)}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	req := newStudentRequest()
	req.Email = " john@example.com "
	req.CourseIDs = []string{"course-1"}

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "john@example.com", student.Email)
	assert.Equal(t, []string{"course-1"}, repo.lastCourseIDs)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockStudentRepo{emails: map[string]string{"john@example.com": "other"}}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), newStudentRequest())
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestStudentServiceCreateSkippedCoursesDoNotFail(t *testing.T) {
	repo := &mockStudentRepo{emails: make(map[string]string), skippedOnNext: []string{"ghost"}}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	req := newStudentRequest()
	req.CourseIDs = []string{"course-1", "ghost"}

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
}

func TestStudentServiceGetWithEnrollments(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1", FirstName: "John", LastName: "Smith"}}}}
	enrollments := &mockEnrollmentRepo{byStudent: map[string][]models.StudentCourseItem{
		"s1": {{CourseID: "c1", Title: "Go Fundamentals", Status: models.CourseStatusNone}},
	}}
	svc := NewStudentService(repo, enrollments, &mockCourseReader{}, validator.New(), zap.NewNop())

	detail, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, "Go Fundamentals", detail.Courses[0].Title)
}

func TestStudentServiceEnroll(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	enrollments := &mockEnrollmentRepo{}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	svc := NewStudentService(repo, enrollments, courses, validator.New(), zap.NewNop())

	require.NoError(t, svc.Enroll(context.Background(), "s1", "c1"))
	require.Len(t, enrollments.created, 1)
	assert.Equal(t, models.CourseStatusNone, enrollments.created[0].Status)
}

func TestStudentServiceEnrollTwiceConflicts(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	enrollments := &mockEnrollmentRepo{pairs: map[string]models.StudentCourse{
		pairKey("c1", "s1"): {CourseID: "c1", StudentID: "s1", Status: models.CourseStatusNone},
	}}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	svc := NewStudentService(repo, enrollments, courses, validator.New(), zap.NewNop())

	err := svc.Enroll(context.Background(), "s1", "c1")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestStudentServiceEnrollUnknownCourse(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	err := svc.Enroll(context.Background(), "s1", "ghost")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceChangeEnrollmentStatus(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	enrollments := &mockEnrollmentRepo{pairs: map[string]models.StudentCourse{
		pairKey("c1", "s1"): {CourseID: "c1", StudentID: "s1", Status: models.CourseStatusNone},
	}}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	svc := NewStudentService(repo, enrollments, courses, validator.New(), zap.NewNop())

	err := svc.ChangeEnrollmentStatus(context.Background(), "s1", "c1", ChangeEnrollmentStatusRequest{Status: models.CourseStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusCompleted, enrollments.statuses[pairKey("c1", "s1")])
}

func TestStudentServiceChangeEnrollmentStatusUnknownValue(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	err := svc.ChangeEnrollmentStatus(context.Background(), "s1", "c1", ChangeEnrollmentStatusRequest{Status: "PAUSED"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestStudentServiceChangeEnrollmentStatusNotEnrolled(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, courses, validator.New(), zap.NewNop())

	err := svc.ChangeEnrollmentStatus(context.Background(), "s1", "c1", ChangeEnrollmentStatusRequest{Status: models.CourseStatusFull})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := NewStudentService(repo, &mockEnrollmentRepo{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Contains(t, repo.deleted, "s1")

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
