package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/westcoast-edu/education-api/internal/models"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentListItem, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student, courseIDs []string) ([]string, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type enrollmentRepository interface {
	Exists(ctx context.Context, courseID, studentID string) (bool, error)
	Find(ctx context.Context, courseID, studentID string) (*models.StudentCourse, error)
	Create(ctx context.Context, enrollment *models.StudentCourse) error
	UpdateStatus(ctx context.Context, courseID, studentID string, status models.CourseStatus) error
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentCourseItem, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// PersonRequest carries the shared person fields of create/update payloads.
type PersonRequest struct {
	BirthDate  time.Time `json:"birth_date" validate:"required"`
	FirstName  string    `json:"first_name" validate:"required"`
	LastName   string    `json:"last_name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postal_code"`
	City       string    `json:"city"`
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	PersonRequest
	CourseIDs []string `json:"course_ids"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	PersonRequest
}

// ChangeEnrollmentStatusRequest carries the new per-enrollment status.
type ChangeEnrollmentStatusRequest struct {
	Status models.CourseStatus `json:"status" validate:"required"`
}

// StudentService handles student and enrollment use-cases.
type StudentService struct {
	repo        studentRepository
	enrollments enrollmentRepository
	courses     courseReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, enrollments enrollmentRepository, courses courseReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, courses: courses, validator: validate, logger: logger}
}

// List returns the student list projection.
func (s *StudentService) List(ctx context.Context) ([]models.StudentListItem, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns the student detail projection with enrollments.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	courses, err := s.enrollments.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student enrollments")
	}
	return &models.StudentDetail{Student: *student, Courses: courses}, nil
}

// Create registers a new student and enrolls them in the courses whose
// IDs resolve. Unknown IDs are skipped, not failed; each skip is logged.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	email := strings.TrimSpace(req.Email)
	exists, err := s.repo.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email is already registered")
	}
	student := &models.Student{Person: models.Person{
		BirthDate:  req.BirthDate,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      email,
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		City:       req.City,
	}}
	skipped, err := s.repo.Create(ctx, student, req.CourseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	for _, courseID := range skipped {
		s.logger.Warn("skipped unknown course on student registration",
			zap.String("student_id", student.ID),
			zap.String("course_id", courseID))
	}
	return student, nil
}

// Update overwrites the student fields in place.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	email := strings.TrimSpace(req.Email)
	exists, err := s.repo.ExistsByEmail(ctx, email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email is already registered")
	}
	student.BirthDate = req.BirthDate
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = email
	student.Phone = req.Phone
	student.Address = req.Address
	student.PostalCode = req.PostalCode
	student.City = req.City
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes the student together with their enrollment rows.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// Enroll adds the student to the course with the default status. A pair
// that already exists is rejected as a conflict.
func (s *StudentService) Enroll(ctx context.Context, studentID, courseID string) error {
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.enrollments.Exists(ctx, courseID, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "student is already enrolled in this course")
	}
	enrollment := &models.StudentCourse{CourseID: courseID, StudentID: studentID, Status: models.CourseStatusNone}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	return nil
}

// ChangeEnrollmentStatus overwrites the status of one enrollment.
func (s *StudentService) ChangeEnrollmentStatus(ctx context.Context, studentID, courseID string, req ChangeEnrollmentStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status")
	}
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.enrollments.Find(ctx, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.enrollments.UpdateStatus(ctx, courseID, studentID, req.Status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	return nil
}
