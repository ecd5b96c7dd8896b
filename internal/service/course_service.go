package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/westcoast-edu/education-api/internal/models"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseListItem, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ExistsByNumberAndDate(ctx context.Context, number int, startDate time.Time, excludeID string) (bool, error)
	FindFirstByNumber(ctx context.Context, number int) (*models.Course, error)
	FindFirstByTitle(ctx context.Context, title string) (*models.Course, error)
	FindFirstByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error
	AssignTeacher(ctx context.Context, courseID, teacherID string) error
	Delete(ctx context.Context, id string) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Title         string    `json:"title" validate:"required"`
	CourseNumber  int       `json:"course_number" validate:"required,gt=0"`
	DurationWeeks int       `json:"duration_weeks" validate:"required,gt=0"`
	StartDate     time.Time `json:"start_date" validate:"required"`
}

// UpdateCourseRequest holds payload for updating courses.
type UpdateCourseRequest struct {
	Title         string    `json:"title" validate:"required"`
	CourseNumber  int       `json:"course_number" validate:"required,gt=0"`
	DurationWeeks int       `json:"duration_weeks" validate:"required,gt=0"`
	StartDate     time.Time `json:"start_date" validate:"required"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	teachers  teacherReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, teachers teacherReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// List returns the course list projection.
func (s *CourseService) List(ctx context.Context) ([]models.CourseListItem, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns the course detail projection.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return detail, nil
}

// GetByNumber resolves a course by its number, oldest match first.
func (s *CourseService) GetByNumber(ctx context.Context, number int) (*models.Course, error) {
	course, err := s.repo.FindFirstByNumber(ctx, number)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// GetByTitle resolves a course by exact title, oldest match first.
func (s *CourseService) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	course, err := s.repo.FindFirstByTitle(ctx, title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// GetByStartDate resolves a course by start date, oldest match first.
func (s *CourseService) GetByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error) {
	course, err := s.repo.FindFirstByStartDate(ctx, startDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course. The (number, start date) pair must be
// unique; the end date is derived from start date and duration.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	exists, err := s.repo.ExistsByNumberAndDate(ctx, req.CourseNumber, req.StartDate, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a course with this number and start date already exists")
	}
	course := &models.Course{
		Title:         req.Title,
		CourseNumber:  req.CourseNumber,
		DurationWeeks: req.DurationWeeks,
		StartDate:     req.StartDate,
		EndDate:       models.ComputeEndDate(req.StartDate, req.DurationWeeks),
		Status:        models.CourseStatusNone,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update overwrites the course fields in place, recomputing the end date
// from the incoming start date and duration.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.repo.ExistsByNumberAndDate(ctx, req.CourseNumber, req.StartDate, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a course with this number and start date already exists")
	}
	course.Title = req.Title
	course.CourseNumber = req.CourseNumber
	course.DurationWeeks = req.DurationWeeks
	course.StartDate = req.StartDate
	course.EndDate = models.ComputeEndDate(req.StartDate, req.DurationWeeks)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// MarkFull sets the course status to FULL. Idempotent.
func (s *CourseService) MarkFull(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.CourseStatusFull)
}

// MarkCompleted sets the course status to COMPLETED. Idempotent.
func (s *CourseService) MarkCompleted(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.CourseStatusCompleted)
}

func (s *CourseService) setStatus(ctx context.Context, id string, status models.CourseStatus) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	return nil
}

// AssignTeacher sets the course's teacher, replacing any prior assignment.
func (s *CourseService) AssignTeacher(ctx context.Context, courseID, teacherID string) error {
	if _, err := s.repo.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.repo.AssignTeacher(ctx, courseID, teacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign teacher")
	}
	return nil
}

// Delete removes the course together with its enrollment rows.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}
