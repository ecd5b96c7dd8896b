package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/westcoast-edu/education-api/internal/models"
)

// EnrollmentRepository handles persistence of the student_courses junction.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists checks whether the (course, student) pair is already enrolled.
func (r *EnrollmentRepository) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `SELECT 1 FROM student_courses WHERE course_id = $1 AND student_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Find returns the enrollment row for the pair.
func (r *EnrollmentRepository) Find(ctx context.Context, courseID, studentID string) (*models.StudentCourse, error) {
	const query = `SELECT course_id, student_id, status FROM student_courses WHERE course_id = $1 AND student_id = $2`
	var enrollment models.StudentCourse
	if err := r.db.GetContext(ctx, &enrollment, query, courseID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create persists a new enrollment row.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.StudentCourse) error {
	if enrollment.Status == "" {
		enrollment.Status = models.CourseStatusNone
	}
	const query = `INSERT INTO student_courses (course_id, student_id, status)
        VALUES (:course_id, :student_id, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status of one enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, courseID, studentID string, status models.CourseStatus) error {
	const query = `UPDATE student_courses SET status = $3 WHERE course_id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, courseID, studentID, status); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

// ListByStudent returns the student's enrollments with course titles.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentCourseItem, error) {
	const query = `SELECT sc.course_id, c.title, sc.status
        FROM student_courses sc
        JOIN courses c ON c.id = sc.course_id
        WHERE sc.student_id = $1
        ORDER BY c.start_date, c.id`
	items := []models.StudentCourseItem{}
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return items, nil
}
