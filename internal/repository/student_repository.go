package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/westcoast-edu/education-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns the student list projection.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentListItem, error) {
	const query = `SELECT id, first_name || ' ' || last_name AS full_name, email
        FROM students ORDER BY created_at, id`
	students := []models.StudentListItem{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student record by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, birth_date, first_name, last_name, email, phone, address, postal_code, city, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks for a student with the email, case-insensitively,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{strings.TrimSpace(email)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// Create inserts a student and enrolls them in the courses whose IDs
// resolve, all in one transaction. IDs that do not resolve are returned
// as skipped rather than failing the registration.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, courseIDs []string) ([]string, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertStudent = `INSERT INTO students (id, birth_date, first_name, last_name, email, phone, address, postal_code, city, created_at, updated_at)
        VALUES (:id, :birth_date, :first_name, :last_name, :email, :phone, :address, :postal_code, :city, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertStudent, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	var skipped []string
	enrolled := make(map[string]bool, len(courseIDs))
	for _, courseID := range courseIDs {
		if courseID == "" || enrolled[courseID] {
			continue
		}
		var exists int
		err = tx.GetContext(ctx, &exists, `SELECT 1 FROM courses WHERE id = $1 LIMIT 1`, courseID)
		if err == sql.ErrNoRows {
			err = nil
			skipped = append(skipped, courseID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve course: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO student_courses (course_id, student_id, status) VALUES ($1, $2, $3)`,
			courseID, student.ID, models.CourseStatusNone); err != nil {
			return nil, fmt.Errorf("enroll student: %w", err)
		}
		enrolled[courseID] = true
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create student: %w", err)
	}
	return skipped, nil
}

// Update modifies an existing student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET birth_date = :birth_date, first_name = :first_name, last_name = :last_name,
        email = :email, phone = :phone, address = :address, postal_code = :postal_code, city = :city, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student and their enrollment rows in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student_courses WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student enrollments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}
