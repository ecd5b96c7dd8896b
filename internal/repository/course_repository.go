package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/westcoast-edu/education-api/internal/models"
)

// CourseRepository manages persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseStudentRow struct {
	CourseID string `db:"course_id"`
	models.CourseStudentSummary
}

// List returns the course list projection: one flat select for the courses
// joined with their teacher's name, one for the enrolled student names,
// grouped in memory.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseListItem, error) {
	const query = `SELECT c.id, c.title, c.start_date, t.first_name || ' ' || t.last_name AS teacher_name
        FROM courses c
        LEFT JOIN teachers t ON t.id = c.teacher_id
        ORDER BY c.created_at, c.id`
	var courses []models.CourseListItem
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	const studentQuery = `SELECT sc.course_id, sc.student_id, s.first_name || ' ' || s.last_name AS name
        FROM student_courses sc
        JOIN students s ON s.id = sc.student_id`
	var rows []courseStudentRow
	if err := r.db.SelectContext(ctx, &rows, studentQuery); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}

	byCourse := make(map[string][]models.CourseStudentSummary, len(courses))
	for _, row := range rows {
		byCourse[row.CourseID] = append(byCourse[row.CourseID], row.CourseStudentSummary)
	}
	for i := range courses {
		students := byCourse[courses[i].ID]
		if students == nil {
			students = []models.CourseStudentSummary{}
		}
		courses[i].Students = students
	}
	return courses, nil
}

// FindByID fetches a course record by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, course_number, duration_weeks, start_date, end_date, status, teacher_id, created_at, updated_at
        FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID assembles the course detail projection: full course fields,
// nested teacher detail when assigned, and each enrolled student with that
// enrollment's status.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := models.CourseDetail{Course: *course, Students: []models.CourseStudent{}}

	if course.TeacherID != nil {
		const teacherQuery = `SELECT id, first_name, last_name, email, phone FROM teachers WHERE id = $1`
		var teacher models.CourseTeacher
		if err := r.db.GetContext(ctx, &teacher, teacherQuery, *course.TeacherID); err != nil {
			if err != sql.ErrNoRows {
				return nil, fmt.Errorf("load course teacher: %w", err)
			}
		} else {
			detail.Teacher = &teacher
		}
	}

	const studentQuery = `SELECT s.id, s.first_name, s.last_name, s.email, s.phone, sc.status
        FROM student_courses sc
        JOIN students s ON s.id = sc.student_id
        WHERE sc.course_id = $1
        ORDER BY s.last_name, s.first_name`
	if err := r.db.SelectContext(ctx, &detail.Students, studentQuery, id); err != nil {
		return nil, fmt.Errorf("load course students: %w", err)
	}
	return &detail, nil
}

// ExistsByNumberAndDate checks the (course number, start date) natural key,
// optionally excluding an ID.
func (r *CourseRepository) ExistsByNumberAndDate(ctx context.Context, number int, startDate time.Time, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE course_number = $1 AND start_date = $2"
	args := []interface{}{number, startDate}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course number: %w", err)
	}
	return true, nil
}

// FindFirstByNumber returns the oldest course carrying the number.
func (r *CourseRepository) FindFirstByNumber(ctx context.Context, number int) (*models.Course, error) {
	const query = `SELECT id, title, course_number, duration_weeks, start_date, end_date, status, teacher_id, created_at, updated_at
        FROM courses WHERE course_number = $1 ORDER BY created_at, id LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, number); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindFirstByTitle returns the oldest course with an exact title match.
func (r *CourseRepository) FindFirstByTitle(ctx context.Context, title string) (*models.Course, error) {
	const query = `SELECT id, title, course_number, duration_weeks, start_date, end_date, status, teacher_id, created_at, updated_at
        FROM courses WHERE title = $1 ORDER BY created_at, id LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, title); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindFirstByStartDate returns the oldest course starting on the date.
func (r *CourseRepository) FindFirstByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error) {
	const query = `SELECT id, title, course_number, duration_weeks, start_date, end_date, status, teacher_id, created_at, updated_at
        FROM courses WHERE start_date = $1 ORDER BY created_at, id LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, startDate); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Status == "" {
		course.Status = models.CourseStatusNone
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, course_number, duration_weeks, start_date, end_date, status, teacher_id, created_at, updated_at)
        VALUES (:id, :title, :course_number, :duration_weeks, :start_date, :end_date, :status, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course in place.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, course_number = :course_number, duration_weeks = :duration_weeks,
        start_date = :start_date, end_date = :end_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// UpdateStatus sets the course status.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error {
	const query = `UPDATE courses SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update course status: %w", err)
	}
	return nil
}

// AssignTeacher sets the course's teacher reference, replacing any prior one.
func (r *CourseRepository) AssignTeacher(ctx context.Context, courseID, teacherID string) error {
	const query = `UPDATE courses SET teacher_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID, teacherID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign course teacher: %w", err)
	}
	return nil
}

// Delete removes a course and its enrollment rows in one transaction.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student_courses WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course enrollments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}
