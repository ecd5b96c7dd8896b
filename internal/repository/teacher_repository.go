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

// TeacherRepository manages persistence for teacher records and their
// skill links.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns the teacher list projection.
func (r *TeacherRepository) List(ctx context.Context) ([]models.TeacherListItem, error) {
	const query = `SELECT id, first_name || ' ' || last_name AS full_name, email
        FROM teachers ORDER BY created_at, id`
	teachers := []models.TeacherListItem{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher record by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, birth_date, first_name, last_name, email, phone, address, postal_code, city, created_at, updated_at
        FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindDetailByID assembles the teacher detail projection with linked
// skills and owned courses.
func (r *TeacherRepository) FindDetailByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	teacher, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := models.TeacherDetail{Teacher: *teacher, Skills: []models.Skill{}, Courses: []models.TeacherCourse{}}

	const skillQuery = `SELECT s.id, s.name, s.created_at
        FROM teacher_skills ts
        JOIN skills s ON s.id = ts.skill_id
        WHERE ts.teacher_id = $1
        ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &detail.Skills, skillQuery, id); err != nil {
		return nil, fmt.Errorf("load teacher skills: %w", err)
	}

	const courseQuery = `SELECT id, title FROM courses WHERE teacher_id = $1 ORDER BY start_date, id`
	if err := r.db.SelectContext(ctx, &detail.Courses, courseQuery, id); err != nil {
		return nil, fmt.Errorf("load teacher courses: %w", err)
	}
	return &detail, nil
}

// ExistsByEmail checks for a teacher with the email, case-insensitively,
// optionally excluding an ID.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE LOWER(email) = LOWER($1)"
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
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return true, nil
}

// Create inserts a teacher and links the given skill names in one
// transaction. Names are trimmed and matched case-insensitively; an
// existing skill is reused, a new one is created otherwise, and a name
// resolving to an already linked skill is linked only once.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher, skillNames []string) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertTeacher = `INSERT INTO teachers (id, birth_date, first_name, last_name, email, phone, address, postal_code, city, created_at, updated_at)
        VALUES (:id, :birth_date, :first_name, :last_name, :email, :phone, :address, :postal_code, :city, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertTeacher, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	linked := make(map[string]bool, len(skillNames))
	for _, raw := range skillNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		var skillID string
		skillID, err = resolveSkillTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if linked[skillID] {
			continue
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO teacher_skills (teacher_id, skill_id) VALUES ($1, $2)`, teacher.ID, skillID); err != nil {
			return fmt.Errorf("link teacher skill: %w", err)
		}
		linked[skillID] = true
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create teacher: %w", err)
	}
	return nil
}

// resolveSkillTx finds a skill by case-insensitive name within the
// transaction, creating it with the first-seen casing when absent.
func resolveSkillTx(ctx context.Context, tx *sqlx.Tx, name string) (string, error) {
	var id string
	err := tx.GetContext(ctx, &id, `SELECT id FROM skills WHERE LOWER(name) = LOWER($1) LIMIT 1`, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("find skill: %w", err)
	}
	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO skills (id, name, created_at) VALUES ($1, $2, $3)`, id, name, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("create skill: %w", err)
	}
	return id, nil
}

// Update modifies an existing teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET birth_date = :birth_date, first_name = :first_name, last_name = :last_name,
        email = :email, phone = :phone, address = :address, postal_code = :postal_code, city = :city, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes a teacher, detaching their courses and skill links in
// one transaction. Owned courses become teacherless rather than failing.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teacher_skills WHERE teacher_id = $1`, id); err != nil {
		return fmt.Errorf("unlink teacher skills: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE courses SET teacher_id = NULL WHERE teacher_id = $1`, id); err != nil {
		return fmt.Errorf("detach teacher courses: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete teacher: %w", err)
	}
	return nil
}
