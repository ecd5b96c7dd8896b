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

// SkillRepository manages persistence for skill records.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs a SkillRepository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// List returns all skills.
func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	const query = `SELECT id, name, created_at FROM skills ORDER BY created_at, id`
	skills := []models.Skill{}
	if err := r.db.SelectContext(ctx, &skills, query); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// FindByID fetches a skill by ID.
func (r *SkillRepository) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	const query = `SELECT id, name, created_at FROM skills WHERE id = $1`
	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, query, id); err != nil {
		return nil, err
	}
	return &skill, nil
}

// ExistsByName checks for a skill name, case-insensitively, optionally
// excluding an ID.
func (r *SkillRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM skills WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check skill name: %w", err)
	}
	return true, nil
}

// Create inserts a new skill record.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if skill.ID == "" {
		skill.ID = uuid.NewString()
	}
	if skill.CreatedAt.IsZero() {
		skill.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO skills (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, skill); err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

// Update renames an existing skill.
func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	const query = `UPDATE skills SET name = :name WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, skill); err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return nil
}

// Delete removes a skill and its teacher links in one transaction.
func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete skill: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teacher_skills WHERE skill_id = $1`, id); err != nil {
		return fmt.Errorf("unlink skill teachers: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete skill: %w", err)
	}
	return nil
}
