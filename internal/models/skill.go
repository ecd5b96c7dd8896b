package models

import "time"

// Skill is a teachable competence. Names are unique case-insensitively;
// linking a skill to a teacher always reuses an existing name match.
type Skill struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
