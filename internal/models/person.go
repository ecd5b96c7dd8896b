package models

import "time"

// Person carries the identity fields shared by teachers and students.
// It is embedded by both record types and flattened by sqlx; the two
// populations live in separate tables and never mix.
type Person struct {
	ID         string    `db:"id" json:"id"`
	BirthDate  time.Time `db:"birth_date" json:"birth_date"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	Address    string    `db:"address" json:"address"`
	PostalCode string    `db:"postal_code" json:"postal_code"`
	City       string    `db:"city" json:"city"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name used by list projections.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}
