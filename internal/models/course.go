package models

import "time"

// CourseStatus describes the lifecycle of a course as well as a single
// student's progress within one (the enrollment rows reuse the enum).
type CourseStatus string

// Possible course statuses.
const (
	CourseStatusNone      CourseStatus = "NO_STATUS"
	CourseStatusFull      CourseStatus = "FULL"
	CourseStatusCompleted CourseStatus = "COMPLETED"
)

// Valid reports whether the status is one of the known enum values.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusNone, CourseStatusFull, CourseStatusCompleted:
		return true
	}
	return false
}

// Course represents a scheduled course offering. EndDate is always derived
// from StartDate and DurationWeeks, never stored independently.
type Course struct {
	ID            string       `db:"id" json:"id"`
	Title         string       `db:"title" json:"title"`
	CourseNumber  int          `db:"course_number" json:"course_number"`
	DurationWeeks int          `db:"duration_weeks" json:"duration_weeks"`
	StartDate     time.Time    `db:"start_date" json:"start_date"`
	EndDate       time.Time    `db:"end_date" json:"end_date"`
	Status        CourseStatus `db:"status" json:"status"`
	TeacherID     *string      `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// ComputeEndDate derives the course end from its start and duration.
func ComputeEndDate(start time.Time, durationWeeks int) time.Time {
	return start.AddDate(0, 0, durationWeeks*7)
}

// CourseListItem is the list projection: course summary plus one level of
// related names. Students is filled from the enrollment rows after the
// flat select.
type CourseListItem struct {
	ID          string                 `db:"id" json:"id"`
	Title       string                 `db:"title" json:"title"`
	StartDate   time.Time              `db:"start_date" json:"start_date"`
	TeacherName *string                `db:"teacher_name" json:"teacher_name,omitempty"`
	Students    []CourseStudentSummary `json:"students"`
}

// CourseStudentSummary names one enrolled student in a course list entry.
type CourseStudentSummary struct {
	StudentID string `db:"student_id" json:"student_id"`
	Name      string `db:"name" json:"name"`
}

// CourseTeacher is the nested teacher shape inside a course detail.
type CourseTeacher struct {
	ID        string `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
}

// CourseStudent is an enrolled student annotated with that enrollment's
// status, as rendered inside a course detail.
type CourseStudent struct {
	ID        string       `db:"id" json:"id"`
	FirstName string       `db:"first_name" json:"first_name"`
	LastName  string       `db:"last_name" json:"last_name"`
	Email     string       `db:"email" json:"email"`
	Phone     string       `db:"phone" json:"phone"`
	Status    CourseStatus `db:"status" json:"status"`
}

// CourseDetail is the detail projection for a single course.
type CourseDetail struct {
	Course
	Teacher  *CourseTeacher  `json:"teacher"`
	Students []CourseStudent `json:"students"`
}
