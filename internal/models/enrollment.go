package models

// StudentCourse is the enrollment junction row. Its identity is the
// (course, student) pair; a student enrolls in a given course at most once.
// Status is scoped to the enrollment and independent of Course.Status.
type StudentCourse struct {
	CourseID  string       `db:"course_id" json:"course_id"`
	StudentID string       `db:"student_id" json:"student_id"`
	Status    CourseStatus `db:"status" json:"status"`
}
