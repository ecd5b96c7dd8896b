package models

// Student represents a learner registered in the institution.
type Student struct {
	Person
}

// StudentListItem is the student list projection.
type StudentListItem struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

// StudentCourseItem is one enrollment as seen from the student side.
type StudentCourseItem struct {
	CourseID string       `db:"course_id" json:"course_id"`
	Title    string       `db:"title" json:"title"`
	Status   CourseStatus `db:"status" json:"status"`
}

// StudentDetail is the detail projection with the student's enrollments.
type StudentDetail struct {
	Student
	Courses []StudentCourseItem `json:"courses"`
}
