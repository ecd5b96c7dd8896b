package models

// Teacher represents an instructor record.
type Teacher struct {
	Person
}

// TeacherListItem is the teacher list projection.
type TeacherListItem struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

// TeacherCourse summarises a course owned by a teacher.
type TeacherCourse struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}

// TeacherDetail is the detail projection with linked skills and courses.
type TeacherDetail struct {
	Teacher
	Skills  []Skill         `json:"skills"`
	Courses []TeacherCourse `json:"courses"`
}
