// Command seed creates the database schema and loads a small demo
// dataset: a teacher with two skills, two courses and two students with
// enrollments.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/westcoast-edu/education-api/internal/models"
	"github.com/westcoast-edu/education-api/internal/repository"
	"github.com/westcoast-edu/education-api/pkg/config"
	"github.com/westcoast-edu/education-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS teachers (
    id          TEXT PRIMARY KEY,
    birth_date  TIMESTAMPTZ NOT NULL,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    email       TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    city        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS teachers_email_key ON teachers (LOWER(email));

CREATE TABLE IF NOT EXISTS students (
    id          TEXT PRIMARY KEY,
    birth_date  TIMESTAMPTZ NOT NULL,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    email       TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    city        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS students_email_key ON students (LOWER(email));

CREATE TABLE IF NOT EXISTS courses (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    course_number  INTEGER NOT NULL,
    duration_weeks INTEGER NOT NULL,
    start_date     TIMESTAMPTZ NOT NULL,
    end_date       TIMESTAMPTZ NOT NULL,
    status         TEXT NOT NULL DEFAULT 'NO_STATUS',
    teacher_id     TEXT REFERENCES teachers (id),
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL,
    UNIQUE (course_number, start_date)
);

CREATE TABLE IF NOT EXISTS skills (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS skills_name_key ON skills (LOWER(name));

CREATE TABLE IF NOT EXISTS teacher_skills (
    teacher_id TEXT NOT NULL REFERENCES teachers (id),
    skill_id   TEXT NOT NULL REFERENCES skills (id),
    PRIMARY KEY (teacher_id, skill_id)
);

CREATE TABLE IF NOT EXISTS student_courses (
    course_id  TEXT NOT NULL REFERENCES courses (id),
    student_id TEXT NOT NULL REFERENCES students (id),
    status     TEXT NOT NULL DEFAULT 'NO_STATUS',
    PRIMARY KEY (course_id, student_id)
);
`

func main() {
	var schemaOnly bool
	flag.BoolVar(&schemaOnly, "schema-only", false, "create tables without demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}
	log.Println("schema ready")

	if schemaOnly {
		return
	}

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	teacher := &models.Teacher{Person: models.Person{
		BirthDate: time.Date(1984, 6, 2, 0, 0, 0, 0, time.UTC),
		FirstName: "Anna",
		LastName:  "Karlsson",
		Email:     "anna.karlsson@westcoast.edu",
		Phone:     "031-555-0101",
		City:      "Gothenburg",
	}}
	if err := teacherRepo.Create(ctx, teacher, []string{"Go", "PostgreSQL"}); err != nil {
		log.Fatalf("failed to seed teacher: %v", err)
	}

	goStart := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	goCourse := &models.Course{
		Title:         "Go Fundamentals",
		CourseNumber:  120,
		DurationWeeks: 4,
		StartDate:     goStart,
		EndDate:       models.ComputeEndDate(goStart, 4),
	}
	if err := courseRepo.Create(ctx, goCourse); err != nil {
		log.Fatalf("failed to seed course: %v", err)
	}
	if err := courseRepo.AssignTeacher(ctx, goCourse.ID, teacher.ID); err != nil {
		log.Fatalf("failed to assign teacher: %v", err)
	}

	dbStart := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	dbCourse := &models.Course{
		Title:         "Relational Databases",
		CourseNumber:  140,
		DurationWeeks: 6,
		StartDate:     dbStart,
		EndDate:       models.ComputeEndDate(dbStart, 6),
	}
	if err := courseRepo.Create(ctx, dbCourse); err != nil {
		log.Fatalf("failed to seed course: %v", err)
	}

	students := []struct {
		first, last, email string
		courses            []string
	}{
		{"Erik", "Lind", "erik.lind@example.com", []string{goCourse.ID, dbCourse.ID}},
		{"Sara", "Nilsson", "sara.nilsson@example.com", []string{goCourse.ID}},
	}
	for _, s := range students {
		student := &models.Student{Person: models.Person{
			BirthDate: time.Date(2002, 3, 14, 0, 0, 0, 0, time.UTC),
			FirstName: s.first,
			LastName:  s.last,
			Email:     s.email,
			City:      "Gothenburg",
		}}
		if _, err := studentRepo.Create(ctx, student, s.courses); err != nil {
			log.Fatalf("failed to seed student: %v", err)
		}
	}

	log.Println("demo data loaded")
}
