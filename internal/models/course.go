package models

import "time"

// Course is an admin-managed catalog entry.
type Course struct {
	ID          string    `db:"id" json:"id"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	CourseTitle string    `db:"course_title" json:"course_title"`
	CreditUnits int       `db:"credit_units" json:"credit_units"`
	Semester    int       `db:"semester" json:"semester"`
	Faculty     string    `db:"faculty" json:"faculty"`
	Programme   string    `db:"programme" json:"programme"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter scopes catalog listings.
type CourseFilter struct {
	Semester  int
	Faculty   string
	Programme string
	Page      int
	PageSize  int
}

// StudentCourse is a single enrollment row. At most one row exists per
// (student, course, semester, session).
type StudentCourse struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Semester  int       `db:"semester" json:"semester"`
	Session   string    `db:"session" json:"session"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrolledCourse joins an enrollment with its catalog entry.
type EnrolledCourse struct {
	StudentCourse
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	CreditUnits int    `db:"credit_units" json:"credit_units"`
}
