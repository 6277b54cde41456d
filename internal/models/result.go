package models

import "time"

// Grade is a letter grade derived from a score; never independently authored.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Result records a student's score in a course for a semester and session.
type Result struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Score     float64   `db:"score" json:"score"`
	Grade     Grade     `db:"grade" json:"grade"`
	Semester  int       `db:"semester" json:"semester"`
	Session   string    `db:"session" json:"session"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ResultWithCourse joins a result with its course at query time so GPA uses
// the catalog's current credit units.
type ResultWithCourse struct {
	Result
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	CreditUnits int    `db:"credit_units" json:"credit_units"`
}

// ResultFilter scopes result queries.
type ResultFilter struct {
	StudentID string
	Semester  int
	Session   string
}
