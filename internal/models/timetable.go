package models

import "time"

// TimetableEntry is a scheduled lecture slot for a course.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Venue     string    `db:"venue" json:"venue"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TimetableEntryDetail joins a slot with its course.
type TimetableEntryDetail struct {
	TimetableEntry
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
}
