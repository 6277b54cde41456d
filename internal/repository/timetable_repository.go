package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// TimetableRepository manages lecture schedule entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Create inserts a schedule slot.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO timetable (id, course_id, day_of_week, start_time, end_time, venue, semester, created_at)
        VALUES (:id, :course_id, :day_of_week, :start_time, :end_time, :venue, :semester, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// ListBySemester returns the semester's slots with course details, ordered
// for display.
func (r *TimetableRepository) ListBySemester(ctx context.Context, semester int) ([]models.TimetableEntryDetail, error) {
	const query = `SELECT t.id, t.course_id, t.day_of_week, t.start_time, t.end_time, t.venue, t.semester, t.created_at,
        c.course_code, c.course_title
        FROM timetable t
        JOIN courses c ON c.id = t.course_id
        WHERE t.semester = $1
        ORDER BY CASE t.day_of_week
            WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
            WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7
        END, t.start_time`
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, semester); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return entries, nil
}

// Update rewrites a schedule slot.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	const query = `UPDATE timetable SET course_id = :course_id, day_of_week = :day_of_week,
        start_time = :start_time, end_time = :end_time, venue = :venue, semester = :semester
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update timetable entry rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a schedule slot.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM timetable WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timetable entry rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
