package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// ResultRepository manages examination results.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert writes a result, overwriting any prior entry for the same
// (student, course, semester, session).
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	result.CreatedAt = now
	result.UpdatedAt = now

	const query = `INSERT INTO results (id, student_id, course_id, score, grade, semester, session, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :score, :grade, :semester, :session, :created_at, :updated_at)
        ON CONFLICT (student_id, course_id, semester, session)
        DO UPDATE SET score = EXCLUDED.score, grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// ListWithCourses returns results joined with their catalog entries so the
// credit units used for GPA reflect the current catalog.
func (r *ResultRepository) ListWithCourses(ctx context.Context, filter models.ResultFilter) ([]models.ResultWithCourse, error) {
	conditions := []string{"res.student_id = $1"}
	args := []interface{}{filter.StudentID}
	idx := 2

	if filter.Semester != 0 {
		conditions = append(conditions, fmt.Sprintf("res.semester = $%d", idx))
		args = append(args, filter.Semester)
		idx++
	}
	if filter.Session != "" {
		conditions = append(conditions, fmt.Sprintf("res.session = $%d", idx))
		args = append(args, filter.Session)
		idx++
	}

	query := fmt.Sprintf(`SELECT res.id, res.student_id, res.course_id, res.score, res.grade,
        res.semester, res.session, res.created_at, res.updated_at,
        c.course_code, c.course_title, c.credit_units
        FROM results res
        JOIN courses c ON c.id = res.course_id
        WHERE %s
        ORDER BY res.session DESC, res.semester, c.course_code`, strings.Join(conditions, " AND "))

	var results []models.ResultWithCourse
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Delete removes a single result row.
func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM results WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
