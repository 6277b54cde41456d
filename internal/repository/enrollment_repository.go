package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// EnrollmentRepository manages student course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ReplaceForPeriod atomically swaps the student's enrollment set for the
// semester and session. Submitting the same selection twice leaves one copy.
func (r *EnrollmentRepository) ReplaceForPeriod(ctx context.Context, studentID string, semester int, session string, courseIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace enrollments: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const deleteQuery = `DELETE FROM student_courses WHERE student_id = $1 AND semester = $2 AND session = $3`
	if _, err := tx.ExecContext(ctx, deleteQuery, studentID, semester, session); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}

	const insertQuery = `INSERT INTO student_courses (id, student_id, course_id, semester, session, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	for _, courseID := range courseIDs {
		if _, err := tx.ExecContext(ctx, insertQuery, uuid.NewString(), studentID, courseID, semester, session, now); err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace enrollments: %w", err)
	}
	return nil
}

// ListForPeriod returns the student's enrollments for the semester and
// session joined with catalog details, ordered by course code.
func (r *EnrollmentRepository) ListForPeriod(ctx context.Context, studentID string, semester int, session string) ([]models.EnrolledCourse, error) {
	const query = `SELECT sc.id, sc.student_id, sc.course_id, sc.semester, sc.session, sc.created_at,
        c.course_code, c.course_title, c.credit_units
        FROM student_courses sc
        JOIN courses c ON c.id = sc.course_id
        WHERE sc.student_id = $1 AND sc.semester = $2 AND sc.session = $3
        ORDER BY c.course_code`
	var enrolled []models.EnrolledCourse
	if err := r.db.SelectContext(ctx, &enrolled, query, studentID, semester, session); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrolled, nil
}

// CountForPeriod returns how many courses the student carries in the period.
func (r *EnrollmentRepository) CountForPeriod(ctx context.Context, studentID string, semester int, session string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM student_courses WHERE student_id = $1 AND semester = $2 AND session = $3`
	if err := r.db.GetContext(ctx, &count, query, studentID, semester, session); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}
