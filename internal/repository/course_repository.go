package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

const courseColumns = `id, course_code, course_title, credit_units, semester, faculty, programme, created_at`

// CourseRepository manages the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a catalog entry.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	course.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO courses (id, course_code, course_title, credit_units, semester, faculty, programme, created_at)
        VALUES (:id, :course_code, :course_title, :credit_units, :semester, :faculty, :programme, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID fetches a catalog entry.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks whether a course code is already cataloged.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM courses WHERE course_code = $1 LIMIT 1", code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// List returns catalog entries matching the filter with a total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if filter.Semester != 0 {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", idx))
		args = append(args, filter.Semester)
		idx++
	}
	if filter.Faculty != "" {
		conditions = append(conditions, fmt.Sprintf("faculty = $%d", idx))
		args = append(args, filter.Faculty)
		idx++
	}
	if filter.Programme != "" {
		conditions = append(conditions, fmt.Sprintf("programme = $%d", idx))
		args = append(args, filter.Programme)
		idx++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM courses WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM courses WHERE %s ORDER BY course_code LIMIT $%d OFFSET $%d",
		courseColumns, where, idx, idx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}

// Update rewrites a catalog entry.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET course_code = :course_code, course_title = :course_title,
        credit_units = :credit_units, semester = :semester, faculty = :faculty, programme = :programme
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a catalog entry.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
