package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

func TestResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO results").WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.Result{StudentID: "s1", CourseID: "c1", Score: 72, Grade: models.GradeA, Semester: 1, Session: "2026/2027"}
	require.NoError(t, repo.Upsert(context.Background(), result))
	assert.NotEmpty(t, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListWithCoursesFiltersByPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "score", "grade", "semester", "session", "created_at", "updated_at", "course_code", "course_title", "credit_units"}).
		AddRow("r1", "s1", "c1", 72.0, "A", 1, "2026/2027", time.Now(), time.Now(), "CSC101", "Intro to Computing", 3)
	mock.ExpectQuery("SELECT res.id, res.student_id").
		WithArgs("s1", 1, "2026/2027").
		WillReturnRows(rows)

	results, err := repo.ListWithCourses(context.Background(), models.ResultFilter{StudentID: "s1", Semester: 1, Session: "2026/2027"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.GradeA, results[0].Grade)
	assert.Equal(t, 3, results[0].CreditUnits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
