package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepositoryReplaceForPeriodDeletesThenInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses").
		WithArgs("s1", 1, "2026/2027").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO student_courses").
		WithArgs(sqlmock.AnyArg(), "s1", "c1", 1, "2026/2027", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_courses").
		WithArgs(sqlmock.AnyArg(), "s1", "c2", 1, "2026/2027", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceForPeriod(context.Background(), "s1", 1, "2026/2027", []string{"c1", "c2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryReplaceForPeriodEmptySelectionClears(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses").
		WithArgs("s1", 2, "2026/2027").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.ReplaceForPeriod(context.Background(), "s1", 2, "2026/2027", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
