package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

func strPtr(s string) *string { return &s }

func TestRegistrationRepositorySubmitCommitsAllThree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO profiles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO registration_documents").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	profile := &models.Profile{ID: "s1", Email: "a@example.com", FullName: "Ada Obi", StudentUniqueID: strPtr("STU-2026-000001")}
	docs := &models.RegistrationDocuments{SSCEResult: strPtr("ssce/s1.pdf"), BirthCertificate: strPtr("birth/s1.pdf")}
	payment := &models.Payment{Amount: 10000, PaymentType: models.PaymentTypeRegistration, Status: models.PaymentStatusPending, IsRegistrationPayment: true}

	err := repo.Submit(context.Background(), profile, docs, payment)
	require.NoError(t, err)
	assert.Equal(t, "s1", docs.StudentID)
	assert.Equal(t, "s1", payment.StudentID)
	assert.NotEmpty(t, docs.ID)
	assert.NotEmpty(t, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositorySubmitRollsBackOnPaymentFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO profiles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO registration_documents").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO payments").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	profile := &models.Profile{ID: "s1", Email: "a@example.com", FullName: "Ada Obi"}
	err := repo.Submit(context.Background(), profile, &models.RegistrationDocuments{}, &models.Payment{})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryListPendingJoinsDocumentsAndPayment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE registration_approved = false").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "registration_approved"}).
			AddRow("s1", "a@example.com", "Ada Obi", false))
	mock.ExpectQuery("SELECT (.+) FROM registration_documents WHERE student_id IN").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "ssce_result"}).
			AddRow("d1", "s1", "ssce/s1.pdf"))
	mock.ExpectQuery("SELECT DISTINCT ON \\(student_id\\)").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "amount", "payment_type", "status", "is_registration_payment"}).
			AddRow("p1", "s1", 10000.0, models.PaymentTypeRegistration, "pending", true))

	pending, total, err := repo.ListPending(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Documents)
	assert.Equal(t, "d1", pending[0].Documents.ID)
	require.NotNil(t, pending[0].Payment)
	assert.Equal(t, models.PaymentStatusPending, pending[0].Payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
