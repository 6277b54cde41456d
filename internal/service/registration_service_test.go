package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type fakeUserRepo struct {
	existingEmails map[string]bool
	created        []*models.User
	deleted        []string
	createErr      error
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.existingEmails[email], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User, role models.UserRole) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeProfileRepo struct {
	profiles       map[string]*models.Profile
	takenUniqueIDs map[string]bool
	approvedBy     map[string]string
	cascaded       []string
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfileRepo) ExistsByStudentUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	return f.takenUniqueIDs[uniqueID], nil
}

func (f *fakeProfileRepo) Approve(ctx context.Context, studentID, approvedBy string, approvedAt time.Time) (bool, error) {
	p, ok := f.profiles[studentID]
	if !ok {
		return false, nil
	}
	if p.RegistrationApproved {
		return true, nil
	}
	p.RegistrationApproved = true
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &approvedAt
	if f.approvedBy == nil {
		f.approvedBy = make(map[string]string)
	}
	f.approvedBy[studentID] = approvedBy
	return false, nil
}

func (f *fakeProfileRepo) DeleteCascade(ctx context.Context, studentID string) error {
	f.cascaded = append(f.cascaded, studentID)
	delete(f.profiles, studentID)
	return nil
}

type fakeRegistrationRepo struct {
	submitted []*models.Profile
	docs      map[string]*models.RegistrationDocuments
	pending   []models.PendingRegistration
	submitErr error
}

func (f *fakeRegistrationRepo) Submit(ctx context.Context, profile *models.Profile, docs *models.RegistrationDocuments, payment *models.Payment) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, profile)
	return nil
}

func (f *fakeRegistrationRepo) FindDocuments(ctx context.Context, studentID string) (*models.RegistrationDocuments, error) {
	if d, ok := f.docs[studentID]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRegistrationRepo) ListPending(ctx context.Context, page, pageSize int) ([]models.PendingRegistration, int, error) {
	return f.pending, len(f.pending), nil
}

type fakeFileStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func (f *fakeFileStore) Save(filename string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[filename] = data
	return filename, nil
}

func (f *fakeFileStore) Delete(filename string) error {
	f.deleted = append(f.deleted, filename)
	return nil
}

type fakeIDGen struct{ next string }

func (f *fakeIDGen) Next() string { return f.next }

type recordingNotifier struct {
	submitted []string
	approved  []string
}

func (r *recordingNotifier) RegistrationSubmitted(ctx context.Context, studentID, fullName string) {
	r.submitted = append(r.submitted, studentID)
}

func (r *recordingNotifier) RegistrationApproved(ctx context.Context, studentID string) {
	r.approved = append(r.approved, studentID)
}

func validSubmitRequest() SubmitRegistrationRequest {
	return SubmitRegistrationRequest{
		Email:          "ada@example.com",
		Password:       "secret123",
		Surname:        "Obi",
		FirstName:      "Ada",
		Gender:         "female",
		DateOfBirth:    "2004-03-12",
		Address:        "12 Marina Road",
		Country:        "Nigeria",
		StateOfOrigin:  "Anambra",
		PhoneNumber:    "08030000000",
		NextOfKinName:  "Ngozi Obi",
		NextOfKinPhone: "08031111111",
		ProposedCourse: "Computer Science",
		SSCEResult:     &Upload{Filename: "ssce.pdf", Size: 100, Content: []byte("ssce")},
		BirthCertificate: &Upload{
			Filename: "birth.pdf", Size: 100, Content: []byte("birth"),
		},
		StateOfOriginCert: &Upload{Filename: "origin.pdf", Size: 100, Content: []byte("origin")},
		PassportPhoto:     &Upload{Filename: "photo.jpg", Size: 100, Content: []byte("photo")},
		PaymentProof:      &Upload{Filename: "proof.png", Size: 100, Content: []byte("proof")},
	}
}

func newTestRegistrationService(users *fakeUserRepo, profiles *fakeProfileRepo, regs *fakeRegistrationRepo, store *fakeFileStore, notifier *recordingNotifier) *RegistrationService {
	return NewRegistrationService(users, profiles, regs, store, &fakeIDGen{next: "STU-2026-000042"}, notifier, nil, nil, RegistrationConfig{
		FeeAmount:       10000,
		MaxFileSize:     1 << 20,
		PendingPageSize: 20,
	})
}

func TestRegistrationSubmitHappyPath(t *testing.T) {
	users := &fakeUserRepo{}
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	regs := &fakeRegistrationRepo{}
	store := &fakeFileStore{}
	notifier := &recordingNotifier{}
	svc := newTestRegistrationService(users, profiles, regs, store, notifier)

	resp, err := svc.Submit(context.Background(), validSubmitRequest())
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.StudentID)
	assert.Equal(t, "STU-2026-000042", resp.StudentUniqueID)
	assert.Equal(t, "pending", resp.Status)

	require.Len(t, users.created, 1)
	require.Len(t, regs.submitted, 1)
	profile := regs.submitted[0]
	assert.Equal(t, "Obi Ada", profile.FullName)
	assert.Equal(t, "STU-2026-000042", *profile.StudentUniqueID)
	assert.False(t, profile.RegistrationApproved)
	assert.Contains(t, store.saved, "ssce/user-1.pdf")
	assert.Contains(t, store.saved, "state/user-1.pdf")
	assert.Contains(t, store.saved, "passports/user-1.jpg")
	assert.Contains(t, store.saved, "payments/user-1.png")
	assert.Equal(t, []string{"user-1"}, notifier.submitted)
	assert.Empty(t, users.deleted)
}

func TestRegistrationSubmitMissingDocumentsCreatesNothing(t *testing.T) {
	users := &fakeUserRepo{}
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	regs := &fakeRegistrationRepo{}
	store := &fakeFileStore{}
	svc := newTestRegistrationService(users, profiles, regs, store, nil)

	req := validSubmitRequest()
	req.BirthCertificate = nil

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "birth_certificate")
	assert.Empty(t, users.created)
	assert.Empty(t, regs.submitted)
	assert.Empty(t, store.saved)
}

func TestRegistrationSubmitRequiresStateCertAndProof(t *testing.T) {
	users := &fakeUserRepo{}
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	regs := &fakeRegistrationRepo{}
	store := &fakeFileStore{}
	svc := newTestRegistrationService(users, profiles, regs, store, nil)

	req := validSubmitRequest()
	req.StateOfOriginCert = nil
	req.PaymentProof = nil

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "state_of_origin_cert")
	assert.Contains(t, appErr.Message, "payment_proof")
	assert.Empty(t, users.created)
	assert.Empty(t, regs.submitted)
	assert.Empty(t, store.saved)
}

func TestRegistrationSubmitDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{existingEmails: map[string]bool{"ada@example.com": true}}
	svc := newTestRegistrationService(users, &fakeProfileRepo{}, &fakeRegistrationRepo{}, &fakeFileStore{}, nil)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountCreation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, users.created)
}

func TestRegistrationSubmitPersistenceFailureRemovesAccount(t *testing.T) {
	users := &fakeUserRepo{}
	regs := &fakeRegistrationRepo{submitErr: errors.New("db down")}
	store := &fakeFileStore{}
	svc := newTestRegistrationService(users, &fakeProfileRepo{}, regs, store, nil)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"user-1"}, users.deleted)
	assert.NotEmpty(t, store.deleted)
}

func TestRegistrationSubmitUploadFailureRemovesAccount(t *testing.T) {
	users := &fakeUserRepo{}
	store := &fakeFileStore{saveErr: errors.New("disk full")}
	svc := newTestRegistrationService(users, &fakeProfileRepo{}, &fakeRegistrationRepo{}, store, nil)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpload.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"user-1"}, users.deleted)
}

func TestRegistrationApproveIsIdempotent(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"s1": {ID: "s1"},
	}}
	notifier := &recordingNotifier{}
	svc := newTestRegistrationService(&fakeUserRepo{}, profiles, &fakeRegistrationRepo{}, &fakeFileStore{}, notifier)

	first, err := svc.Approve(context.Background(), "s1", "admin-1")
	require.NoError(t, err)
	assert.True(t, first.RegistrationApproved)
	assert.Equal(t, "admin-1", *first.ApprovedBy)
	firstStamp := *first.ApprovedAt

	second, err := svc.Approve(context.Background(), "s1", "admin-2")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", *second.ApprovedBy)
	assert.Equal(t, firstStamp, *second.ApprovedAt)
	assert.Equal(t, []string{"s1"}, notifier.approved)
}

func TestRegistrationRejectApprovedRegistrationConflicts(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"s1": {ID: "s1", RegistrationApproved: true},
	}}
	svc := newTestRegistrationService(&fakeUserRepo{}, profiles, &fakeRegistrationRepo{}, &fakeFileStore{}, nil)

	err := svc.Reject(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, profiles.cascaded)
}

func TestRegistrationRejectDeletesEverything(t *testing.T) {
	ssce := "ssce/s1.pdf"
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"s1": {ID: "s1"},
	}}
	regs := &fakeRegistrationRepo{docs: map[string]*models.RegistrationDocuments{
		"s1": {StudentID: "s1", SSCEResult: &ssce},
	}}
	store := &fakeFileStore{}
	svc := newTestRegistrationService(&fakeUserRepo{}, profiles, regs, store, nil)

	require.NoError(t, svc.Reject(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, profiles.cascaded)
	assert.Contains(t, store.deleted, ssce)
}
