package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

const studentIDAllocationAttempts = 5

type registrationUserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

type registrationProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	ExistsByStudentUniqueID(ctx context.Context, uniqueID string) (bool, error)
	Approve(ctx context.Context, studentID, approvedBy string, approvedAt time.Time) (bool, error)
	DeleteCascade(ctx context.Context, studentID string) error
}

type registrationRepository interface {
	Submit(ctx context.Context, profile *models.Profile, docs *models.RegistrationDocuments, payment *models.Payment) error
	FindDocuments(ctx context.Context, studentID string) (*models.RegistrationDocuments, error)
	ListPending(ctx context.Context, page, pageSize int) ([]models.PendingRegistration, int, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

type studentIDGenerator interface {
	Next() string
}

type registrationNotifier interface {
	RegistrationSubmitted(ctx context.Context, studentID, fullName string)
	RegistrationApproved(ctx context.Context, studentID string)
}

// Upload carries one submitted file.
type Upload struct {
	Filename string
	Size     int64
	Content  []byte
}

// SubmitRegistrationRequest is the complete prospective-student submission.
type SubmitRegistrationRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Surname       string `json:"surname" validate:"required"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender" validate:"required"`
	MaritalStatus string `json:"marital_status"`
	DateOfBirth   string `json:"date_of_birth" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Country       string `json:"country" validate:"required"`
	StateOfOrigin string `json:"state_of_origin" validate:"required"`
	LGA           string `json:"lga"`
	PhoneNumber   string `json:"phone_number" validate:"required"`
	Religion      string `json:"religion"`

	NextOfKinName     string `json:"next_of_kin_name" validate:"required"`
	NextOfKinPhone    string `json:"next_of_kin_phone" validate:"required"`
	NextOfKinAddress  string `json:"next_of_kin_address"`
	NextOfKinRelation string `json:"next_of_kin_relationship"`
	NextOfKinEmail    string `json:"next_of_kin_email"`

	ProposedCourse string `json:"proposed_course" validate:"required"`

	SSCEResult        *Upload `json:"-"`
	BirthCertificate  *Upload `json:"-"`
	StateOfOriginCert *Upload `json:"-"`
	PassportPhoto     *Upload `json:"-"`
	PaymentProof      *Upload `json:"-"`
}

// SubmitRegistrationResponse confirms a stored submission.
type SubmitRegistrationResponse struct {
	StudentID       string `json:"student_id"`
	StudentUniqueID string `json:"student_unique_id"`
	Status          string `json:"status"`
}

// RegistrationStatus is the student's view of their own submission.
type RegistrationStatus struct {
	Approved        bool       `json:"approved"`
	StudentUniqueID *string    `json:"student_unique_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
}

// RegistrationConfig tunes the registration workflow.
type RegistrationConfig struct {
	FeeAmount       float64
	MaxFileSize     int64
	PendingPageSize int
}

// RegistrationService runs the registration lifecycle: submission with
// account creation and uploads, admin review, approval and rejection.
type RegistrationService struct {
	users         registrationUserRepository
	profiles      registrationProfileRepository
	registrations registrationRepository
	store         fileStore
	ids           studentIDGenerator
	notifier      registrationNotifier
	validator     *validator.Validate
	logger        *zap.Logger
	config        RegistrationConfig
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	users registrationUserRepository,
	profiles registrationProfileRepository,
	registrations registrationRepository,
	store fileStore,
	ids studentIDGenerator,
	notifier registrationNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
	config RegistrationConfig,
) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PendingPageSize <= 0 {
		config.PendingPageSize = 20
	}
	return &RegistrationService{
		users:         users,
		profiles:      profiles,
		registrations: registrations,
		store:         store,
		ids:           ids,
		notifier:      notifier,
		validator:     validate,
		logger:        logger,
		config:        config,
	}
}

// Submit runs the full submission pipeline. Nothing is persisted unless the
// whole submission lands: the profile, documents and fee row commit in one
// transaction, and the freshly created account is deleted again if that
// transaction fails.
func (s *RegistrationService) Submit(ctx context.Context, req SubmitRegistrationRequest) (*SubmitRegistrationResponse, error) {
	if missing := s.missingItems(req); len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required items: "+strings.Join(missing, ", "))
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrAccountCreation, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Email: req.Email, PasswordHash: string(hash), Active: true}
	if err := s.users.Create(ctx, user, models.RoleStudent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAccountCreation.Code, appErrors.ErrAccountCreation.Status, "failed to create account")
	}

	uniqueID, err := s.allocateStudentID(ctx)
	if err != nil {
		s.compensateAccount(ctx, user.ID)
		return nil, err
	}

	stored, err := s.storeUploads(ctx, user.ID, req)
	if err != nil {
		s.compensateAccount(ctx, user.ID)
		return nil, err
	}

	profile := s.buildProfile(user.ID, uniqueID, req)
	profile.PassportPhoto = stored.passport
	docs := &models.RegistrationDocuments{
		SSCEResult:        stored.ssce,
		BirthCertificate:  stored.birth,
		StateOfOriginCert: stored.state,
		PassportPhoto:     stored.passport,
	}
	description := "Registration fee for " + profile.FullName
	payment := &models.Payment{
		Amount:                s.config.FeeAmount,
		PaymentType:           models.PaymentTypeRegistration,
		Status:                models.PaymentStatusPending,
		Description:           &description,
		PaymentProof:          stored.proof,
		IsRegistrationPayment: true,
	}

	if err := s.registrations.Submit(ctx, profile, docs, payment); err != nil {
		s.logger.Error("registration persistence failed, removing account",
			zap.String("student_id", user.ID), zap.Error(err))
		s.compensateAccount(ctx, user.ID)
		s.removeStoredFiles(stored)
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store registration")
	}

	if s.notifier != nil {
		s.notifier.RegistrationSubmitted(ctx, user.ID, profile.FullName)
	}

	s.logger.Info("registration submitted",
		zap.String("student_id", user.ID), zap.String("student_unique_id", uniqueID))

	return &SubmitRegistrationResponse{
		StudentID:       user.ID,
		StudentUniqueID: uniqueID,
		Status:          string(models.PaymentStatusPending),
	}, nil
}

// Status returns the student's own registration state.
func (s *RegistrationService) Status(ctx context.Context, studentID string) (*RegistrationStatus, error) {
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return &RegistrationStatus{
		Approved:        profile.RegistrationApproved,
		StudentUniqueID: profile.StudentUniqueID,
		ApprovedAt:      profile.ApprovedAt,
		SubmittedAt:     profile.CreatedAt,
	}, nil
}

// ListPending pages through unapproved registrations for admin review.
func (s *RegistrationService) ListPending(ctx context.Context, page int) ([]models.PendingRegistration, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	pending, total, err := s.registrations.ListPending(ctx, page, s.config.PendingPageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending registrations")
	}
	pagination := &models.Pagination{Page: page, PageSize: s.config.PendingPageSize, TotalCount: total}
	return pending, pagination, nil
}

// Approve stamps approval exactly once. Re-approving an already approved
// registration succeeds without touching the original stamp.
func (s *RegistrationService) Approve(ctx context.Context, studentID, adminID string) (*models.Profile, error) {
	if _, err := s.profiles.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}

	already, err := s.profiles.Approve(ctx, studentID, adminID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve registration")
	}

	if !already && s.notifier != nil {
		s.notifier.RegistrationApproved(ctx, studentID)
	}

	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload registration")
	}
	return profile, nil
}

// Reject permanently removes a pending registration: every database row for
// the student and their uploaded files. Approved registrations cannot be
// rejected; they go through student management instead.
func (s *RegistrationService) Reject(ctx context.Context, studentID string) error {
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if profile.RegistrationApproved {
		return appErrors.Clone(appErrors.ErrConflict, "registration is already approved")
	}

	docs, err := s.registrations.FindDocuments(ctx, studentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load documents before rejection", zap.String("student_id", studentID), zap.Error(err))
	}

	if err := s.profiles.DeleteCascade(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}

	if docs != nil {
		s.removeStoredFiles(storedUploads{
			ssce:     docs.SSCEResult,
			birth:    docs.BirthCertificate,
			state:    docs.StateOfOriginCert,
			passport: docs.PassportPhoto,
		})
	}

	s.logger.Info("registration rejected", zap.String("student_id", studentID))
	return nil
}

func (s *RegistrationService) missingItems(req SubmitRegistrationRequest) []string {
	var missing []string
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
		} else {
			missing = append(missing, "payload")
		}
	}
	if req.SSCEResult == nil {
		missing = append(missing, "ssce_result")
	}
	if req.BirthCertificate == nil {
		missing = append(missing, "birth_certificate")
	}
	if req.StateOfOriginCert == nil {
		missing = append(missing, "state_of_origin_cert")
	}
	if req.PassportPhoto == nil {
		missing = append(missing, "passport_photo")
	}
	if req.PaymentProof == nil {
		missing = append(missing, "payment_proof")
	}
	for _, upload := range []*Upload{req.SSCEResult, req.BirthCertificate, req.StateOfOriginCert, req.PassportPhoto, req.PaymentProof} {
		if upload != nil && s.config.MaxFileSize > 0 && upload.Size > s.config.MaxFileSize {
			missing = append(missing, upload.Filename+" (too large)")
		}
	}
	return missing
}

func (s *RegistrationService) allocateStudentID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < studentIDAllocationAttempts; attempt++ {
		candidate := s.ids.Next()
		taken, err := s.profiles.ExistsByStudentUniqueID(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student id")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a unique student id")
}

type storedUploads struct {
	ssce     *string
	birth    *string
	state    *string
	passport *string
	proof    *string
}

// storeUploads saves all submitted files concurrently, each under its own
// category directory keyed by the student id.
func (s *RegistrationService) storeUploads(ctx context.Context, studentID string, req SubmitRegistrationRequest) (storedUploads, error) {
	var stored storedUploads

	type target struct {
		upload *Upload
		dir    string
		dest   **string
	}
	targets := []target{
		{req.SSCEResult, "ssce", &stored.ssce},
		{req.BirthCertificate, "birth", &stored.birth},
		{req.StateOfOriginCert, "state", &stored.state},
		{req.PassportPhoto, "passports", &stored.passport},
		{req.PaymentProof, "payments", &stored.proof},
	}

	g, _ := errgroup.WithContext(ctx)
	for _, t := range targets {
		if t.upload == nil {
			continue
		}
		t := t
		g.Go(func() error {
			name := path.Join(t.dir, studentID+strings.ToLower(path.Ext(t.upload.Filename)))
			saved, err := s.store.Save(name, t.upload.Content)
			if err != nil {
				return fmt.Errorf("save %s: %w", t.dir, err)
			}
			*t.dest = &saved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.removeStoredFiles(stored)
		return storedUploads{}, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to store uploaded files")
	}
	return stored, nil
}

func (s *RegistrationService) removeStoredFiles(stored storedUploads) {
	for _, p := range []*string{stored.ssce, stored.birth, stored.state, stored.passport, stored.proof} {
		if p == nil {
			continue
		}
		if err := s.store.Delete(*p); err != nil {
			s.logger.Warn("failed to remove stored file", zap.String("file", *p), zap.Error(err))
		}
	}
}

func (s *RegistrationService) compensateAccount(ctx context.Context, userID string) {
	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to remove account after submission failure",
			zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *RegistrationService) buildProfile(userID, uniqueID string, req SubmitRegistrationRequest) *models.Profile {
	fullName := strings.TrimSpace(strings.Join([]string{req.Surname, req.FirstName, req.LastName}, " "))
	profile := &models.Profile{
		ID:              userID,
		Email:           req.Email,
		FullName:        strings.Join(strings.Fields(fullName), " "),
		StudentUniqueID: &uniqueID,
	}
	profile.Surname = optional(req.Surname)
	profile.FirstName = optional(req.FirstName)
	profile.LastName = optional(req.LastName)
	profile.Gender = optional(req.Gender)
	profile.MaritalStatus = optional(req.MaritalStatus)
	profile.DateOfBirth = optional(req.DateOfBirth)
	profile.Address = optional(req.Address)
	profile.Country = optional(req.Country)
	profile.StateOfOrigin = optional(req.StateOfOrigin)
	profile.LGA = optional(req.LGA)
	profile.PhoneNumber = optional(req.PhoneNumber)
	profile.Religion = optional(req.Religion)
	profile.NextOfKinName = optional(req.NextOfKinName)
	profile.NextOfKinPhone = optional(req.NextOfKinPhone)
	profile.NextOfKinAddress = optional(req.NextOfKinAddress)
	profile.NextOfKinRelation = optional(req.NextOfKinRelation)
	profile.NextOfKinEmail = optional(req.NextOfKinEmail)
	profile.ProposedCourse = optional(req.ProposedCourse)
	return profile
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
