package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/internal/ratelimit"
	"github.com/amirk1998/project-tracker/internal/security"
	"github.com/amirk1998/project-tracker/pkg/errors"
	"github.com/amirk1998/project-tracker/pkg/validator"
)

// UserStore is the credential-store surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	RecordFailedAttempt(ctx context.Context, userID int) error
	ResetFailedAttempts(ctx context.Context, userID int) error
	UpdatePasswordHash(ctx context.Context, userID int, hash string) error
}

// AuthService drives login attempts to one of three terminal states:
// authenticated, rejected with bad credentials, or rejected while
// locked out. It also owns registration and password changes.
type AuthService struct {
	users            UserStore
	hasher           *security.PasswordHasher
	validator        *validator.Validator
	rateLimiter      *ratelimit.RateLimiter
	auditLogger      *audit.Logger
	lockoutThreshold int
	lockoutWindow    time.Duration

	// dummyHash is verified against when the username does not exist,
	// keeping response timing uniform across both rejection paths.
	dummyHash string

	// now is swappable for tests
	now func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users UserStore,
	rateLimiter *ratelimit.RateLimiter,
	auditLogger *audit.Logger,
	lockoutThreshold int,
	lockoutWindow time.Duration,
) *AuthService {
	hasher := security.NewPasswordHasher()
	return &AuthService{
		users:            users,
		hasher:           hasher,
		validator:        validator.New(),
		rateLimiter:      rateLimiter,
		auditLogger:      auditLogger,
		lockoutThreshold: lockoutThreshold,
		lockoutWindow:    lockoutWindow,
		dummyHash:        hasher.DummyHash(),
		now:              time.Now,
	}
}

// Register validates and creates a new user. Validation failures come
// back as *errors.ValidationErrors carrying every violated rule in
// order; nothing is persisted unless the whole submission is valid.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := s.rateLimiter.CheckLimit("register"); err != nil {
		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelWarning,
			Action:   audit.ActionRegisterRateLimit,
			Resource: "auth",
			Success:  false,
		})
		return nil, err
	}

	req.FirstName = s.validator.SanitizeString(req.FirstName)
	req.LastName = s.validator.SanitizeString(req.LastName)
	req.Email = s.validator.SanitizeString(req.Email)
	req.Username = s.validator.SanitizeString(req.Username)

	if verrs := s.validator.ValidateRegistration(req); verrs.HasErrors() {
		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelWarning,
			Action:   audit.ActionRegisterInvalid,
			Resource: "auth",
			Success:  false,
			ErrorMsg: verrs.Error(),
		})
		return nil, verrs
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if goerrors.Is(err, errors.ErrUserAlreadyExists) {
			s.auditLogger.Log(&audit.Event{
				Level:    audit.LevelWarning,
				Action:   audit.ActionRegisterDuplicate,
				Resource: "auth",
				Success:  false,
				Metadata: req.Username,
			})
			return nil, err
		}
		s.logStorageError(nil, err)
		return nil, errors.ErrStorage
	}

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &user.ID,
		Action:   audit.ActionRegisterSuccess,
		Resource: "auth",
		Success:  true,
	})

	return user, nil
}

// Login verifies credentials under the lockout policy. The returned
// error distinguishes only locked from bad credentials; an unknown
// username and a wrong password produce the identical outcome.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	rateLimitKey := fmt.Sprintf("login:%s", req.Username)
	if err := s.rateLimiter.CheckLimit(rateLimitKey); err != nil {
		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelWarning,
			Action:   audit.ActionLoginRateLimit,
			Resource: "auth",
			Success:  false,
			Metadata: req.Username,
		})
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if goerrors.Is(err, errors.ErrUserNotFound) {
			// Burn a verification so timing does not reveal whether the
			// username exists
			s.hasher.Verify(req.Password, s.dummyHash)

			s.auditLogger.Log(&audit.Event{
				Level:    audit.LevelWarning,
				Action:   audit.ActionLoginFailed,
				Resource: "auth",
				Success:  false,
				Metadata: req.Username,
			})
			return nil, errors.ErrInvalidCredentials
		}
		s.logStorageError(nil, err)
		return nil, errors.ErrStorage
	}

	// Lockout: threshold reached and the window has not elapsed. Once
	// it has, the counter resets and verification proceeds normally.
	if user.FailedAttempts >= s.lockoutThreshold && user.LastAttempt != nil {
		if s.now().Sub(*user.LastAttempt) < s.lockoutWindow {
			s.auditLogger.Log(&audit.Event{
				Level:    audit.LevelWarning,
				UserID:   &user.ID,
				Action:   audit.ActionLoginLocked,
				Resource: "auth",
				Success:  false,
			})
			return nil, errors.ErrAccountLocked
		}

		if err := s.users.ResetFailedAttempts(ctx, user.ID); err != nil {
			s.logStorageError(&user.ID, err)
			return nil, errors.ErrStorage
		}
		user.FailedAttempts = 0
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !valid {
		if err := s.users.RecordFailedAttempt(ctx, user.ID); err != nil {
			s.logStorageError(&user.ID, err)
		}

		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelWarning,
			UserID:   &user.ID,
			Action:   audit.ActionLoginFailed,
			Resource: "auth",
			Success:  false,
		})
		return nil, errors.ErrInvalidCredentials
	}

	// Hash migration: stored hashes from an older, weaker configuration
	// are transparently replaced on successful login.
	if s.hasher.NeedsRehash(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(req.Password); hashErr == nil {
			if err := s.users.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
				s.logStorageError(&user.ID, err)
			} else {
				user.PasswordHash = newHash
				s.auditLogger.Log(&audit.Event{
					Level:    audit.LevelInfo,
					UserID:   &user.ID,
					Action:   audit.ActionPasswordRehashed,
					Resource: "auth",
					Success:  true,
				})
			}
		}
	}

	if err := s.users.ResetFailedAttempts(ctx, user.ID); err != nil {
		s.logStorageError(&user.ID, err)
		return nil, errors.ErrStorage
	}
	user.FailedAttempts = 0

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &user.ID,
		Action:   audit.ActionLoginSuccess,
		Resource: "auth",
		Success:  true,
	})

	return user, nil
}

// ChangePassword re-verifies the current password and applies the
// strength policy before persisting a freshly hashed secret. Matching
// the original behavior, a new password equal to the old one is
// accepted.
func (s *AuthService) ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if goerrors.Is(err, errors.ErrUserNotFound) {
			return err
		}
		s.logStorageError(&userID, err)
		return errors.ErrStorage
	}

	verrs := &errors.ValidationErrors{}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		verrs.Add("All password fields must be completed.")
	}

	valid, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
	if err != nil || !valid {
		verrs.Add("Current password is incorrect.")
	}

	if req.NewPassword != req.ConfirmPassword {
		verrs.Add("New passwords do not match.")
	}

	if !s.validator.ValidatePassword(req.NewPassword) {
		verrs.Add(validator.MsgWeakPassword)
	}

	if verrs.HasErrors() {
		return verrs
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		s.logStorageError(&userID, err)
		return errors.ErrStorage
	}

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &userID,
		Action:   audit.ActionPasswordChanged,
		Resource: "auth",
		Success:  true,
	})

	return nil
}

// GetProfile returns the user record for the profile page.
func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if goerrors.Is(err, errors.ErrUserNotFound) {
			return nil, err
		}
		s.logStorageError(&userID, err)
		return nil, errors.ErrStorage
	}
	return user, nil
}

// logStorageError records full failure detail server-side; callers
// surface only a generic message to the client.
func (s *AuthService) logStorageError(userID *int, err error) {
	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelError,
		UserID:   userID,
		Action:   audit.ActionStorageError,
		Resource: "auth",
		Success:  false,
		ErrorMsg: err.Error(),
	})
}
