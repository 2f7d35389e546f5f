package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/service/auth"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// ProfileService provides registration, authentication, and lookup of
// profiles.
type ProfileService interface {
	// Register creates a new profile with a hashed password. Username and
	// email uniqueness is enforced atomically at insert; a violation
	// surfaces as store.ErrUsernameExists or store.ErrEmailExists.
	Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.Profile, error)

	// Authenticate verifies the given credentials and returns the matching
	// profile. The identifier may be a username or an email address.
	// Returns ErrInvalidCredentials on an unknown identifier or a wrong
	// password, without distinguishing the two.
	Authenticate(ctx context.Context, identifier, password string) (*domain.Profile, error)

	// GetProfile retrieves a profile by its ID.
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetProfileByUsername retrieves a profile by its username.
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// DeleteProfile removes a profile. Only the profile itself or an ADMIN
	// may delete it. Owned questions, answers, votes, and notifications are
	// removed with it.
	DeleteProfile(ctx context.Context, callerID, targetID uuid.UUID) error
}

// profileServiceImpl implements the ProfileService interface.
type profileServiceImpl struct {
	profileStore store.ProfileStore
	hasher       auth.PasswordHasher
	verifier     auth.PasswordVerifier
	logger       *slog.Logger
}

// NewProfileService creates a new ProfileService.
// It returns an error if any of the required dependencies are nil.
func NewProfileService(
	profileStore store.ProfileStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (ProfileService, error) {
	if profileStore == nil {
		return nil, fmt.Errorf("profileStore cannot be nil: %w", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil: %w", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil: %w", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &profileServiceImpl{
		profileStore: profileStore,
		hasher:       hasher,
		verifier:     verifier,
		logger:       logger.With(slog.String("component", "profile_service")),
	}, nil
}

// Register implements ProfileService.Register.
func (s *profileServiceImpl) Register(
	ctx context.Context,
	username, email, password string,
	role domain.Role,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := domain.NewProfile(username, email, password, role)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	profile.HashedPassword = hashed
	profile.Password = ""

	if err := s.profileStore.Create(ctx, profile); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration rejected on duplicate identity",
				slog.String("username", username))
		} else {
			log.Error("failed to create profile", slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("profile registered",
		slog.String("profile_id", profile.ID.String()),
		slog.String("username", profile.Username),
		slog.String("role", string(profile.Role)))
	return profile, nil
}

// Authenticate implements ProfileService.Authenticate.
func (s *profileServiceImpl) Authenticate(
	ctx context.Context,
	identifier, password string,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profileStore.GetByUsername(ctx, identifier)
	if errors.Is(err, store.ErrProfileNotFound) {
		profile, err = s.profileStore.GetByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up profile for authentication",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("looking up profile: %w", err)
	}

	if err := s.verifier.Compare(profile.HashedPassword, password); err != nil {
		log.Debug("password mismatch",
			slog.String("profile_id", profile.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

// GetProfile implements ProfileService.GetProfile.
func (s *profileServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.profileStore.GetByID(ctx, id)
}

// GetProfileByUsername implements ProfileService.GetProfileByUsername.
func (s *profileServiceImpl) GetProfileByUsername(
	ctx context.Context,
	username string,
) (*domain.Profile, error) {
	return s.profileStore.GetByUsername(ctx, username)
}

// DeleteProfile implements ProfileService.DeleteProfile.
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, callerID, targetID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID != targetID {
		caller, err := s.profileStore.GetByID(ctx, callerID)
		if err != nil {
			return fmt.Errorf("looking up caller: %w", err)
		}
		if !caller.IsAdmin() {
			return ErrForbidden
		}
	}

	if err := s.profileStore.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Info("profile deleted",
		slog.String("profile_id", targetID.String()),
		slog.String("deleted_by", callerID.String()))
	return nil
}
