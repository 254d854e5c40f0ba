// Package usecase implements the user business logic: account provisioning,
// credential validation for token minting, and permission resolution.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authService "github.com/allisson/wopihost/internal/auth/service"
	apperrors "github.com/allisson/wopihost/internal/errors"
	"github.com/allisson/wopihost/internal/user/domain"
	appValidation "github.com/allisson/wopihost/internal/validation"
)

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// Create provisions a new user with a generated secret. The plain secret
	// is only returned once.
	Create(ctx context.Context, input *domain.CreateUserInput) (*domain.CreateUserOutput, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ValidateCredentials verifies the secret for the user. Unknown users and
	// wrong secrets both return ErrInvalidCredentials.
	ValidateCredentials(ctx context.Context, userID, secret string) error

	// ResolvePermissions returns the permission bit set for the user.
	// Unknown or inactive users resolve to the empty set.
	ResolvePermissions(ctx context.Context, userID string) (authDomain.Permission, error)
}

// UserRepository interface defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	userRepo      UserRepository
	secretService authService.SecretService
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, secretService authService.SecretService) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		secretService: secretService,
	}
}

// validateCreateUserInput validates the provisioning input.
func (uc *UserUseCase) validateCreateUserInput(input *domain.CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create provisions a new user with a generated secret.
func (uc *UserUseCase) Create(ctx context.Context, input *domain.CreateUserInput) (*domain.CreateUserOutput, error) {
	if err := uc.validateCreateUserInput(input); err != nil {
		return nil, err
	}

	plainSecret, hashedSecret, err := uc.secretService.GenerateSecret()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate user secret")
	}

	user := &domain.User{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(input.Name),
		Secret:      hashedSecret,
		IsActive:    input.IsActive,
		Permissions: input.Permissions,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &domain.CreateUserOutput{
		ID:          user.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Get retrieves a user by ID.
func (uc *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.Get(ctx, id)
}

// ValidateCredentials verifies the secret for the user. Unknown users, bad
// user ids, and wrong secrets all collapse to ErrInvalidCredentials so the
// response never reveals whether the account exists.
func (uc *UserUseCase) ValidateCredentials(ctx context.Context, userID, secret string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if !user.IsActive {
		return domain.ErrUserInactive
	}

	if !uc.secretService.CompareSecret(secret, user.Secret) {
		return domain.ErrInvalidCredentials
	}

	return nil
}

// ResolvePermissions returns the permission bit set for the user. Unknown and
// inactive users resolve to the empty set rather than an error; authorization
// checks against the empty set fail closed.
func (uc *UserUseCase) ResolvePermissions(ctx context.Context, userID string) (authDomain.Permission, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return 0, nil
	}

	user, err := uc.userRepo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if !user.IsActive {
		return 0, nil
	}

	return user.Permissions, nil
}
