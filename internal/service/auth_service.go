package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pixflow/internal/auth"
	apperrors "pixflow/internal/errors"
	"pixflow/internal/model"
	"pixflow/internal/repository"
	"pixflow/internal/vault"
)

const bcryptCost = 10

// passwordLength is the exact required password length. Not a minimum: the
// product policy is exactly 8 characters.
const passwordLength = 8

// minGatewayTokenLength is the basic sanity check on gateway API tokens,
// which are always longer than this.
const minGatewayTokenLength = 20

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordIsValid reports whether a new password satisfies the length policy.
func PasswordIsValid(password string) bool {
	return len([]rune(password)) == passwordLength
}

// AuthService handles login, sessions, and self-service profile mutations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	CurrentUser(ctx context.Context, id uint) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, newPassword string) error
	SetPixKey(ctx context.Context, userID uint, pix string) error
	SetGatewayCredential(ctx context.Context, userID uint, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	vault      *vault.Vault
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, vault *vault.Vault) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		vault:      vault,
	}
}

// Login authenticates a user and issues a 12-hour session token. Unknown
// email and wrong password both come back as ErrInvalidCredentials so the
// response never confirms whether an account exists.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.Active {
		return "", nil, apperrors.ErrAccountDisabled
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	return token, user, nil
}

// CurrentUser resolves the acting user from a token's user id.
func (s *authService) CurrentUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password and clears the forced-change flag.
func (s *authService) ChangePassword(ctx context.Context, userID uint, newPassword string) error {
	if !PasswordIsValid(newPassword) {
		return apperrors.ErrPasswordPolicy
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	user.MustChangePassword = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetPixKey stores the user's payout key. An empty value clears it.
func (s *authService) SetPixKey(ctx context.Context, userID uint, pix string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	user.PixKey = strings.TrimSpace(pix)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update pix key: %w", err)
	}
	return nil
}

// SetGatewayCredential encrypts and stores the user's gateway API token.
func (s *authService) SetGatewayCredential(ctx context.Context, userID uint, token string) error {
	token = strings.TrimSpace(token)
	if len(token) < minGatewayTokenLength {
		return apperrors.ErrCredentialInvalid
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	sealed, err := s.vault.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}

	user.GatewayCredential = sealed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}
