package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "pixflow/internal/errors"
	"pixflow/internal/model"
	"pixflow/internal/repository"
)

// resetTokenTTL is the validity window of an admin-minted reset token.
const resetTokenTTL = 20 * time.Minute

// AdminService handles account administration.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	Invite(ctx context.Context, email, name string) (tempPassword string, user *model.User, err error)
	ToggleActive(ctx context.Context, userID uint) (active bool, err error)
	DeleteUser(ctx context.Context, userID uint) error
	CreateResetLink(ctx context.Context, email string) (string, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.ResetTokenRepository
	frontendURL string
	now         func() time.Time
}

// NewAdminService creates a new admin service. frontendURL is the base for
// reset links handed to operators.
func NewAdminService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, frontendURL string) AdminService {
	return &adminService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// ListUsers returns all accounts, newest first.
func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// Invite creates a user with a temporary exactly-8-character password and the
// forced-change flag set.
func (s *adminService) Invite(ctx context.Context, email, name string) (string, *model.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, apperrors.ErrEmailTaken
	} else if err != gorm.ErrRecordNotFound {
		return "", nil, fmt.Errorf("check email: %w", err)
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return "", nil, fmt.Errorf("generate temp password: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash temp password: %w", err)
	}

	user := &model.User{
		Email:              email,
		Name:               name,
		PasswordHash:       string(hashed),
		Role:               model.RoleUser,
		Active:             true,
		MustChangePassword: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	return tempPassword, user, nil
}

// ToggleActive flips a user's active flag. Admin accounts are immutable.
func (s *adminService) ToggleActive(ctx context.Context, userID uint) (bool, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.IsAdmin() {
		return false, apperrors.ErrAdminImmutable
	}

	user.Active = !user.Active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("toggle user: %w", err)
	}
	return user.Active, nil
}

// DeleteUser removes a user and everything they own in one transaction.
// Admin accounts are immutable.
func (s *adminService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return apperrors.ErrAdminImmutable
	}

	if err := s.userRepo.DeleteCascade(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CreateResetLink mints a 20-minute single-use reset token for the user and
// returns the frontend link carrying "<id>.<secret>".
func (s *adminService) CreateResetLink(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token := &model.ResetToken{
		UserID:    user.ID,
		Secret:    uuid.NewString(),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("create reset token: %w", err)
	}

	return fmt.Sprintf("%s/reset?token=%d.%s", s.frontendURL, token.ID, token.Secret), nil
}

func (s *adminService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// generateTempPassword derives an exactly-8-character password from url-safe
// random material, dropping the separator characters.
func generateTempPassword() (string, error) {
	raw := make([]byte, 10)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	encoded = strings.NewReplacer("-", "", "_", "").Replace(encoded)
	if len(encoded) < passwordLength {
		return "temp1234", nil
	}
	return encoded[:passwordLength], nil
}
