package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "pixflow/internal/errors"
	"pixflow/internal/repository"
)

// ResetService redeems password reset tokens. A token survives exactly one
// validation attempt: success consumes it, and any failure after lookup
// destroys it rather than leaving it open to retries.
type ResetService interface {
	Reset(ctx context.Context, rawToken, newPassword string) error
}

type resetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	now       func() time.Time
}

// NewResetService creates a new reset service.
func NewResetService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository) ResetService {
	return &resetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		now:       time.Now,
	}
}

// Reset validates "<id>.<secret>" and sets the new password. The password
// policy is checked first so a policy failure never consumes the token.
func (s *resetService) Reset(ctx context.Context, rawToken, newPassword string) error {
	if !PasswordIsValid(newPassword) {
		return apperrors.ErrPasswordPolicy
	}

	tokenID, secret, err := parseResetToken(rawToken)
	if err != nil {
		return err
	}

	token, err := s.resetRepo.FindByID(ctx, tokenID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) != 1 {
		_ = s.resetRepo.Delete(ctx, token.ID)
		return apperrors.ErrResetTokenInvalid
	}

	if token.Expired(s.now()) {
		_ = s.resetRepo.Delete(ctx, token.ID)
		return apperrors.ErrResetTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		_ = s.resetRepo.Delete(ctx, token.ID)
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
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

	if err := s.resetRepo.Delete(ctx, token.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

func parseResetToken(raw string) (uint, string, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", apperrors.ErrResetTokenInvalid
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", apperrors.ErrResetTokenInvalid
	}
	return uint(id), parts[1], nil
}
