package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "pixflow/internal/errors"
	"pixflow/internal/model"
)

func TestAdminService_Invite(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		userName      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful invite",
			email:    "  New@Example.com ",
			userName: "New Merchant",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "new@example.com" &&
						u.Name == "New Merchant" &&
						u.Role == model.RoleUser &&
						u.Active &&
						u.MustChangePassword
				})).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "name defaults to email",
			email: "bare@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "bare@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Name == "bare@example.com"
				})).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already taken",
			email: "taken@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAdminService(mockRepo, new(MockResetTokenRepository), "http://localhost:5173")
			tempPassword, user, err := service.Invite(context.Background(), tt.email, tt.userName)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, tempPassword)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				// The temp password satisfies the login policy and matches
				// the stored hash.
				assert.True(t, PasswordIsValid(tempPassword))
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tempPassword)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAdminService_ToggleActive(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockUserRepository)
		expectedActive bool
		expectedError  error
	}{
		{
			name: "disable an active user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Role: model.RoleUser, Active: true}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.ID == 2 && !u.Active
				})).Return(nil)
			},
			expectedActive: false,
		},
		{
			name: "re-enable a disabled user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Role: model.RoleUser, Active: false}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.ID == 2 && u.Active
				})).Return(nil)
			},
			expectedActive: true,
		},
		{
			name: "admin accounts are immutable",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Role: model.RoleAdmin, Active: true}, nil)
			},
			expectedError: apperrors.ErrAdminImmutable,
		},
		{
			name: "unknown user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAdminService(mockRepo, new(MockResetTokenRepository), "http://localhost:5173")
			active, err := service.ToggleActive(context.Background(), 2)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedActive, active)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	t.Run("deletes a regular user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Role: model.RoleUser}, nil)
		mockRepo.On("DeleteCascade", mock.Anything, uint(2)).Return(nil)

		service := NewAdminService(mockRepo, new(MockResetTokenRepository), "http://localhost:5173")
		assert.NoError(t, service.DeleteUser(context.Background(), 2))
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin accounts are immutable", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin}, nil)

		service := NewAdminService(mockRepo, new(MockResetTokenRepository), "http://localhost:5173")
		assert.Equal(t, apperrors.ErrAdminImmutable, service.DeleteUser(context.Background(), 1))
		mockRepo.AssertExpectations(t)
	})
}

func TestAdminService_CreateResetLink(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := NewAdminService(mockRepo, new(MockResetTokenRepository), "http://localhost:5173")
		link, err := service.CreateResetLink(context.Background(), "nobody@example.com")

		assert.Equal(t, apperrors.ErrUserNotFound, err)
		assert.Empty(t, link)
	})

	t.Run("mints a single-use token and builds the link", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "merchant@example.com").Return(&model.User{ID: 7}, nil)

		var minted *model.ResetToken
		mockResetRepo := new(MockResetTokenRepository)
		mockResetRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ResetToken")).
			Run(func(args mock.Arguments) {
				minted = args.Get(1).(*model.ResetToken)
				minted.ID = 42
			}).
			Return(nil)

		// Trailing slash on the frontend URL must not double up.
		service := NewAdminService(mockRepo, mockResetRepo, "http://localhost:5173/")
		link, err := service.CreateResetLink(context.Background(), "Merchant@Example.com")

		assert.NoError(t, err)
		assert.NotNil(t, minted)
		assert.Equal(t, uint(7), minted.UserID)
		assert.NotEmpty(t, minted.Secret)
		assert.Equal(t, fmt.Sprintf("http://localhost:5173/reset?token=42.%s", minted.Secret), link)

		mockRepo.AssertExpectations(t)
		mockResetRepo.AssertExpectations(t)
	})
}
