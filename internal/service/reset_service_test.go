package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "pixflow/internal/errors"
	"pixflow/internal/model"
)

func TestResetService_Reset(t *testing.T) {
	validToken := func(expiresAt time.Time) *model.ResetToken {
		return &model.ResetToken{ID: 42, UserID: 7, Secret: "secret-uuid", ExpiresAt: expiresAt}
	}
	future := time.Now().Add(10 * time.Minute)
	past := time.Now().Add(-time.Minute)

	tests := []struct {
		name          string
		rawToken      string
		newPassword   string
		setupMock     func(*MockUserRepository, *MockResetTokenRepository)
		expectedError error
	}{
		{
			name:        "successful reset consumes the token",
			rawToken:    "42.secret-uuid",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
				mReset.On("FindByID", mock.Anything, uint(42)).Return(validToken(future), nil)
				mUser.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, MustChangePassword: true}, nil)
				mUser.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					if u.MustChangePassword {
						return false
					}
					return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nova1234")) == nil
				})).Return(nil)
				mReset.On("Delete", mock.Anything, uint(42)).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:        "policy failure never touches the token",
			rawToken:    "42.secret-uuid",
			newPassword: "short",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
			},
			expectedError: apperrors.ErrPasswordPolicy,
		},
		{
			name:        "malformed token",
			rawToken:    "no-dot-here",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
			},
			expectedError: apperrors.ErrResetTokenInvalid,
		},
		{
			name:        "non-numeric id",
			rawToken:    "abc.secret",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
			},
			expectedError: apperrors.ErrResetTokenInvalid,
		},
		{
			name:        "unknown token id",
			rawToken:    "42.secret-uuid",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
				mReset.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrResetTokenInvalid,
		},
		{
			name:        "secret mismatch destroys the token",
			rawToken:    "42.wrong-secret",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
				mReset.On("FindByID", mock.Anything, uint(42)).Return(validToken(future), nil)
				mReset.On("Delete", mock.Anything, uint(42)).Return(nil)
			},
			expectedError: apperrors.ErrResetTokenInvalid,
		},
		{
			name:        "expired token destroys the token",
			rawToken:    "42.secret-uuid",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
				mReset.On("FindByID", mock.Anything, uint(42)).Return(validToken(past), nil)
				mReset.On("Delete", mock.Anything, uint(42)).Return(nil)
			},
			expectedError: apperrors.ErrResetTokenInvalid,
		},
		{
			name:        "user deleted after token minted",
			rawToken:    "42.secret-uuid",
			newPassword: "nova1234",
			setupMock: func(mUser *MockUserRepository, mReset *MockResetTokenRepository) {
				mReset.On("FindByID", mock.Anything, uint(42)).Return(validToken(future), nil)
				mUser.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
				mReset.On("Delete", mock.Anything, uint(42)).Return(nil)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockResetRepo := new(MockResetTokenRepository)
			tt.setupMock(mockUserRepo, mockResetRepo)

			service := NewResetService(mockUserRepo, mockResetRepo)
			err := service.Reset(context.Background(), tt.rawToken, tt.newPassword)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}

			mockUserRepo.AssertExpectations(t)
			mockResetRepo.AssertExpectations(t)
		})
	}
}

func TestParseResetToken(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		expectedID uint
		secret     string
		wantErr    bool
	}{
		{name: "well formed", raw: "42.abc-def", expectedID: 42, secret: "abc-def"},
		{name: "secret containing dots", raw: "7.a.b.c", expectedID: 7, secret: "a.b.c"},
		{name: "surrounding whitespace", raw: "  9.s  ", expectedID: 9, secret: "s"},
		{name: "missing separator", raw: "42", wantErr: true},
		{name: "empty secret", raw: "42.", wantErr: true},
		{name: "non-numeric id", raw: "x.secret", wantErr: true},
		{name: "empty string", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, secret, err := parseResetToken(tt.raw)
			if tt.wantErr {
				assert.Equal(t, apperrors.ErrResetTokenInvalid, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
				assert.Equal(t, tt.secret, secret)
			}
		})
	}
}
