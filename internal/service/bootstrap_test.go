package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pixflow/internal/model"
)

func TestEnsureAdmin(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(*MockUserRepository)
	}{
		{
			name:     "creates the admin when missing",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "admin@pixflow.local").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "admin@pixflow.local" &&
						u.Role == model.RoleAdmin &&
						u.Active &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("admin123")) == nil
				})).Return(nil)
			},
		},
		{
			name:     "falls back to the default password when policy is broken",
			password: "x",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "admin@pixflow.local").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(defaultAdminPassword)) == nil
				})).Return(nil)
			},
		},
		{
			name:     "leaves an existing account untouched",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "admin@pixflow.local").Return(&model.User{
					ID: 1, Email: "admin@pixflow.local", Role: model.RoleAdmin,
				}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			err := EnsureAdmin(context.Background(), mockRepo, "Admin@PixFlow.local", tt.password)

			assert.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}
