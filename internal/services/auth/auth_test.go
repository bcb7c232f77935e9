package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/home-inventory/internal/lib/password"
	"github.com/magabrotheeeer/home-inventory/internal/models"
	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
	"github.com/magabrotheeeer/home-inventory/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

func (m *UserRepoMock) DeleteUserCascade(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

// Мок для ResetTokenRepository
type ResetRepoMock struct {
	mock.Mock
}

func (m *ResetRepoMock) CreateResetToken(ctx context.Context, reset models.PasswordResetToken) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *ResetRepoMock) GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetToken), args.Error(1)
}

func (m *ResetRepoMock) DeleteResetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Мок для ResetMailer
type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendPasswordReset(email, name, resetToken string) error {
	args := m.Called(email, name, resetToken)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(users *UserRepoMock, resets *ResetRepoMock, mailer *MailerMock) *services.AuthService {
	return services.NewAuthService(users, resets, mailer, newNoopLogger(), time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		rawPass    string
		setupMocks func(r *UserRepoMock)
		wantUID    string
		wantErr    error
		wantPolicy bool
	}{
		{
			name:    "successful registration",
			email:   "Test@Example.com",
			rawPass: "Abcdef1!",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "Abcdef1!" &&
						user.FirstName == "Anna"
				})).Return("some-uuid-string", nil).Once()
			},
			wantUID: "some-uuid-string",
		},
		{
			name:       "weak password rejected before storage",
			email:      "test@example.com",
			rawPass:    "short",
			setupMocks: func(_ *UserRepoMock) {},
			wantPolicy: true,
		},
		{
			name:    "duplicate email",
			email:   "test@example.com",
			rawPass: "Abcdef1!",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", repository.ErrEmailTaken).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:    "storage error",
			email:   "test@example.com",
			rawPass: "Abcdef1!",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setupMocks(users)
			svc := newService(users, new(ResetRepoMock), new(MailerMock))

			uid, err := svc.Register(context.Background(), "Anna", "Petrova", tt.email, tt.rawPass)

			switch {
			case tt.wantPolicy:
				var policyErr *services.PolicyError
				require.ErrorAs(t, err, &policyErr)
				assert.NotEmpty(t, policyErr.Violations)
			case tt.wantErr != nil:
				require.Error(t, err)
				if errors.Is(tt.wantErr, services.ErrEmailTaken) {
					assert.ErrorIs(t, err, services.ErrEmailTaken)
				}
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("Abcdef1!")
	require.NoError(t, err)
	user := &models.User{
		UID:          "uid-1",
		Email:        "a@b.com",
		PasswordHash: hash,
		FirstName:    "A",
		LastName:     "B",
	}

	tests := []struct {
		name       string
		email      string
		rawPass    string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:    "successful login",
			email:   "a@b.com",
			rawPass: "Abcdef1!",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
			},
		},
		{
			name:    "wrong password",
			email:   "a@b.com",
			rawPass: "wrong",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			email:   "nobody@b.com",
			rawPass: "Abcdef1!",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@b.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setupMocks(users)
			svc := newService(users, new(ResetRepoMock), new(MailerMock))

			got, err := svc.Login(context.Background(), tt.email, tt.rawPass)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid-1", got.UID)
			}
			users.AssertExpectations(t)
		})
	}
}

// Неверный пароль и несуществующий email обязаны давать одинаковую ошибку.
func TestAuthService_Login_EnumerationResistance(t *testing.T) {
	hash, err := password.GetHash("Abcdef1!")
	require.NoError(t, err)

	users := new(UserRepoMock)
	users.On("GetUserByEmail", mock.Anything, "exists@b.com").
		Return(&models.User{UID: "uid-1", Email: "exists@b.com", PasswordHash: hash}, nil).Once()
	users.On("GetUserByEmail", mock.Anything, "ghost@b.com").
		Return(nil, repository.ErrNotFound).Once()
	svc := newService(users, new(ResetRepoMock), new(MailerMock))

	_, errWrongPass := svc.Login(context.Background(), "exists@b.com", "wrong")
	_, errNoUser := svc.Login(context.Background(), "ghost@b.com", "wrong")

	assert.ErrorIs(t, errWrongPass, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, services.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	user := &models.User{
		UID:       "uid-1",
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
	}

	t.Run("existing user gets token and email", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)
		mailer := new(MailerMock)

		users.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
		var savedToken string
		resets.On("CreateResetToken", mock.Anything, mock.MatchedBy(func(r models.PasswordResetToken) bool {
			savedToken = r.Token
			return r.UserUID == "uid-1" &&
				len(r.Token) == 64 &&
				time.Until(r.ExpiresAt) > 55*time.Minute &&
				time.Until(r.ExpiresAt) <= time.Hour
		})).Return(nil).Once()
		mailer.On("SendPasswordReset", "a@b.com", "A B", mock.MatchedBy(func(tok string) bool {
			return tok == savedToken
		})).Return(nil).Once()

		svc := newService(users, resets, mailer)
		require.NoError(t, svc.RequestPasswordReset(context.Background(), "a@b.com"))

		users.AssertExpectations(t)
		resets.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("unknown email is indistinguishable from success", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUserByEmail", mock.Anything, "ghost@b.com").
			Return(nil, repository.ErrNotFound).Once()
		mailer := new(MailerMock)

		svc := newService(users, new(ResetRepoMock), mailer)
		require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@b.com"))

		mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mail failure is swallowed", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)
		mailer := new(MailerMock)

		users.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
		resets.On("CreateResetToken", mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down")).Once()

		svc := newService(users, resets, mailer)
		assert.NoError(t, svc.RequestPasswordReset(context.Background(), "a@b.com"))
	})
}

func TestAuthService_CompletePasswordReset(t *testing.T) {
	t.Run("valid token before expiry updates hash and consumes token", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)

		// токен жил бы еще минуту
		resets.On("GetResetToken", mock.Anything, "tok").Return(&models.PasswordResetToken{
			Token:     "tok",
			UserUID:   "uid-1",
			ExpiresAt: time.Now().UTC().Add(time.Minute),
		}, nil).Once()
		users.On("UpdatePasswordHash", mock.Anything, "uid-1", mock.MatchedBy(func(hash string) bool {
			return password.CompareHash(hash, "Newpass1!") == nil
		})).Return(nil).Once()
		resets.On("DeleteResetToken", mock.Anything, "tok").Return(nil).Once()

		svc := newService(users, resets, new(MailerMock))
		require.NoError(t, svc.CompletePasswordReset(context.Background(), "tok", "Newpass1!"))

		users.AssertExpectations(t)
		resets.AssertExpectations(t)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)

		resets.On("GetResetToken", mock.Anything, "tok").Return(&models.PasswordResetToken{
			Token:     "tok",
			UserUID:   "uid-1",
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
		}, nil).Once()
		resets.On("DeleteResetToken", mock.Anything, "tok").Return(nil).Once()

		svc := newService(users, resets, new(MailerMock))
		err := svc.CompletePasswordReset(context.Background(), "tok", "Newpass1!")
		assert.ErrorIs(t, err, services.ErrInvalidOrExpiredToken)

		users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		resets := new(ResetRepoMock)
		resets.On("GetResetToken", mock.Anything, "gone").
			Return(nil, repository.ErrNotFound).Once()

		svc := newService(new(UserRepoMock), resets, new(MailerMock))
		err := svc.CompletePasswordReset(context.Background(), "gone", "Newpass1!")
		assert.ErrorIs(t, err, services.ErrInvalidOrExpiredToken)
	})

	t.Run("weak new password rejected without update", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)

		resets.On("GetResetToken", mock.Anything, "tok").Return(&models.PasswordResetToken{
			Token:     "tok",
			UserUID:   "uid-1",
			ExpiresAt: time.Now().UTC().Add(time.Minute),
		}, nil).Once()

		svc := newService(users, resets, new(MailerMock))
		var policyErr *services.PolicyError
		err := svc.CompletePasswordReset(context.Background(), "tok", "weak")
		require.ErrorAs(t, err, &policyErr)

		users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
		resets.AssertNotCalled(t, "DeleteResetToken", mock.Anything, mock.Anything)
	})

	t.Run("failure to delete consumed token is non-fatal", func(t *testing.T) {
		users := new(UserRepoMock)
		resets := new(ResetRepoMock)

		resets.On("GetResetToken", mock.Anything, "tok").Return(&models.PasswordResetToken{
			Token:     "tok",
			UserUID:   "uid-1",
			ExpiresAt: time.Now().UTC().Add(time.Minute),
		}, nil).Once()
		users.On("UpdatePasswordHash", mock.Anything, "uid-1", mock.Anything).Return(nil).Once()
		resets.On("DeleteResetToken", mock.Anything, "tok").
			Return(errors.New("db error")).Once()

		svc := newService(users, resets, new(MailerMock))
		assert.NoError(t, svc.CompletePasswordReset(context.Background(), "tok", "Newpass1!"))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash, err := password.GetHash("Current1!")
	require.NoError(t, err)
	user := &models.User{UID: "uid-1", Email: "a@b.com", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		users.On("UpdatePasswordHash", mock.Anything, "uid-1", mock.Anything).Return(nil).Once()

		svc := newService(users, new(ResetRepoMock), new(MailerMock))
		require.NoError(t, svc.ChangePassword(context.Background(), "uid-1", "Current1!", "Newpass1!"))
		users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		svc := newService(users, new(ResetRepoMock), new(MailerMock))
		err := svc.ChangePassword(context.Background(), "uid-1", "wrong", "Newpass1!")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weak new password", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		svc := newService(users, new(ResetRepoMock), new(MailerMock))
		var policyErr *services.PolicyError
		err := svc.ChangePassword(context.Background(), "uid-1", "Current1!", "weak")
		assert.ErrorAs(t, err, &policyErr)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	users := new(UserRepoMock)
	users.On("DeleteUserCascade", mock.Anything, "uid-1").Return(nil).Once()

	svc := newService(users, new(ResetRepoMock), new(MailerMock))
	require.NoError(t, svc.DeleteAccount(context.Background(), "uid-1"))
	users.AssertExpectations(t)
}
