// Package services содержит логику бизнес-уровня для работы с учетными
// записями: регистрация, вход, сброс и смена пароля, удаление аккаунта.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/home-inventory/internal/lib/password"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/lib/token"
	"github.com/magabrotheeeer/home-inventory/internal/models"
	"github.com/magabrotheeeer/home-inventory/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Намеренно не различает "нет такого пользователя" и "неверный пароль",
// чтобы не допускать перечисления зарегистрированных адресов.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken возвращается при попытке регистрации на занятый email.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidOrExpiredToken возвращается при завершении сброса
// с неизвестным или истекшим токеном.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

// PolicyError содержит список нарушений правил сложности пароля.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdatePasswordHash заменяет хэш пароля пользователя.
	UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error

	// DeleteUserCascade удаляет пользователя и зависимые записи одной транзакцией.
	DeleteUserCascade(ctx context.Context, userUID string) error
}

// ResetTokenRepository описывает контракт для хранения токенов сброса пароля.
type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, reset models.PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// ResetMailer описывает внешнего почтового коллаборатора.
type ResetMailer interface {
	SendPasswordReset(email, name, resetToken string) error
}

// AuthService отвечает за регистрацию, вход и жизненный цикл учетных данных.
type AuthService struct {
	users    UserRepository
	resets   ResetTokenRepository
	mailer   ResetMailer
	log      *slog.Logger
	resetTTL time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, resets ResetTokenRepository, mailer ResetMailer,
	log *slog.Logger, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		resets:   resets,
		mailer:   mailer,
		log:      log,
		resetTTL: resetTTL,
	}
}

// Register проверяет пароль по правилам сложности, хэширует его и
// создает нового пользователя. Сессия при этом не создается,
// после регистрации требуется явный вход.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, rawPassword string) (string, error) {
	const op = "auth.Register"

	if violations := password.ValidatePolicy(rawPassword); len(violations) > 0 {
		return "", &PolicyError{Violations: violations}
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        strings.ToLower(email),
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		// гонку "проверил-вставил" закрывает уникальный индекс БД,
		// поэтому признак дубликата берется из ошибки вставки
		if errors.Is(err, repository.ErrEmailTaken) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет учетные данные и возвращает пользователя.
// Отсутствующий пользователь и неверный пароль дают одну и ту же ошибку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset выдает одноразовый токен сброса и отправляет письмо.
//
// Для незарегистрированного email операция завершается так же успешно,
// как и для зарегистрированного: вызывающий не может отличить эти случаи.
// Сбой отправки письма логируется, но контракт ответа не меняет.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.RequestPasswordReset"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	resetToken, err := token.New()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	reset := models.PasswordResetToken{
		Token:     resetToken,
		UserUID:   user.UID,
		ExpiresAt: time.Now().UTC().Add(s.resetTTL),
	}
	if err := s.resets.CreateResetToken(ctx, reset); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.DisplayName(), resetToken); err != nil {
		s.log.Error("failed to send password reset email", sl.Err(err))
	}
	return nil
}

// CompletePasswordReset проверяет токен, устанавливает новый пароль
// и удаляет потребленный токен, исключая повторное использование.
func (s *AuthService) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	const op = "auth.CompletePasswordReset"

	reset, err := s.resets.GetResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if reset.Expired(time.Now().UTC()) {
		// истекшую запись можно сразу убрать, повторная проверка все равно ее отвергнет
		if err := s.resets.DeleteResetToken(ctx, resetToken); err != nil {
			s.log.Error("failed to delete expired reset token", sl.Err(err))
		}
		return ErrInvalidOrExpiredToken
	}

	if violations := password.ValidatePolicy(newPassword); len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, reset.UserUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// удаление после успешного обновления пароля, сбой удаления
	// не отменяет уже установленный пароль
	if err := s.resets.DeleteResetToken(ctx, resetToken); err != nil {
		s.log.Error("failed to delete consumed reset token", sl.Err(err))
	}
	return nil
}

// ChangePassword меняет пароль аутентифицированного пользователя
// после проверки текущего пароля.
func (s *AuthService) ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if violations := password.ValidatePolicy(newPassword); len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteAccount удаляет учетную запись и все зависимые данные
// одной транзакцией, без частичного удаления.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) error {
	const op = "auth.DeleteAccount"

	if err := s.users.DeleteUserCascade(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
