package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// CreateResetToken сохраняет новый токен сброса пароля.
// Ранее выданные токены пользователя при этом не аннулируются,
// одновременно может существовать несколько действующих токенов.
func (s *Storage) CreateResetToken(ctx context.Context, reset models.PasswordResetToken) error {
	const op = "storage.CreateResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO password_resets (token, user_uid, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		reset.Token, reset.UserUID, reset.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetResetToken возвращает запись токена сброса по его значению.
func (s *Storage) GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	const op = "storage.GetResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, user_uid, expires_at
			  FROM password_resets
			  WHERE token = $1`
	reset := &models.PasswordResetToken{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&reset.Token, &reset.UserUID, &reset.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reset, nil
}

// DeleteResetToken удаляет токен сброса, отмечая его потребленным.
// Удаление несуществующего токена не является ошибкой.
func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	const op = "storage.DeleteResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM password_resets WHERE token = $1`
	if _, err := s.DB.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
