package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Email приводится к нижнему регистру перед вставкой, нарушение уникальности
// транслируется в ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, timezone)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		strings.ToLower(user.Email), user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Timezone).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email (сравнение без учета регистра).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, first_name, last_name, phone, timezone, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, strings.ToLower(email))

	var phone, timezone sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &timezone, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if timezone.Valid {
		u.Timezone = &timezone.String
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, first_name, last_name, phone, timezone, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var phone, timezone sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &timezone, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if timezone.Valid {
		u.Timezone = &timezone.String
	}
	return u, nil
}

// UpdatePasswordHash обновляет хэш пароля пользователя.
func (s *Storage) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteUserCascade удаляет пользователя и все зависимые записи
// (токены сброса, предметы имущества) в одной транзакции.
// При любой ошибке транзакция откатывается целиком.
func (s *Storage) DeleteUserCascade(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUserCascade"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM password_resets WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM items WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
