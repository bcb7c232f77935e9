// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, токенами сброса пароля и предметами
// домашнего имущества. Предоставляет методы создания, чтения, обновления
// и удаления записей, а также транзакционное удаление учетной записи.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrEmailTaken возвращается при нарушении уникальности email,
// именно ограничение БД, а не предварительная проверка, служит
// защитой от гонки "проверил-вставил".
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound возвращается, когда запрошенная запись отсутствует.
var ErrNotFound = errors.New("record not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, токенами и предметами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
