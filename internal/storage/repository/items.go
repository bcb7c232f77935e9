package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// CreateItem сохраняет новый предмет имущества и возвращает его ID.
func (s *Storage) CreateItem(ctx context.Context, item models.Item) (int64, error) {
	const op = "storage.CreateItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO items (user_uid, name, category, room, value, notes)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		item.UserUID, item.Name, item.Category, item.Room, item.Value, item.Notes).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListItems возвращает все предметы пользователя.
func (s *Storage) ListItems(ctx context.Context, userUID string) ([]*models.Item, error) {
	const op = "storage.ListItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, category, room, value, notes, created_at
			  FROM items
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Item
	for rows.Next() {
		var item models.Item
		if err = rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.Category,
			&item.Room, &item.Value, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetItem возвращает предмет пользователя по ID. Предмет другого
// пользователя неотличим от отсутствующего.
func (s *Storage) GetItem(ctx context.Context, userUID string, id int64) (*models.Item, error) {
	const op = "storage.GetItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, category, room, value, notes, created_at
			  FROM items
			  WHERE id = $1 AND user_uid = $2`
	item := &models.Item{}
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&item.ID, &item.UserUID, &item.Name, &item.Category,
		&item.Room, &item.Value, &item.Notes, &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateItem обновляет предмет пользователя, возвращает количество измененных строк.
func (s *Storage) UpdateItem(ctx context.Context, item models.Item) (int64, error) {
	const op = "storage.UpdateItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items
			  SET name = $1, category = $2, room = $3, value = $4, notes = $5
			  WHERE id = $6 AND user_uid = $7`
	result, err := s.DB.ExecContext(ctx, query,
		item.Name, item.Category, item.Room, item.Value, item.Notes, item.ID, item.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// RemoveItem удаляет предмет пользователя, возвращает количество удаленных строк.
func (s *Storage) RemoveItem(ctx context.Context, userUID string, id int64) (int64, error) {
	const op = "storage.RemoveItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM items WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// CountItems возвращает количество предметов пользователя.
func (s *Storage) CountItems(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountItems"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE user_uid = $1`, userUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
