// Package services содержит бизнес-логику для управления предметами
// домашнего имущества пользователя.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// ItemRepository определяет методы для работы с предметами в хранилище.
type ItemRepository interface {
	// CreateItem добавляет новый предмет и возвращает его ID.
	CreateItem(ctx context.Context, item models.Item) (int64, error)
	// ListItems возвращает предметы пользователя.
	ListItems(ctx context.Context, userUID string) ([]*models.Item, error)
	// GetItem возвращает предмет пользователя по ID.
	GetItem(ctx context.Context, userUID string, id int64) (*models.Item, error)
	// UpdateItem обновляет предмет, возвращает количество измененных записей.
	UpdateItem(ctx context.Context, item models.Item) (int64, error)
	// RemoveItem удаляет предмет, возвращает количество удаленных записей.
	RemoveItem(ctx context.Context, userUID string, id int64) (int64, error)
}

// InventoryService реализует бизнес-логику работы с предметами имущества.
type InventoryService struct {
	repo ItemRepository
	log  *slog.Logger
}

// NewInventoryService создает новый экземпляр InventoryService.
func NewInventoryService(repo ItemRepository, log *slog.Logger) *InventoryService {
	return &InventoryService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет предмет пользователю и возвращает его ID.
func (s *InventoryService) Create(ctx context.Context, userUID string, req models.DummyItem) (int64, error) {
	item := models.Item{
		UserUID:  userUID,
		Name:     req.Name,
		Category: req.Category,
		Room:     req.Room,
		Value:    req.Value,
		Notes:    req.Notes,
	}
	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("failed to create item: %w", err)
	}
	return id, nil
}

// List возвращает все предметы пользователя.
func (s *InventoryService) List(ctx context.Context, userUID string) ([]*models.Item, error) {
	items, err := s.repo.ListItems(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Read возвращает один предмет пользователя.
func (s *InventoryService) Read(ctx context.Context, userUID string, id int64) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, userUID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read item: %w", err)
	}
	return item, nil
}

// Update обновляет предмет пользователя, возвращает количество измененных записей.
func (s *InventoryService) Update(ctx context.Context, userUID string, id int64, req models.DummyItem) (int64, error) {
	item := models.Item{
		ID:       id,
		UserUID:  userUID,
		Name:     req.Name,
		Category: req.Category,
		Room:     req.Room,
		Value:    req.Value,
		Notes:    req.Notes,
	}
	affected, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("failed to update item: %w", err)
	}
	return affected, nil
}

// Remove удаляет предмет пользователя, возвращает количество удаленных записей.
func (s *InventoryService) Remove(ctx context.Context, userUID string, id int64) (int64, error) {
	affected, err := s.repo.RemoveItem(ctx, userUID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to remove item: %w", err)
	}
	return affected, nil
}
