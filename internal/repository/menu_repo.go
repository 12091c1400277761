// Package repository provides the Postgres-backed implementations of the
// store interfaces the services depend on.
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/models"
)

// MenuRepo reads and writes menu items.
type MenuRepo struct {
	db *gorm.DB
}

// NewMenuRepo constructs a MenuRepo.
func NewMenuRepo(db *gorm.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// GetByIDs returns the menu items matching the given ids. Missing ids are
// simply absent from the result; callers compare lengths.
func (r *MenuRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
