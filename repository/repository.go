package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is a generic data-access layer over a single gorm model. Services
// compose one per entity instead of talking to *gorm.DB directly for the
// common filter/create/update/delete paths; anything transactional or
// multi-entity drops down to the underlying handle.
type Repository[T any] struct {
	db *gorm.DB
}

// New builds a Repository for the entity type T.
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB exposes the underlying handle for transactions and joins.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// Get returns the first record matching the conditions, or (nil, nil) when no
// record exists.
func (r *Repository[T]) Get(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID returns the record with the given primary key, or (nil, nil).
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Filter returns all records matching the conditions.
func (r *Repository[T]) Filter(ctx context.Context, query interface{}, args ...interface{}) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).Where(query, args...).Find(&out).Error
	return out, err
}

// Count counts records matching the conditions.
func (r *Repository[T]) Count(ctx context.Context, query interface{}, args ...interface{}) (int64, error) {
	var model T
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model).Where(query, args...).Count(&cnt).Error
	return cnt, err
}

// Create inserts the record.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Save persists all fields of an already-loaded record.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}
