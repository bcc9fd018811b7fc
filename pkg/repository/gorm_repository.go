package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
)

// Create inserts entity. A unique-index violation becomes a Conflict naming what.
func Create[T any](ctx context.Context, db *gorm.DB, what string, entity *T) error {
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if pkgerrors.IsDuplicateError(err) {
			return pkgerrors.Wrap(pkgerrors.ErrorTypeConflict, what+" already exists", err)
		}
		return fmt.Errorf("create %s: %w", what, err)
	}
	return nil
}

// FindOneBy loads the first row matching the condition, preloading the named
// associations. A missing row becomes a NotFound naming what.
func FindOneBy[T any](ctx context.Context, db *gorm.DB, what string, preloads []string, query string, args ...interface{}) (*T, error) {
	var entity T
	q := db.WithContext(ctx)
	for _, preload := range preloads {
		q = q.Preload(preload)
	}

	if err := q.Where(query, args...).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(what + " not found")
		}
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	return &entity, nil
}

// Exists reports whether any row of T matches the condition.
func Exists[T any](ctx context.Context, db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	var entity T
	if err := db.WithContext(ctx).Model(&entity).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteWhere removes every row of T matching the condition and returns how
// many went.
func DeleteWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...interface{}) (int64, error) {
	var entity T
	result := db.WithContext(ctx).Where(query, args...).Delete(&entity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count returns the total number of rows of T.
func Count[T any](ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	var entity T
	if err := db.WithContext(ctx).Model(&entity).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
