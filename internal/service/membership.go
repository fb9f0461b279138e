package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Membership helpers shared by Favorite, ShoppingCart and Follow. All three
// relations have the same toggle contract: create fails if the row already
// exists, delete fails if it does not. The unique index on the join table is
// the backstop against concurrent creates; gorm.ErrDuplicatedKey from the
// store is mapped to the same conflict error as the up-front check.

// addMembership inserts a join row unless one already matches cond.
func addMembership[T any](ctx context.Context, db *gorm.DB, row *T, cond map[string]interface{}) error {
	var count int64
	if err := db.WithContext(ctx).Model(new(T)).Where(cond).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// removeMembership deletes the join row matching cond; missing rows are an
// error, not a no-op.
func removeMembership[T any](ctx context.Context, db *gorm.DB, cond map[string]interface{}) error {
	res := db.WithContext(ctx).Where(cond).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
