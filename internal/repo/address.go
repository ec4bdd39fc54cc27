package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/models"
)

const MaxAddresses = 3

func (r *GormRepo) ListAddresses(ctx context.Context, username string) ([]models.Address, error) {
	var addrs []models.Address
	if err := r.DB.WithContext(ctx).
		Where("username = ?", username).
		Order("id ASC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

// AddAddress counts and inserts inside one transaction so two concurrent adds
// cannot both observe count=2 and break the cap. Postgres READ COMMITTED does
// not serialize two counting transactions by itself, so the check runs under a
// per-user advisory lock there; sqlite has a single writer and needs none.
func (r *GormRepo) AddAddress(ctx context.Context, username, text string) (*models.Address, bool, error) {
	addr := models.Address{Username: username, Text: text}
	limitReached := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", username).Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&models.Address{}).
			Where("username = ?", username).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxAddresses {
			limitReached = true
			return nil
		}
		return tx.Create(&addr).Error
	})
	if err != nil {
		return nil, false, err
	}
	if limitReached {
		return nil, true, nil
	}
	return &addr, false, nil
}

func (r *GormRepo) UpdateAddress(ctx context.Context, id uint, username, text string) (*models.Address, error) {
	res := r.DB.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND username = ?", id, username).
		Update("text", text)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var addr models.Address
	if err := r.DB.WithContext(ctx).First(&addr, id).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

// DeleteAddress is scoped to the owner; deleting someone else's address (or a
// missing one) affects no rows and is not an error.
func (r *GormRepo) DeleteAddress(ctx context.Context, id uint, username string) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND username = ?", id, username).
		Delete(&models.Address{}).Error
}
