package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jkx4r/techify/internal/models"
)

// CartLineView is a cart line joined with its product, priced at read time.
type CartLineView struct {
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    uint    `json:"quantity"`
	Img         string  `json:"img"`
	Description string  `json:"description"`
}

func (r *GormRepo) ListLines(ctx context.Context, username string) ([]CartLineView, error) {
	var items []CartLineView
	err := r.DB.WithContext(ctx).
		Table("cart_lines").
		Select("products.id AS product_id, products.name, products.price, cart_lines.quantity, products.img, products.description").
		Joins("JOIN products ON products.id = cart_lines.product_id").
		Where("cart_lines.username = ?", username).
		Order("cart_lines.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddLine bumps the quantity of an existing (user, product) line or creates it
// with quantity 1. The write is a single INSERT .. ON CONFLICT on the composite
// unique index, so two concurrent adds can neither lose an increment nor leave
// one caller with a raw constraint error.
func (r *GormRepo) AddLine(ctx context.Context, username string, productID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + ?", 1)}),
		}).Create(&models.CartLine{Username: username, ProductID: productID, Quantity: 1}).Error; err != nil {
			return err
		}
		return tx.Where("username = ? AND product_id = ?", username, productID).First(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ChangeQuantity applies a signed delta to an existing line and drops the line
// the moment it would fall below 1. A missing line is a no-op. Returns the
// surviving line, or nil when the line was deleted or never existed.
func (r *GormRepo) ChangeQuantity(ctx context.Context, username string, productID uint, delta int) (*models.CartLine, error) {
	var line *models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("username = ? AND product_id = ?", username, productID).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("username = ? AND product_id = ? AND quantity < 1", username, productID).
			Delete(&models.CartLine{}).Error; err != nil {
			return err
		}

		var remaining models.CartLine
		err := tx.Where("username = ? AND product_id = ?", username, productID).First(&remaining).Error
		if err == nil {
			line = &remaining
			return nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *GormRepo) RemoveLine(ctx context.Context, username string, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("username = ? AND product_id = ?", username, productID).
		Delete(&models.CartLine{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, username string) error {
	return r.DB.WithContext(ctx).
		Where("username = ?", username).
		Delete(&models.CartLine{}).Error
}
