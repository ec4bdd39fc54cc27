package service

import (
	"context"
	"fmt"

	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
)

// CartService owns the (user, product) -> quantity mapping. Every operation
// takes the resolved caller explicitly; admins are denied all of them.
type CartService struct {
	Repo    *repo.GormRepo
	Catalog *CatalogService
}

func (s *CartService) guard(user Identity) error {
	if user.Handle == "" {
		return fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	if user.IsAdmin() {
		return fmt.Errorf("admins have no cart: %w", ErrForbidden)
	}
	return nil
}

func (s *CartService) AddItem(ctx context.Context, user Identity, productID uint) (*models.CartLine, error) {
	if err := s.guard(user); err != nil {
		return nil, err
	}
	if productID == 0 {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}
	if _, err := s.Catalog.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.Repo.AddLine(ctx, user.Handle, productID)
}

// ChangeQuantity applies a signed delta; the line is removed outright when the
// new quantity would drop below 1, and a missing line is a silent no-op so a
// double-clicked button stays harmless.
func (s *CartService) ChangeQuantity(ctx context.Context, user Identity, productID uint, delta int) (*models.CartLine, error) {
	if err := s.guard(user); err != nil {
		return nil, err
	}
	if productID == 0 {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}
	return s.Repo.ChangeQuantity(ctx, user.Handle, productID, delta)
}

func (s *CartService) RemoveItem(ctx context.Context, user Identity, productID uint) error {
	if err := s.guard(user); err != nil {
		return err
	}
	return s.Repo.RemoveLine(ctx, user.Handle, productID)
}

func (s *CartService) ListItems(ctx context.Context, user Identity) ([]repo.CartLineView, error) {
	if err := s.guard(user); err != nil {
		return nil, err
	}
	return s.Repo.ListLines(ctx, user.Handle)
}

func (s *CartService) Clear(ctx context.Context, user Identity) error {
	if err := s.guard(user); err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, user.Handle)
}

// ComputeTotal sums price*quantity over the selected product subset. The
// selection is presentation state passed in per call, never stored.
func ComputeTotal(items []repo.CartLineView, selected map[uint]struct{}) float64 {
	var total float64
	for _, it := range items {
		if _, ok := selected[it.ProductID]; ok {
			total += it.Price * float64(it.Quantity)
		}
	}
	return total
}
