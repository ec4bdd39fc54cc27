package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
)

// AddressBook caps every user at repo.MaxAddresses shipping addresses and
// scopes every mutation to the owner.
type AddressBook struct {
	Repo *repo.GormRepo
}

func (s *AddressBook) List(ctx context.Context, user Identity) ([]models.Address, error) {
	if user.Handle == "" {
		return nil, fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	return s.Repo.ListAddresses(ctx, user.Handle)
}

func (s *AddressBook) Add(ctx context.Context, user Identity, text string) (*models.Address, error) {
	if user.Handle == "" {
		return nil, fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	if text == "" {
		return nil, fmt.Errorf("address text required: %w", ErrValidation)
	}
	addr, limitReached, err := s.Repo.AddAddress(ctx, user.Handle, text)
	if err != nil {
		return nil, err
	}
	if limitReached {
		return nil, fmt.Errorf("at most %d addresses: %w", repo.MaxAddresses, ErrLimitReached)
	}
	return addr, nil
}

func (s *AddressBook) Edit(ctx context.Context, id uint, user Identity, text string) (*models.Address, error) {
	if user.Handle == "" {
		return nil, fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	if text == "" {
		return nil, fmt.Errorf("address text required: %w", ErrValidation)
	}
	addr, err := s.Repo.UpdateAddress(ctx, id, user.Handle, text)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("address %d: %w", id, ErrNotFound)
	}
	return addr, err
}

func (s *AddressBook) Delete(ctx context.Context, id uint, user Identity) error {
	if user.Handle == "" {
		return fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	return s.Repo.DeleteAddress(ctx, id, user.Handle)
}
