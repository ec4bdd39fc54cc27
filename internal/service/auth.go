package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/hash"
	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
	"github.com/jkx4r/techify/internal/tokens"
)

// ErrAnonymous is the resolve outcome for a missing, expired or forged token.
var ErrAnonymous = errors.New("anonymous")

const (
	minUsernameLen = 3
	minPasswordLen = 8
	adminHandle    = "admin"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("username must be at least %d characters: %w", minUsernameLen, ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
	}
	// the unique constraint is the duplicate check; a pre-read would race
	// with a concurrent registration of the same handle
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username already taken: %w", ErrValidation)
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.Repo.GetUser(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrAnonymous)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrAnonymous)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, accessExp, err := tokens.NewAccessToken(user.Username, user.Role, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tokens.NewRefreshToken(user.Username, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		Username:  user.Username,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}

// Resolve turns an opaque access token into the caller's identity. The handle
// only ever comes out of the signed claims, never from client fields.
func (s *AuthService) Resolve(token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("missing token: %w", ErrAnonymous)
	}
	claims, err := tokens.AccessClaimsFromToken(token, s.JWTSecret)
	if err != nil || claims == nil {
		return Identity{}, fmt.Errorf("invalid token: %w", ErrAnonymous)
	}
	if claims.Username == "" || !claims.Role.Valid() {
		return Identity{}, fmt.Errorf("invalid claims: %w", ErrAnonymous)
	}
	return Identity{Handle: claims.Username, Role: claims.Role}, nil
}

// Refresh rotates a valid refresh token: the old row is revoked, a new pair is
// issued. The stored value is the sha256 of the token, so a leaked database
// dump cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil || claims == nil {
		return nil, nil, fmt.Errorf("invalid refresh token: %w", ErrAnonymous)
	}

	hashed := tokens.Sha256Hex(refreshToken)
	if _, err := s.Repo.GetRefreshToken(ctx, hashed); err != nil {
		return nil, nil, fmt.Errorf("refresh token revoked or expired: %w", ErrAnonymous)
	}

	user, err := s.Repo.GetUser(ctx, claims.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("unknown user: %w", ErrAnonymous)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, hashed); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *AuthService) UpdatePassword(ctx context.Context, user Identity, newPassword string) error {
	if user.Handle == "" {
		return fmt.Errorf("no authenticated user: %w", ErrForbidden)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}
	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.Repo.UpdatePassword(ctx, user.Handle, passwordHash)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %s: %w", user.Handle, ErrNotFound)
	}
	return err
}

// SeedAdmin creates the fixed admin account on first startup.
func (s *AuthService) SeedAdmin(ctx context.Context, password string) error {
	if password == "" {
		return nil
	}
	_, err := s.Repo.GetUser(ctx, adminHandle)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.CreateUser(ctx, &models.User{
		Username:     adminHandle,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	})
}
