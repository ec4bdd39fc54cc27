package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
)

type testEnv struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Auth      *AuthService
	Catalog   *CatalogService
	Cart      *CartService
	Addresses *AddressBook
}

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// a single connection keeps every goroutine on the same in-memory
	// database and serializes concurrent transactions
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartLine{},
		&models.Address{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := InitTestDB(t)
	gormRepo := &repo.GormRepo{DB: db}

	catalog := &CatalogService{Repo: gormRepo}
	return &testEnv{
		DB:      db,
		Repo:    gormRepo,
		Catalog: catalog,
		Cart:    &CartService{Repo: gormRepo, Catalog: catalog},
		Auth: &AuthService{
			Repo:          gormRepo,
			JWTSecret:     []byte("test_jwt_secret"),
			RefreshSecret: []byte("test_refresh_secret"),
		},
		Addresses: &AddressBook{Repo: gormRepo},
	}
}

func customer(handle string) Identity {
	return Identity{Handle: handle, Role: models.RoleCustomer}
}

func admin() Identity {
	return Identity{Handle: "admin", Role: models.RoleAdmin}
}
