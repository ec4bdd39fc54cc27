package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jkx4r/techify/internal/middleware/auth"
	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/repo"
	"github.com/jkx4r/techify/internal/service"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Auth      *AuthHTTP
	Products  *ProductHTTP
	Cart      *CartHTTP
	Addresses *AddressHTTP
	AuthSvc   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartLine{},
		&models.Address{},
		&models.RefreshToken{},
	))

	gormRepo := &repo.GormRepo{DB: db}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte("test_jwt_secret"),
		RefreshSecret: []byte("test_refresh_secret"),
	}
	producer := &mykafka.Producer{}

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		Auth:      &AuthHTTP{Svc: authSvc, Producer: producer},
		Products:  &ProductHTTP{Svc: catalogSvc, Producer: producer},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: gormRepo, Catalog: catalogSvc}, Producer: producer},
		Addresses: &AddressHTTP{Svc: &service.AddressBook{Repo: gormRepo}},
		AuthSvc:   authSvc,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics what the auth middleware does after resolving the token.
func asUser(c echo.Context, handle string, role models.Role) {
	auth.SetIdentity(c, service.Identity{Handle: handle, Role: role})
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := http.Response{Header: rec.Header()}
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
