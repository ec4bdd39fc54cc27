package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/service"
	"github.com/jkx4r/techify/internal/tokens"
)

const identityKey = "identity"

// Middleware resolves the caller once per request from the access cookie,
// transparently rotating an expired pair through the refresh cookie.
type Middleware struct {
	Auth *service.AuthService
}

func New(auth *service.AuthService) *Middleware {
	return &Middleware{Auth: auth}
}

type validatorFunc func(id service.Identity) error

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(id service.Identity) error {
		if !id.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *Middleware) requireAuthWithValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if accessCookie, err := c.Cookie("accessToken"); err == nil && accessCookie.Value != "" {
			if id, rErr := m.Auth.Resolve(accessCookie.Value); rErr == nil {
				if validator != nil {
					if vErr := validator(id); vErr != nil {
						return vErr
					}
				}
				SetIdentity(c, id)
				return next(c)
			}
		}

		refreshCookie, err := c.Cookie("refreshToken")
		if err != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		user, pair, err := m.Auth.Refresh(c.Request().Context(), refreshCookie.Value)
		if err != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		c.SetCookie(tokens.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
		c.SetCookie(tokens.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))

		id := service.Identity{Handle: user.Username, Role: user.Role}
		if validator != nil {
			if vErr := validator(id); vErr != nil {
				return vErr
			}
		}
		SetIdentity(c, id)
		return next(c)
	}
}

func SetIdentity(c echo.Context, id service.Identity) {
	c.Set(identityKey, id)
}

func GetIdentity(c echo.Context) (service.Identity, bool) {
	id, ok := c.Get(identityKey).(service.Identity)
	return id, ok && id.Handle != ""
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
}
