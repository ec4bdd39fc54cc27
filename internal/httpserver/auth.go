package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/logging"
	"github.com/jkx4r/techify/internal/middleware/auth"
	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/service"
	"github.com/jkx4r/techify/internal/tokens"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("register_error", "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":     "user_registered",
		"username": user.Username,
	})

	l.Info("user registered", "username", user.Username)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	user, pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return mapError(c, err)
	}

	c.SetCookie(tokens.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))

	publish(c, h.Producer, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":     "user_logged_in",
		"username": user.Username,
	})

	l.Info("user logged in", "username", user.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"is_admin":      user.Role == models.RoleAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if refreshCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			l.Error("logout_error", "error", err)
			return mapError(c, err)
		}
	}

	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_password")

	id, ok := auth.GetIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: "authentication required"})
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	if err := h.Svc.UpdatePassword(ctx, id, req.NewPassword); err != nil {
		l.Warn("update_password_error", "error", err)
		return mapError(c, err)
	}

	l.Info("password updated", "username", id.Handle)
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}
