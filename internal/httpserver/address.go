package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/logging"
	"github.com/jkx4r/techify/internal/middleware/auth"
	"github.com/jkx4r/techify/internal/service"
)

type AddressHTTP struct {
	Svc *service.AddressBook
}

func (h *AddressHTTP) identity(c echo.Context) (service.Identity, error) {
	id, ok := auth.GetIdentity(c)
	if !ok {
		return service.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	addrs, err := h.Svc.List(ctx, id)
	if err != nil {
		l.Warn("list_addresses_error", "error", err)
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, addrs)
}

func (h *AddressHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.add")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	addr, err := h.Svc.Add(ctx, id, req.Text)
	if err != nil {
		l.Warn("add_address_error", "error", err)
		return mapError(c, err)
	}

	l.Info("address added", "username", id.Handle, "id", addr.ID)
	return c.JSON(http.StatusCreated, addr)
}

func (h *AddressHTTP) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.edit")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	addrID, err := paramUint(c, "id")
	if err != nil {
		return mapError(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	addr, err := h.Svc.Edit(ctx, addrID, id, req.Text)
	if err != nil {
		l.Warn("edit_address_error", "id", addrID, "error", err)
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	addrID, err := paramUint(c, "id")
	if err != nil {
		return mapError(c, err)
	}

	if err := h.Svc.Delete(ctx, addrID, id); err != nil {
		l.Warn("delete_address_error", "id", addrID, "error", err)
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
