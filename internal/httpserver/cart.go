package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/logging"
	"github.com/jkx4r/techify/internal/middleware/auth"
	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/service"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) identity(c echo.Context) (service.Identity, error) {
	id, ok := auth.GetIdentity(c)
	if !ok {
		return service.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.ListItems(ctx, id)
	if err != nil {
		l.Warn("get_cart_error", "error", err)
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	line, err := h.Svc.AddItem(ctx, id, req.ProductID)
	if err != nil {
		l.Warn("add_to_cart_error", "product_id", req.ProductID, "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, id.Handle, map[string]any{
		"type":      "cart_item_added",
		"username":  id.Handle,
		"productID": line.ProductID,
		"quantity":  line.Quantity,
	})

	l.Info("cart item added", "product_id", line.ProductID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) ChangeQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.change_quantity")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	productID, err := paramUint(c, "product_id")
	if err != nil {
		return mapError(c, err)
	}

	var req struct {
		Delta *int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil || req.Delta == nil {
		l.Warn("change_quantity_error", "status", 400)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "delta must be an integer"})
	}

	line, err := h.Svc.ChangeQuantity(ctx, id, productID, *req.Delta)
	if err != nil {
		l.Warn("change_quantity_error", "product_id", productID, "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, id.Handle, map[string]any{
		"type":      "cart_quantity_changed",
		"username":  id.Handle,
		"productID": productID,
		"delta":     *req.Delta,
	})

	if line == nil {
		return c.JSON(http.StatusOK, echo.Map{"product_id": productID, "deleted": true})
	}
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	productID, err := paramUint(c, "product_id")
	if err != nil {
		return mapError(c, err)
	}

	if err := h.Svc.RemoveItem(ctx, id, productID); err != nil {
		l.Warn("remove_item_error", "product_id", productID, "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, id.Handle, map[string]any{
		"type":      "cart_item_removed",
		"username":  id.Handle,
		"productID": productID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, id); err != nil {
		l.Warn("clear_cart_error", "error", err)
		return mapError(c, err)
	}

	l.Info("cart cleared", "username", id.Handle)
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}

// Total prices the checkbox selection the client posts; the selection itself
// is never persisted.
func (h *CartHTTP) Total(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.total")

	id, err := h.identity(c)
	if err != nil {
		return err
	}

	var req struct {
		Selected []uint `json:"selected"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}

	items, err := h.Svc.ListItems(ctx, id)
	if err != nil {
		l.Warn("total_error", "error", err)
		return mapError(c, err)
	}

	selected := make(map[uint]struct{}, len(req.Selected))
	for _, pid := range req.Selected {
		selected[pid] = struct{}{}
	}

	return c.JSON(http.StatusOK, echo.Map{"total": service.ComputeTotal(items, selected)})
}
