package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/logging"
	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/repo"
	"github.com/jkx4r/techify/internal/service"
	"github.com/jkx4r/techify/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := paramUint(c, "id")
	if err != nil {
		return mapError(c, err)
	}

	prod, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "id", id, "error", err)
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("list_products_error", "error", err)
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	items, err := h.Svc.Search(ctx, c.QueryParam("q"))
	if err != nil {
		l.Error("search_error", "error", err)
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": len(items), "products": items})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req struct {
		Name        string   `json:"name"`
		Price       *float64 `json:"price"`
		Img         string   `json:"img"`
		Description string   `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}
	if req.Price == nil || *req.Price < 0 {
		return mapError(c, fmt.Errorf("price must be a non-negative number: %w", service.ErrValidation))
	}

	prod, err := h.Svc.Create(ctx, &models.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Img:         req.Img,
		Description: req.Description,
	})
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("product created", "id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := paramUint(c, "id")
	if err != nil {
		return mapError(c, err)
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Img         *string  `json:"img"`
		Description *string  `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: "invalid body"})
	}
	if req.Price != nil && *req.Price < 0 {
		return mapError(c, fmt.Errorf("price must be a non-negative number: %w", service.ErrValidation))
	}

	prod, err := h.Svc.Update(ctx, id, repo.PatchProduct{
		Name:        req.Name,
		Price:       req.Price,
		Img:         req.Img,
		Description: req.Description,
	})
	if err != nil {
		l.Warn("patch_product_error", "id", id, "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("product updated", "id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramUint(c, "id")
	if err != nil {
		return mapError(c, err)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_product_error", "id", id, "error", err)
		return mapError(c, err)
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("product deleted", "id", id)
	return c.NoContent(http.StatusNoContent)
}
