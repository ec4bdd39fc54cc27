package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jkx4r/techify/internal/models"
	"github.com/jkx4r/techify/internal/repo"
)

func seedProduct(t *testing.T, env *testEnv, name string, price float64) *models.Product {
	t.Helper()
	prod := models.Product{Name: name, Price: price}
	require.NoError(t, env.DB.Create(&prod).Error)
	return &prod
}

func TestGetCartHandler(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "keyboard", 49.90)
	require.NoError(t, env.DB.Create(&models.CartLine{
		Username: "alice", ProductID: prod.ID, Quantity: 3,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/cart", nil)
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []repo.CartLineView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "keyboard", items[0].Name)
	require.Equal(t, uint(3), items[0].Quantity)
	require.InDelta(t, 49.90, items[0].Price, 1e-9)
}

func TestAddItemHandler(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "mouse", 19.90)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{"product_id": prod.ID})
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	require.Equal(t, "alice", line.Username)
	require.Equal(t, uint(1), line.Quantity)
}

func TestAddItemHandlerIgnoresBodyUsername(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "mouse", 19.90)

	// the handle comes from the resolved identity only; a username smuggled
	// into the body must not redirect the write to another cart
	rec, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{
		"product_id": prod.ID,
		"username":   "bob",
	})
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Where("username = ?", "bob").Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.DB.Model(&models.CartLine{}).Where("username = ?", "alice").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemHandlerAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "mouse", 19.90)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{"product_id": prod.ID})
	asUser(c, "admin", models.RoleAdmin)
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAddItemHandlerUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/items", map[string]any{"product_id": 404})
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeQuantityHandler(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "monitor", 200)
	require.NoError(t, env.DB.Create(&models.CartLine{
		Username: "alice", ProductID: prod.ID, Quantity: 1,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodPatch, "/cart/items/:product_id", map[string]any{"delta": 1})
	c.SetParamNames("product_id")
	c.SetParamValues("1")
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.ChangeQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	require.Equal(t, uint(2), line.Quantity)
}

func TestChangeQuantityHandlerRequiresDelta(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPatch, "/cart/items/:product_id", map[string]any{})
	c.SetParamNames("product_id")
	c.SetParamValues("1")
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.ChangeQuantity(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeQuantityHandlerDeletesAtFloor(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "monitor", 200)
	require.NoError(t, env.DB.Create(&models.CartLine{
		Username: "alice", ProductID: prod.ID, Quantity: 1,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodPatch, "/cart/items/:product_id", map[string]any{"delta": -1})
	c.SetParamNames("product_id")
	c.SetParamValues("1")
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.ChangeQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Deleted bool `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Deleted)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCartTotalHandler(t *testing.T) {
	env := newTestEnv(t)
	cheap := seedProduct(t, env, "cheap", 5)
	dear := seedProduct(t, env, "dear", 100)
	require.NoError(t, env.DB.Create(&models.CartLine{Username: "alice", ProductID: cheap.ID, Quantity: 2}).Error)
	require.NoError(t, env.DB.Create(&models.CartLine{Username: "alice", ProductID: dear.ID, Quantity: 1}).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/total", map[string]any{"selected": []uint{cheap.ID}})
	asUser(c, "alice", models.RoleCustomer)
	require.NoError(t, env.Cart.Total(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 10.0, resp.Total, 1e-9)
}
