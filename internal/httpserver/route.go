package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Products  *ProductHTTP
	Cart      *CartHTTP
	Addresses *AddressHTTP
	AuthMW    *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)

	profile := e.Group("/profile", d.AuthMW.RequireAuth)
	profile.PATCH("/password", d.Auth.UpdatePassword)

	e.GET("/products", d.Products.GetProducts)
	e.GET("/products/:id", d.Products.GetProduct)
	e.GET("/search", d.Products.Search)

	admin := e.Group("/admin", d.AuthMW.RequireAdmin)
	admin.POST("/products", d.Products.CreateProduct)
	admin.PATCH("/products/:id", d.Products.PatchProduct)
	admin.DELETE("/products/:id", d.Products.DeleteProduct)

	cart := e.Group("/cart", d.AuthMW.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:product_id", d.Cart.ChangeQuantity)
	cart.DELETE("/items/:product_id", d.Cart.RemoveItem)
	cart.POST("/total", d.Cart.Total)

	addresses := e.Group("/addresses", d.AuthMW.RequireAuth)
	addresses.GET("", d.Addresses.List)
	addresses.POST("", d.Addresses.Add)
	addresses.PATCH("/:id", d.Addresses.Edit)
	addresses.DELETE("/:id", d.Addresses.Delete)
}
