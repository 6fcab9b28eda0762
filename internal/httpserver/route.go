package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/ovolkov/marketplace/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	OrderHandler   *OrderHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := authmw.New(d.JWTSecret)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)

	products := api.Group("/product")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/seller/me", d.ProductHandler.ListMyProducts, mw.RequireSeller)
	products.GET("/:id", d.ProductHandler.GetProduct, mw.RequireAuth)
	products.POST("", d.ProductHandler.CreateProduct, mw.RequireSeller)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, mw.RequireSeller)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, mw.RequireSeller)

	orders := api.Group("/order", mw.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/user/:userId", d.OrderHandler.ListOrdersByUser)
	orders.GET("/seller/me", d.OrderHandler.ListOrdersForSeller)
	orders.GET("/product/:productId", d.OrderHandler.ListOrdersForProduct)
	orders.PUT("/:orderId/status", d.OrderHandler.UpdateOrderStatus)
	orders.PUT("/:orderId/payment", d.OrderHandler.UpdatePaymentStatus)
	orders.PUT("/:orderId", d.OrderHandler.UpdateOrder)
	orders.DELETE("/:orderId", d.OrderHandler.DeleteOrder)
}
