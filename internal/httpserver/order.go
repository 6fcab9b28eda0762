package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovolkov/marketplace/internal/events"
	"github.com/ovolkov/marketplace/internal/service"
	"github.com/ovolkov/marketplace/internal/transport"
	"github.com/ovolkov/marketplace/pkg/logging"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Catalog  *service.CatalogService
	Producer events.Publisher
}

func (h *OrderHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.OrderTopic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	customerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), customerID, req)
	if err != nil {
		return serviceError(c, "order.create", err)
	}

	h.publish(c, order.ID.String(), map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"user_id":      customerID,
		"total_amount": order.TotalAmount,
	})

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "order created successfully",
		"order":   order,
	})
}

func (h *OrderHTTP) ListOrdersByUser(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	orders, err := h.Svc.ListOrdersByUser(c.Request().Context(), actor, userID)
	if err != nil {
		return serviceError(c, "order.list_by_user", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListOrdersForSeller(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Catalog.ListOrdersForSeller(c.Request().Context(), sellerID)
	if err != nil {
		return serviceError(c, "order.list_for_seller", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHTTP) ListOrdersForProduct(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	resp, err := h.Catalog.ListOrdersForProduct(c.Request().Context(), sellerID, productID)
	if err != nil {
		return serviceError(c, "order.list_for_product", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateOrderStatus(c.Request().Context(), actor, orderID, req.OrderStatus)
	if err != nil {
		return serviceError(c, "order.update_status", err)
	}

	h.publish(c, order.ID.String(), map[string]any{
		"type":         "order_status_updated",
		"order_id":     order.ID,
		"order_status": order.OrderStatus,
	})

	return c.JSON(http.StatusOK, map[string]any{
		"message": "order status updated",
		"order":   order,
	})
}

func (h *OrderHTTP) UpdatePaymentStatus(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var req transport.UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdatePaymentStatus(c.Request().Context(), actor, orderID, req.PaymentStatus)
	if err != nil {
		return serviceError(c, "order.update_payment", err)
	}

	h.publish(c, order.ID.String(), map[string]any{
		"type":           "order_payment_updated",
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})

	return c.JSON(http.StatusOK, map[string]any{
		"message": "payment status updated",
		"order":   order,
	})
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateOrder(c.Request().Context(), actor, orderID, req)
	if err != nil {
		return serviceError(c, "order.update", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.Svc.DeleteOrder(c.Request().Context(), actor, orderID); err != nil {
		return serviceError(c, "order.delete", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order deleted"})
}
