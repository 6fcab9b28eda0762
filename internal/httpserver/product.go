package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/ovolkov/marketplace/internal/events"
	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/search"
	"github.com/ovolkov/marketplace/internal/service"
	"github.com/ovolkov/marketplace/internal/transport"
	"github.com/ovolkov/marketplace/internal/util"
	"github.com/ovolkov/marketplace/pkg/logging"
)

type ProductHTTP struct {
	Svc      *service.ProductService
	Catalog  *service.CatalogService
	Producer events.Publisher
	ES       *elasticsearch.Client
}

func (h *ProductHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.ProductTopic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHTTP) index(c echo.Context, product *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, product); err != nil {
		logging.FromContext(c.Request().Context()).Error("search index error", "error", err, "product_id", product.ID)
	}
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	products, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		return serviceError(c, "product.list", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	product, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, "product.get", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) ListMyProducts(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	products, err := h.Catalog.ListProductsBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return serviceError(c, "product.list_mine", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(c.Request().Context(), sellerID, req)
	if err != nil {
		return serviceError(c, "product.create", err)
	}

	h.publish(c, product.ID.String(), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"seller_id":  sellerID,
		"name":       product.Name,
	})
	h.index(c, product)

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.UpdateProduct(c.Request().Context(), sellerID, id, req)
	if err != nil {
		return serviceError(c, "product.update", err)
	}

	h.publish(c, product.ID.String(), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"seller_id":  sellerID,
		"name":       product.Name,
	})
	h.index(c, product)

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	sellerID, err := actorID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.DeleteProduct(c.Request().Context(), sellerID, id); err != nil {
		return serviceError(c, "product.delete", err)
	}

	h.publish(c, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
		"seller_id":  sellerID,
	})
	if h.ES != nil {
		if err := search.DeleteProduct(c.Request().Context(), h.ES, id); err != nil {
			logging.FromContext(c.Request().Context()).Error("search delete error", "error", err, "product_id", id)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := search.SearchProducts(c.Request().Context(), h.ES, q, from, limit)
	if err != nil {
		return serviceError(c, "product.search", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
