package main

import (
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
}

type createOptionRequest struct {
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalprice"`
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func registerMenuRoutes(g *echo.Group, ms *services.MenuService) {
	p := g.Group("/menu")

	// PUBLIC BROWSING
	p.GET("", func(c echo.Context) error {
		products, err := ms.ListProducts(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, products)
	})

	p.GET("/:productid/options", func(c echo.Context) error {
		productID, err := strconv.ParseInt(c.Param("productid"), 10, 64)
		if err != nil || productID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		}
		options, err := ms.ListOptions(c.Request().Context(), productID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, options)
	})

	// ADMIN MENU MANAGEMENT
	admin := p.Group("")
	admin.Use(middleware.JWTMiddleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(createProductRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := ms.CreateProduct(c.Request().Context(), req.Name, req.Description, req.Price, req.Category)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"productid": id})
	})

	admin.POST("/:productid/options", func(c echo.Context) error {
		productID, _ := strconv.ParseInt(c.Param("productid"), 10, 64)
		req := new(createOptionRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := ms.CreateOption(c.Request().Context(), productID, req.Name, req.AdditionalPrice)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"optionid": id})
	})

	admin.PUT("/:productid/availability", func(c echo.Context) error {
		productID, _ := strconv.ParseInt(c.Param("productid"), 10, 64)
		req := new(setAvailabilityRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ms.SetAvailability(c.Request().Context(), productID, req.Available); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})
}
