package main

import (
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

// Customer-facing order routes. Clients poll these for fresh snapshots;
// every response is the authoritative state as of the fetch.
func registerOrderRoutes(g *echo.Group, orders *services.OrderService, customers *services.CustomerService) {
	p := g.Group("/orders")
	p.Use(middleware.JWTMiddleware())

	withCustomer := func(c echo.Context, fn func(customerID int64) error) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		cust, err := customers.Resolve(c.Request().Context(), claims.AuthID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return fn(cust.CustomerID)
	}

	p.GET("", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			list, err := orders.ListForCustomer(c.Request().Context(), customerID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, list)
		})
	})

	p.GET("/:orderid", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			orderID, _ := strconv.ParseInt(c.Param("orderid"), 10, 64)
			o, err := orders.GetForCustomer(c.Request().Context(), orderID, customerID)
			if err != nil {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, o)
		})
	})

	p.POST("/:orderid/cancel", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			orderID, _ := strconv.ParseInt(c.Param("orderid"), 10, 64)
			if err := orders.CancelByCustomer(c.Request().Context(), orderID, customerID); err != nil {
				return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, map[string]string{"message": "cancelled"})
		})
	})

	p.POST("/:orderid/confirm-cash", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			orderID, _ := strconv.ParseInt(c.Param("orderid"), 10, 64)
			if err := orders.ConfirmCashCustomer(c.Request().Context(), orderID, customerID); err != nil {
				return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, map[string]string{"message": "cash confirmed"})
		})
	})
}

// Admin order routes: the kitchen marks accepted orders as in preparation.
func registerAdminOrderRoutes(g *echo.Group, orders *services.OrderService) {
	p := g.Group("/admin/orders")
	p.Use(middleware.JWTMiddleware(), middleware.AdminOnly)

	p.POST("/:orderid/preparing", func(c echo.Context) error {
		orderID, err := strconv.ParseInt(c.Param("orderid"), 10, 64)
		if err != nil || orderID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		}
		if err := orders.MarkPreparing(c.Request().Context(), orderID); err != nil {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "preparing"})
	})
}
