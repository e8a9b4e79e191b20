package main

import (
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type reportProblemRequest struct {
	Detail string `json:"detail"`
}

// Courier routes. The courier dashboard polls /available and /mine; an
// order that disappeared from /available was claimed by someone else.
func registerCourierRoutes(g *echo.Group, orders *services.OrderService) {
	p := g.Group("/courier/orders")
	p.Use(middleware.JWTMiddleware(), middleware.CourierOnly)

	p.GET("/available", func(c echo.Context) error {
		list, err := orders.ListAvailable(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	p.GET("/mine", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		list, err := orders.ListForCourier(c.Request().Context(), claims.AuthID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	// courierAction wraps the transition endpoints: parse id, run, map
	// refusals to 409 so the dashboard refreshes its snapshot.
	courierAction := func(action func(c echo.Context, orderID, courierID int64) error, done string) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := middleware.GetClaims(c)
			orderID, err := strconv.ParseInt(c.Param("orderid"), 10, 64)
			if err != nil || orderID <= 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
			}
			if err := action(c, orderID, claims.AuthID); err != nil {
				return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, map[string]string{"message": done})
		}
	}

	p.POST("/:orderid/accept", courierAction(func(c echo.Context, orderID, courierID int64) error {
		return orders.Accept(c.Request().Context(), orderID, courierID)
	}, "accepted"))

	p.POST("/:orderid/release", courierAction(func(c echo.Context, orderID, courierID int64) error {
		return orders.Release(c.Request().Context(), orderID, courierID)
	}, "released"))

	p.POST("/:orderid/start", courierAction(func(c echo.Context, orderID, courierID int64) error {
		return orders.StartDelivery(c.Request().Context(), orderID, courierID)
	}, "en route"))

	p.POST("/:orderid/problem", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		orderID, err := strconv.ParseInt(c.Param("orderid"), 10, 64)
		if err != nil || orderID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		}
		req := new(reportProblemRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := orders.ReportProblem(c.Request().Context(), orderID, claims.AuthID, req.Detail); err != nil {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "problem reported"})
	})

	p.POST("/:orderid/confirm-cash", courierAction(func(c echo.Context, orderID, courierID int64) error {
		return orders.ConfirmCashCourier(c.Request().Context(), orderID, courierID)
	}, "cash confirmed"))

	p.POST("/:orderid/deliver", courierAction(func(c echo.Context, orderID, courierID int64) error {
		return orders.Deliver(c.Request().Context(), orderID, courierID)
	}, "delivered"))
}
