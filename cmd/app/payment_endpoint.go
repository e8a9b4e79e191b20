package main

import (
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerPaymentRoutes(g *echo.Group, ps *services.PaymentService, customers *services.CustomerService) {
	p := g.Group("/payments")

	// ============================
	// PROCESSOR NOTIFICATION
	// (NO JWT, must be public)
	// ============================
	p.POST("/notification", func(c echo.Context) error {
		var payload map[string]interface{}
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": "invalid payload",
			})
		}

		if err := ps.HandleProcessorNotification(
			c.Request().Context(),
			payload,
		); err != nil {
			// the processor requires HTTP 200 or it will retry forever
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": err.Error(),
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok",
		})
	})

	// ============================
	// INTENT (RE-)MINTING
	// (JWT protected)
	// ============================
	protected := p.Group("")
	protected.Use(middleware.JWTMiddleware())

	// Mint a fresh intent for an existing card order. This is the payment
	// retry path: the order id stays the same across attempts.
	protected.POST("/:orderid/intent", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		orderID, err := strconv.ParseInt(c.Param("orderid"), 10, 64)
		if err != nil || orderID <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
		}

		customer, err := customers.Resolve(c.Request().Context(), cl.AuthID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		intent, err := ps.CreateIntent(
			c.Request().Context(),
			orderID,
			customer.CustomerID,
			customer.Email,
		)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, intent)
	})
}
