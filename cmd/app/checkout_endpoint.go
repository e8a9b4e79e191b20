package main

import (
	"errors"
	"net/http"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerCheckoutRoutes(g *echo.Group, checkout *services.CheckoutService, customers *services.CustomerService) {
	p := g.Group("/checkout")
	p.Use(middleware.JWTMiddleware())

	p.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}
		customer, err := customers.Resolve(c.Request().Context(), claims.AuthID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		req := new(services.CheckoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		result, err := checkout.Checkout(c.Request().Context(), customer, *req)
		if err != nil {
			var vErr *services.ValidationError
			switch {
			case errors.As(err, &vErr):
				// detail-entry problem: the customer fixes it and re-submits
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{
					"error":  vErr.Error(),
					"reason": vErr.Reason,
				})
			case errors.Is(err, services.ErrEmptyCart):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			case result != nil:
				// order was created but the payment intent could not be
				// minted; the client retries payment against this order id
				return c.JSON(http.StatusBadGateway, echo.Map{
					"error":   err.Error(),
					"orderid": result.OrderID,
				})
			default:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
		}

		return c.JSON(http.StatusCreated, result)
	})
}
