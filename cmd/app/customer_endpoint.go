package main

import (
	"net/http"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type updateProfileRequest struct {
	Fullname *string `json:"fullname,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func registerCustomerRoutes(g *echo.Group, customers *services.CustomerService) {
	p := g.Group("/customers")
	p.Use(middleware.JWTMiddleware())

	p.GET("/me", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		cust, err := customers.Resolve(c.Request().Context(), claims.AuthID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cust)
	})

	p.PUT("/me", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		req := new(updateProfileRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := customers.UpdateProfile(c.Request().Context(), claims.AuthID, req.Fullname, req.Address, req.Phone); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})
}
