package main

import (
	"errors"
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type addCartRequest struct {
	ProductID int64   `json:"productid"`
	Qty       int     `json:"quantity"`
	OptionIDs []int64 `json:"optionids,omitempty"`
}

type updateCartRequest struct {
	Qty        int    `json:"quantity"`
	OptionsKey string `json:"optionskey"`
}

func registerCartRoutes(g *echo.Group, cart *services.CartService, menu *services.MenuService, customers *services.CustomerService) {
	p := g.Group("/cart")
	p.Use(middleware.JWTMiddleware())

	resolveCustomer := func(c echo.Context) (int64, error) {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return 0, errors.New("unauthenticated")
		}
		cust, err := customers.Resolve(c.Request().Context(), claims.AuthID)
		if err != nil {
			return 0, err
		}
		return cust.CustomerID, nil
	}

	// GET cart
	p.GET("", func(c echo.Context) error {
		customerID, err := resolveCustomer(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cart.Get(customerID))
	})

	// ADD item (prices resolved from the live menu at add time)
	p.POST("", func(c echo.Context) error {
		customerID, err := resolveCustomer(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		item, err := menu.BuildCartItem(c.Request().Context(), req.ProductID, req.OptionIDs, req.Qty)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if err := cart.AddItem(customerID, *item); err != nil {
			if errors.Is(err, services.ErrQuantityLimit) {
				// the line was set to the cap; tell the customer
				return c.JSON(http.StatusOK, map[string]string{"message": "quantity limit reached, set to maximum"})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
	})

	// UPDATE quantity for one line (productid + optionskey identify the line)
	p.PUT("/:productid", func(c echo.Context) error {
		customerID, err := resolveCustomer(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		productID, _ := strconv.ParseInt(c.Param("productid"), 10, 64)
		req := new(updateCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cart.UpdateQuantity(customerID, productID, req.OptionsKey, req.Qty); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	// REMOVE one line
	p.DELETE("/:productid", func(c echo.Context) error {
		customerID, err := resolveCustomer(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		productID, _ := strconv.ParseInt(c.Param("productid"), 10, 64)
		optionsKey := c.QueryParam("optionskey")
		if err := cart.RemoveItem(customerID, productID, optionsKey); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		customerID, err := resolveCustomer(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		cart.Clear(customerID)
		return c.JSON(http.StatusOK, map[string]string{"message": "cleared"})
	})
}
