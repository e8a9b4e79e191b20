package main

import (
	"net/http"
	"strconv"

	"QuickBiteAPI/internal/middleware"
	"QuickBiteAPI/internal/model"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type previewCouponRequest struct {
	Code string `json:"code"`
}

func registerCouponRoutes(g *echo.Group, coupons *services.CouponService, cart *services.CartService, customers *services.CustomerService) {
	p := g.Group("/coupons")
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

	p.GET("/available", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			list, err := coupons.ListAvailable(c.Request().Context(), customerID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, list)
		})
	})

	p.GET("/used", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			list, err := coupons.ListUsed(c.Request().Context(), customerID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, list)
		})
	})

	p.GET("/expired", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			list, err := coupons.ListExpired(c.Request().Context(), customerID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, list)
		})
	})

	// PREVIEW: resolve a code against the current cart subtotal. Checkout
	// re-resolves from scratch; this result is never trusted later.
	p.POST("/preview", func(c echo.Context) error {
		return withCustomer(c, func(customerID int64) error {
			req := new(previewCouponRequest)
			if err := c.Bind(req); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
			}
			subtotal := cart.Subtotal(customerID)
			res, err := coupons.Apply(c.Request().Context(), req.Code, subtotal, customerID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, res)
		})
	})

	// ADMIN COUPON MANAGEMENT
	admin := p.Group("/admin")
	admin.Use(middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		coupon := new(model.Coupon)
		if err := c.Bind(coupon); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := coupons.CreateCoupon(c.Request().Context(), coupon)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"couponid": id})
	})

	admin.DELETE("/:couponid", func(c echo.Context) error {
		couponID, _ := strconv.ParseInt(c.Param("couponid"), 10, 64)
		if err := coupons.DeactivateCoupon(c.Request().Context(), couponID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deactivated"})
	})
}
