package main

import (
	"log"
	"os"

	"QuickBiteAPI/external/midtrans"

	"QuickBiteAPI/internal/db"
	"QuickBiteAPI/internal/metrics"
	"QuickBiteAPI/internal/repository"
	"QuickBiteAPI/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	processor := midtrans.NewProcessor()

	// ======================
	// REPOSITORIES
	// ======================
	authRepo := repository.NewAuthRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(authRepo, customerRepo)
	customerSvc := services.NewCustomerService(customerRepo)
	menuSvc := services.NewMenuService(menuRepo)
	cartSvc := services.NewCartService()
	couponSvc := services.NewCouponService(couponRepo)
	orderSvc := services.NewOrderService(orderRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, orderRepo, processor)
	checkoutSvc := services.NewCheckoutService(cartSvc, couponSvc, orderRepo, paymentRepo, processor)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	m := metrics.NewServerMetrics("api")
	e.Use(m.Middleware())
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/food-delivery")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerCustomerRoutes(api, customerSvc)
	registerMenuRoutes(api, menuSvc)
	registerCartRoutes(api, cartSvc, menuSvc, customerSvc)
	registerCouponRoutes(api, couponSvc, cartSvc, customerSvc)
	registerCheckoutRoutes(api, checkoutSvc, customerSvc)
	registerOrderRoutes(api, orderSvc, customerSvc)
	registerAdminOrderRoutes(api, orderSvc)
	registerCourierRoutes(api, orderSvc)
	registerPaymentRoutes(api, paymentSvc, customerSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
