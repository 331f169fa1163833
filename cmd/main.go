package main

import (
	"fmt"
	"os"

	"github.com/EduardoAE22/komerciohub/internal/handler"
	"github.com/EduardoAE22/komerciohub/internal/middleware"
	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/pkg/config"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/jwtutil"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found or error loading: %v\n", err)
	}

	// Load configuration
	conf, err := config.Load("komerciohub")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	// Initialize database connection
	_, err = database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Run migrations for all models
	if err := database.MigrateModels(model.AllModels()...); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Initialize JWT utility
	jwtutil.Initialize(&conf.JWT)

	// Initialize Echo framework
	e := echo.New()

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Public routes
	e.GET("/api/health", handler.Health)
	e.POST("/api/auth/login", handler.Login)

	// Secured routes - require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	users := api.Group("/users")
	users.GET("", handler.ListUsers)
	users.GET("/:id", handler.GetUser)
	users.POST("", handler.CreateUser)
	users.PUT("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)

	merchants := api.Group("/merchants")
	merchants.GET("", handler.ListMerchants)
	merchants.GET("/:id", handler.GetMerchant)
	merchants.POST("", handler.CreateMerchant)
	merchants.PUT("/:id", handler.UpdateMerchant)
	merchants.DELETE("/:id", handler.DeleteMerchant)

	branches := api.Group("/branches")
	branches.GET("", handler.ListBranches)
	branches.GET("/:id", handler.GetBranch)
	branches.POST("", handler.CreateBranch)
	branches.PUT("/:id", handler.UpdateBranch)
	branches.DELETE("/:id", handler.DeleteBranch)

	products := api.Group("/products")
	products.GET("", handler.ListProducts)
	products.GET("/:id", handler.GetProduct)
	products.POST("", handler.CreateProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.DELETE("/:id", handler.DeleteProduct)

	customers := api.Group("/customers")
	customers.GET("", handler.ListCustomers)
	customers.GET("/:id", handler.GetCustomer)
	customers.POST("", handler.CreateCustomer)
	customers.PUT("/:id", handler.UpdateCustomer)
	customers.DELETE("/:id", handler.DeleteCustomer)

	orders := api.Group("/orders")
	orders.GET("", handler.ListOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.POST("", handler.CreateOrder)
	orders.PATCH("/:id/pay", handler.PayOrder)

	reports := api.Group("/reports")
	reports.GET("/daily-sales", handler.DailySales)
	reports.GET("/sales-range", handler.SalesRange)
	reports.GET("/top-products", handler.TopProducts)
	reports.GET("/owner/daily-summary", handler.OwnerDailySummary)
	reports.GET("/owner/top-products", handler.OwnerTopProducts)

	// Start server
	log.Info("Starting komerciohub on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
