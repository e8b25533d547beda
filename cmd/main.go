package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"restaurant-order-service/internal/api"
	"restaurant-order-service/internal/client"
	"restaurant-order-service/internal/config"
	"restaurant-order-service/internal/entity"
	"restaurant-order-service/internal/repository"
	"restaurant-order-service/internal/service"
	"restaurant-order-service/migrations"
)

func connectDB(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg := config.Load()

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatalf("Failed to load business rules: %v", err)
	}

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateOrderSnapshots(3, db); err != nil {
		log.Fatalf("Failed to migrate order snapshot tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter("order-events")

	orderAPI := client.NewOrderAPIClient(cfg.OrderAPIURL)
	userAPI := client.NewUserAPIClient(cfg.UserAPIURL)
	menuAPI := client.NewMenuAPIClient(cfg.MenuAPIURL)
	adminAPI := client.NewAdminAPIClient(cfg.AdminAPIURL, cfg.AdminAPIToken)

	snapshotRepo := repository.NewOrderSnapshotRepository(db)

	cartService := service.NewCartService(rdb)
	authService := service.NewAuthService(rdb, []byte(cfg.JWTSecret))
	addressService := service.NewAddressService(userAPI, rules)
	trackerService := service.NewTrackerService(orderAPI, snapshotRepo)
	checkoutService := service.NewCheckoutService(cartService, userAPI, orderAPI, trackerService, rules, rdb, kafkaWriter)
	dashboardService := service.NewDashboardService(adminAPI, rules)

	authHandler := api.NewAuthHandler(authService)
	cartHandler := api.NewCartHandler(cartService)
	deliveryHandler := api.NewDeliveryHandler(addressService)
	checkoutHandler := api.NewCheckoutHandler(checkoutService)
	orderHandler := api.NewOrderHandler(trackerService)
	menuHandler := api.NewMenuHandler(menuAPI)
	dashboardHandler := api.NewDashboardHandler(dashboardService)

	// Keep the dashboard warm independently of admin page loads.
	go dashboardService.RefreshLoop(context.Background(), rules.DashboardPollInterval(), func(s *entity.DashboardSnapshot) {
		log.Printf("dashboard refreshed for %s: revenue %.2f over %d orders", s.Date, s.Stats.Revenue, s.Stats.OrderCount)
	})

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/auth/session", authHandler.CreateSession)
	e.GET("/menu", menuHandler.ListMenu)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "restaurant-order-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Customer routes behind the session token
	authed := e.Group("")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.SessionClaims)
		},
		SigningKey: []byte(cfg.JWTSecret),
	}))

	authed.DELETE("/auth/session", authHandler.DeleteSession)

	authed.GET("/cart", cartHandler.GetCart)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	authed.POST("/cart/items/:id/increase", cartHandler.IncreaseQty)
	authed.POST("/cart/items/:id/decrease", cartHandler.DecreaseQty)
	authed.DELETE("/cart", cartHandler.Clear)

	authed.POST("/delivery/pin", deliveryHandler.CheckPin)
	authed.GET("/addresses", deliveryHandler.ListAddresses)
	authed.POST("/addresses", deliveryHandler.SaveAddress)

	authed.POST("/checkout", checkoutHandler.Start)
	authed.GET("/checkout", checkoutHandler.Session)
	authed.POST("/checkout/address", checkoutHandler.SelectAddress)
	authed.GET("/checkout/preview", checkoutHandler.Preview)
	authed.POST("/checkout/place", checkoutHandler.Place)

	authed.GET("/orders", orderHandler.ListOrders)
	authed.GET("/orders/:id", orderHandler.GetOrder)

	// Back-office routes behind the admin credential
	admin := e.Group("/admin")
	admin.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.AdminAPIToken == "" || c.Request().Header.Get("Authorization") != "Bearer "+cfg.AdminAPIToken {
				return c.JSON(401, map[string]string{"error": "admin credential required"})
			}
			return next(c)
		}
	})
	admin.GET("/dashboard", dashboardHandler.GetDashboard)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.HTTPPort)))
}
