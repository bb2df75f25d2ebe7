package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"aipan-bazaar/internal/cart"
	"aipan-bazaar/internal/config"
	"aipan-bazaar/internal/database"
	custommiddleware "aipan-bazaar/internal/middleware"
	"aipan-bazaar/internal/repository"
	"aipan-bazaar/internal/service"
	"aipan-bazaar/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, dbService database.Service, redisClient *redis.Client) *Server {
	db := dbService.DB()

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := dbService.Health()
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			health["redis"] = "down"
		} else {
			health["redis"] = "up"
		}

		status := http.StatusOK
		if health["status"] != "up" || health["redis"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db)

	// Session cart state lives in Redis, scoped by the session header
	cartStore := cart.NewRedisStore(redisClient, time.Duration(cfg.Cart.TTLHours)*time.Hour)
	submitLocker := service.NewRedisSubmitLocker(redisClient)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(cartStore, productRepo)
	checkoutService := service.NewCheckoutService(orderRepo, cartStore, submitLocker, logger)
	orderService := service.NewOrderService(orderRepo)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	// Create middleware
	sessionMiddleware := custommiddleware.SessionMiddleware()
	authMiddleware := custommiddleware.AuthMiddleware(cfg.Auth.JWTSecret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	checkoutRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:checkout",
	}, logger)

	// Register routes
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	cartHandler.RegisterRoutes(router, sessionMiddleware)
	checkoutHandler.RegisterRoutes(router, sessionMiddleware, authMiddleware, checkoutRateLimit)
	orderHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
