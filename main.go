package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"livemart/internal/cache"
	"livemart/internal/cart"
	"livemart/internal/config"
	"livemart/internal/database"
	"livemart/internal/geocode"
	"livemart/internal/handlers"
	"livemart/internal/middleware"
	"livemart/internal/notify"
	"livemart/internal/orders"
	"livemart/internal/payment"
	"livemart/internal/store"
	"livemart/internal/store/memory"
	"livemart/internal/store/mongodb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	st := buildStore(cfg)
	ch := buildCache(cfg)
	notifier := buildNotifier(cfg)

	gateway := payment.NewRESTGateway(cfg.PaymentBaseURL, cfg.PaymentSecretKey, cfg.PaymentWebhookSecret)
	geocoder := geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent)

	aggregator := cart.NewAggregator(st)
	orderService := orders.NewService(st, notifier)

	handlers.RegisterValidations()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/auth/register", handlers.Register(st, geocoder, cfg.JWTSecret, cfg.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(st, cfg.JWTSecret, cfg.AccessTokenTTL))

	r.GET("/products", handlers.GetProducts(st))
	r.GET("/products/search", handlers.SearchProducts(st))
	r.GET("/products/:id", handlers.GetProduct(st))
	r.GET("/shops", handlers.GetShops(st, ch, cfg.ShopsCacheTTL))

	r.POST("/payments/webhook", handlers.PaymentWebhook(orderService, gateway))

	auth := r.Group("/")
	auth.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		auth.GET("/auth/me", handlers.GetProfile(st))

		auth.POST("/products", handlers.CreateProduct(st))
		auth.PUT("/products/:id", handlers.UpdateProduct(st))
		auth.DELETE("/products/:id", handlers.DeleteProduct(st))

		auth.GET("/cart", handlers.GetCart(aggregator))
		auth.POST("/cart", handlers.AddToCart(aggregator))
		auth.PUT("/cart", handlers.UpdateCart(aggregator))
		auth.DELETE("/cart/:productId", handlers.RemoveFromCart(aggregator))

		auth.POST("/orders", handlers.CreateOrder(orderService))
		auth.GET("/orders", handlers.GetOrders(orderService))
		auth.GET("/orders/:id", handlers.GetOrder(orderService))
		auth.PATCH("/orders/:id", handlers.UpdateOrder(orderService))

		auth.POST("/payments/intent", handlers.CreatePaymentIntent(orderService, gateway))
		auth.POST("/payments/verify", handlers.VerifyPayment(orderService, gateway))

		auth.POST("/feedback", handlers.CreateFeedback(st))
		auth.GET("/feedback", handlers.GetFeedback(st))

		auth.POST("/queries", handlers.CreateQuery(st))
		auth.GET("/queries", handlers.GetQueries(st))
		auth.GET("/queries/:id", handlers.GetQuery(st))
		auth.POST("/queries/:id/responses", handlers.RespondToQuery(st))
		auth.PATCH("/queries/:id", handlers.UpdateQueryStatus(st))
	}

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildStore connects to MongoDB when MONGO_URI is set and falls back to the
// in-memory store otherwise, which keeps local development dependency-free.
func buildStore(cfg *config.Config) store.Store {
	if cfg.MongoURI == "" {
		log.Warn().Msg("MONGO_URI not set, using in-memory store")
		return memory.New()
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	db := client.Database(cfg.DBName)
	log.Info().Str("database", db.Name()).Msg("MongoDB connected")

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Warn().Err(err).Msg("user index creation failed")
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Warn().Err(err).Msg("product index creation failed")
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Warn().Err(err).Msg("order index creation failed")
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Warn().Err(err).Msg("cart index creation failed")
	}

	return mongodb.New(db)
}

func buildCache(cfg *config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, shop listings will not be cached")
		return cache.Noop{}
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	return redisCache
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	var notifiers notify.Multi

	if cfg.SMTPHost != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom))
	}
	if cfg.SMSAccountSID != "" {
		notifiers = append(notifiers, notify.NewSMSNotifier(cfg.SMSBaseURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFrom))
	}

	if len(notifiers) == 0 {
		return notify.Noop{}
	}
	return notifiers
}
