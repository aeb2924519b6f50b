package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"campus-canteen/analytics"
	"campus-canteen/cart"
	"campus-canteen/checkout"
	"campus-canteen/config"
	"campus-canteen/database"
	"campus-canteen/feed"
	"campus-canteen/helpers"
	"campus-canteen/logger"
	"campus-canteen/middleware"
	"campus-canteen/notifications"
	"campus-canteen/repository"
	"campus-canteen/routes"
	"campus-canteen/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Component:   "api",
		Environment: cfg.Environment,
	})
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("tracing setup failed", "error", err)
	}
	defer shutdownTracing(context.Background())

	hub := feed.NewHub()
	var (
		store     repository.Store
		persister cart.Persister
		watcher   *feed.ChangeStreamWatcher
	)
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		store = repository.NewMemoryStore()
		persister = cart.NewMemoryPersister()
	default:
		client, err := database.DBinstance(ctx, cfg.MongoURL)
		if err != nil {
			log.Fatal("mongo connection failed", "error", err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.DBName)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Warn("index creation failed", "error", err)
		}
		mongoStore := repository.NewMongoStore(db)
		store = mongoStore
		persister = cart.NewMongoPersister(db)
		if cfg.FeedMode == config.FeedChangeStream {
			watcher = feed.NewChangeStreamWatcher(mongoStore.Orders(), hub, log)
		}
	}

	// With a change stream the database reports every write itself.
	var publisher feed.Publisher = hub
	if watcher != nil {
		publisher = feed.Discard
	}

	carts := cart.NewSessions(persister, log)
	inbox := notifications.NewRegistry(log)
	reports := analytics.NewService(store, store, cfg.Location)
	orders := checkout.NewService(store, store, publisher, cfg.Location, log)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(log.Middleware())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Static("/frontend", cfg.FrontendDir)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/frontend") {
			c.File(filepath.Join(cfg.FrontendDir, "index.html"))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	routes.Register(router, routes.Deps{
		Store:            store,
		Carts:            carts,
		Checkout:         orders,
		Analytics:        reports,
		Hub:              hub,
		Publisher:        publisher,
		Notifications:    inbox,
		Tokens:           helpers.NewTokens(cfg.SecretKey, cfg.TokenTTL),
		Log:              log,
		AnalyticsRefresh: cfg.AnalyticsRefresh,
		SecureCookies:    cfg.Environment == "production",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return inbox.Track(gctx, hub)
	})
	g.Go(func() error {
		return carts.RunEviction(gctx, 10*time.Minute, 2*time.Hour)
	})
	if watcher != nil {
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil {
				log.Error("order change stream stopped, admin feed is no longer live", "error", err)
			}
			return nil
		})
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink := feed.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		sub := hub.Subscribe(256)
		g.Go(func() error {
			defer sink.Close()
			return feed.Forward(gctx, sub, sink, log.WithComponent("kafka"))
		})
		log.Info("exporting order events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	g.Go(func() error {
		log.Info("http server listening", "port", cfg.Port, "store", cfg.Store, "feed_mode", cfg.FeedMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
	}
	log.Info("shutdown complete")
}
