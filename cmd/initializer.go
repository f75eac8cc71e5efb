package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"communityBack/internal/cache"
	"communityBack/internal/cache/redis"
	"communityBack/internal/config"
	"communityBack/internal/db"
	"communityBack/internal/events"
	"communityBack/internal/feed"
	"communityBack/internal/handlers"
	"communityBack/internal/models"
	"communityBack/internal/repositories"
	"communityBack/internal/services"
	"communityBack/utils"
)

type application struct {
	logger *zap.Logger
	db     *sql.DB
	cache  cache.Cache
	bus    events.Bus
	hub    *feed.Hub
	tokens *utils.Manager

	unsubscribe func() error

	marketHandler     *handlers.ListingHandler
	propertyHandler   *handlers.ListingHandler
	moderationHandler *handlers.ModerationHandler
	mediaHandler      *handlers.MediaHandler
}

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*application, error) {
	sugar := logger.Sugar()
	app := &application{logger: logger}

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	app.db = conn
	if err := db.Migrate(conn, cfg.Database.Driver); err != nil {
		app.Close()
		return nil, err
	}
	dialect, err := repositories.DialectFor(cfg.Database.Driver)
	if err != nil {
		app.Close()
		return nil, err
	}
	logger.Info("database ready", zap.String("dialect", dialect.Name()))

	if cfg.Redis.Addr != "" {
		rc := redis.New(redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using in-memory cache", zap.Error(err))
			_ = rc.Close()
			app.cache = cache.NewMemory(cfg.Cache.MaxEntries, cfg.CacheTTL())
		} else {
			app.cache = rc
		}
	} else {
		app.cache = cache.NewMemory(cfg.Cache.MaxEntries, cfg.CacheTTL())
	}

	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSBus(cfg.NATS.URL, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.bus = bus
	} else {
		app.bus = events.NewLocalBus()
	}

	app.tokens, err = utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		app.Close()
		return nil, err
	}

	marketRepo := repositories.NewListingRepository(conn, dialect, repositories.MarketSchema)
	propertyRepo := repositories.NewListingRepository(conn, dialect, repositories.PropertySchema)
	marketService := services.NewListingService(marketRepo, app.cache, cfg.CacheTTL(), app.bus, sugar)
	propertyService := services.NewListingService(propertyRepo, app.cache, cfg.CacheTTL(), app.bus, sugar)

	mediaService := &services.MediaService{}
	if cfg.MediaEnabled() {
		uploader, err := utils.NewUploader(utils.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("media storage: %w", err)
		}
		mediaService.Uploader = uploader
	}

	app.hub = feed.NewHub(sugar, marketService, propertyService)
	app.unsubscribe, err = app.hub.Attach(app.bus)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.marketHandler = &handlers.ListingHandler{Service: marketService, Logger: sugar}
	app.propertyHandler = &handlers.ListingHandler{Service: propertyService, Logger: sugar}
	app.moderationHandler = &handlers.ModerationHandler{
		Services: map[models.ListingKind]*services.ListingService{
			models.KindMarket:   marketService,
			models.KindProperty: propertyService,
		},
		Logger: sugar,
	}
	app.mediaHandler = &handlers.MediaHandler{Service: mediaService, Logger: sugar}

	return app, nil
}

// Close releases everything initializeApp opened, in reverse order.
func (app *application) Close() {
	if app.unsubscribe != nil {
		_ = app.unsubscribe()
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.bus != nil {
		_ = app.bus.Close()
	}
	if app.cache != nil {
		_ = app.cache.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
