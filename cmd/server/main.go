package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AnshRaj112/coffeemates-backend/internal/config"
	"github.com/AnshRaj112/coffeemates-backend/internal/database"
	"github.com/AnshRaj112/coffeemates-backend/internal/handlers"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/routes"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/mongo"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/postgres"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/redis"
)

const shutdownTimeout = 10 * time.Second

var errTerminated = errors.New("terminated")

func main() {
	cfg := config.Load()

	logrus.SetLevel(cfg.ParseLogLevel())
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to PostgreSQL")
	}
	defer pg.Close()

	if err := postgres.InitTables(ctx, pg); err != nil {
		logrus.WithError(err).Fatal("failed to init PostgreSQL tables")
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rdb.Close()

	mdb, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer database.DisconnectMongo(mdb)

	store := mongo.New(mdb)
	if err := store.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("failed to ensure MongoDB indexes")
	}

	var uploader services.Uploader = services.DisabledUploader{}
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logrus.WithError(err).Warn("file uploads will not be available")
		} else {
			uploader = cld
			logrus.Info("cloudinary service initialized")
		}
	} else {
		logrus.Warn("cloudinary credentials not found; file uploads will not be available")
	}

	if cfg.GoogleAPIKey == "" {
		logrus.Warn("GOOGLE_API_KEY not set; place lookups will fail")
	}

	kv := redis.New(rdb)
	hub := realtime.NewHub(rdb, logrus.StandardLogger())

	sessions := services.NewSessionService(kv)
	saved := services.NewSavedService(kv)
	cache := services.NewCacheService(kv)
	profiles := services.NewProfileService(store, uploader, hub)
	settings := services.NewSettingsService(store)
	auth := services.NewAuthService(postgres.New(pg), profiles, sessions, saved)

	h := handlers.New(handlers.Deps{
		Auth:           auth,
		Profiles:       profiles,
		Feed:           services.NewFeedService(store, store, saved),
		Posts:          services.NewPostService(store, store, hub),
		Saved:          saved,
		Settings:       settings,
		Chats:          services.NewChatService(store, store, settings, uploader, hub),
		Places:         services.NewPlacesService(nil, cfg.PlacesBaseURL, cfg.GoogleAPIKey, cache),
		Uploader:       uploader,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: routes.NewRouter(h, auth, routes.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			TrustProxy:     cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	gr, gctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return hub.Run(gctx)
	})
	gr.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("coffeemates backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	gr.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
		case <-gctx.Done():
			return nil
		}

		cancel()
		return errTerminated
	})

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Error("server unexpectedly closed")
	}
	logrus.Info("server stopped")
}
