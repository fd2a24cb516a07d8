package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/config"
	"github.com/pandaloves/social-posts-app/internal/handler"
	"github.com/pandaloves/social-posts-app/internal/repository"
	"github.com/pandaloves/social-posts-app/internal/repository/badgerrepo"
	"github.com/pandaloves/social-posts-app/internal/repository/postgres"
	"github.com/pandaloves/social-posts-app/internal/repository/redisrepo"
	"github.com/pandaloves/social-posts-app/internal/server"
	"github.com/pandaloves/social-posts-app/internal/service"
)

func main() {
	ctx := context.Background()

	if err := config.LoadEnv(); err != nil {
		panic("failed to load environment variables: " + err.Error())
	}

	if err := config.InitConfig(); err != nil {
		panic("failed to initialize yaml config: " + err.Error())
	}

	logger := newLogger(viper.GetBool("app.debug"))
	defer logger.Sync()

	storage, closeStorage := openStorage(ctx, logger)
	defer closeStorage()

	var cache *redisrepo.RedisRepository
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: addr,
		})
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
		defer rdb.Close()
		cache = redisrepo.New(rdb)
	} else {
		logger.Info("REDIS_ADDR is not set, page cache disabled")
	}

	secret := []byte(os.Getenv("ACCESS_SECRET"))
	if len(secret) == 0 {
		logger.Panic("ACCESS_SECRET is not set")
	}

	tokenTTL := viper.GetDuration("app.token_ttl")
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	repos := repository.New(storage, cache)
	services := service.New(logger, repos, secret, tokenTTL)
	handlers := handler.New(logger, services, secret)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s", serverConfig.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}

// openStorage connects the backend chosen by app.storage: "postgres", or
// "badger" (the default) at app.badger_path, in memory when the path is empty.
func openStorage(ctx context.Context, logger *zap.Logger) (*repository.Storage, func()) {
	switch viper.GetString("app.storage") {
	case "postgres":
		db, err := postgres.DB(ctx, config.DBConfigFromEnv())
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")
		return postgres.New(db), db.Close
	default:
		path := viper.GetString("app.badger_path")
		db, err := badgerrepo.Open(path)
		if err != nil {
			logger.Sugar().Panicf("failed to open badger at %q: %s", path, err.Error())
		}
		logger.Sugar().Infof("Successfully opened badger (%q)", path)
		return badgerrepo.New(db), func() {
			if err := db.Close(); err != nil {
				logger.Sugar().Errorf("failed to close badger: %s", err.Error())
			}
		}
	}
}
