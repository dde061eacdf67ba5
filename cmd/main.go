package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"marketplace/internal/app"
	"marketplace/internal/broker"
	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/middleware"
	"marketplace/internal/postgres"
	"marketplace/internal/repo"
	"marketplace/internal/service"
	"marketplace/pkg/cache"
	"marketplace/pkg/token"
	"marketplace/pkg/trm"

	"github.com/joho/godotenv"

	_ "marketplace/docs"
)

// @title           Marketplace API
// @version         1.0
// @description     Multi-vendor marketplace HTTP API
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	accountRepo := repo.NewAccountRepo(db)
	productRepo := repo.NewProductRepo(db)
	orderRepo := repo.NewOrderRepo(db)
	txManager := trm.NewManager(db)

	productCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	tokens := token.New(conf.JWT.Secret, conf.JWT.TTL)

	events := broker.NewPublisher(conf.Kafka)
	defer func() {
		if err := events.Close(); err != nil {
			logger.Error("failed to close event publisher", slog.Any("error", err))
		}
	}()

	authService := service.NewAuthService(logger, accountRepo, tokens)
	userService := service.NewUserService(logger, accountRepo)
	productService := service.NewProductService(logger, productRepo, productCache)
	orderService := service.NewOrderService(logger, txManager, orderRepo, productRepo, events, productCache)

	authMW := middleware.Auth(tokens, authService)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(
		handler.NewAuthHandler(logger, authService, authMW),
		handler.NewUserHandler(logger, userService, authMW),
		handler.NewProductHandler(logger, productService, authMW),
		handler.NewOrderHandler(logger, orderService, authMW),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	productCache.StartJanitor(ctx)

	application.Start(ctx)
	<-ctx.Done()
	application.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
