package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/formforge/form-service/internal/repository"
	"github.com/formforge/form-service/internal/service"
	"github.com/formforge/form-service/internal/transport/rest"
	"github.com/formforge/form-service/pkg/auth"
	"github.com/formforge/form-service/pkg/closer"
	"github.com/formforge/form-service/pkg/config"
	"github.com/formforge/form-service/pkg/health"
	"github.com/formforge/form-service/pkg/logger"
	"github.com/formforge/form-service/pkg/retrier"
	"github.com/formforge/form-service/pkg/transport/casher"
	"github.com/formforge/form-service/pkg/transport/publisher"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	connectRetries = 5
	connectSleep   = 2 // seconds between attempts
)

// mongoCloser adapts the driver's Disconnect to the closer interface.
type mongoCloser struct {
	client *mongo.Client
}

func (m mongoCloser) Close() error {
	return m.client.Disconnect(context.Background())
}

// mongoHealther reports database reachability for the health endpoint.
type mongoHealther struct {
	client *mongo.Client
}

func (m mongoHealther) IsHealthy() bool {
	return m.client.Ping(context.Background(), nil) == nil
}

func main() {
	cfg, err := config.Init("config.yaml")
	if err != nil {
		panic(err)
	}

	if err := logger.Init(logger.Config{
		LogFile:   cfg.Log.File,
		LogLevel:  cfg.Log.Level,
		AppName:   "form-service",
		AddCaller: true,
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("starting form service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := retrier.Connect(connectRetries, connectSleep, func() (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(cfg.Urls.Mongo))
	})
	if err != nil {
		log.Fatal("failed to connect to mongo", zap.Error(err))
	}

	redisClient, err := retrier.Connect(connectRetries, connectSleep, func() (*redis.Client, error) {
		opts, err := redis.ParseURL(cfg.Urls.Redis)
		if err != nil {
			return nil, err
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, err
		}

		return client, nil
	})
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	rabbitConn, err := retrier.Connect(connectRetries, connectSleep, func() (*amqp.Connection, error) {
		return amqp.Dial(cfg.Urls.Rabbitmq)
	})
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}

	cash := casher.Init(redisClient, log, cfg.Timeouts.CacheTTL)

	pub, err := publisher.Init(rabbitConn, log, cfg.Exchange.Output)
	if err != nil {
		log.Fatal("failed to init publisher", zap.Error(err))
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	formRepo := repository.InitFormRepository(db, log)
	userRepo := repository.InitUserRepository(db, log)

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	formService := service.InitFormService(formRepo, cash, pub, log, cfg.Timeouts.Operation)
	authService := service.InitAuthService(userRepo, issuer, log, cfg.Timeouts.Operation)

	handler := rest.InitHandler(formService, authService, log)
	router := rest.NewRouter(handler, issuer, log)

	healthChecker := health.NewHealthChecker(log,
		mongoHealther{client: mongoClient},
		cash,
		pub,
	)
	go healthChecker.StartHealthCheckServer(cfg.Health.Addr)

	closers := closer.NewCloserGroup(log,
		mongoCloser{client: mongoClient},
		cash,
		pub,
	)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down http server", zap.Error(err))
	}

	if err := closers.Close(); err != nil {
		log.Error("error closing dependencies", zap.Error(err))
		os.Exit(1)
	}

	log.Info("stopped")
}
