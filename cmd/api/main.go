package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-erp-service/config"
	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/migrations"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/internal/product/listener"
	productRepo "github.com/fekuna/omnipos-erp-service/internal/product/repository"
	productUC "github.com/fekuna/omnipos-erp-service/internal/product/usecase"
	"github.com/fekuna/omnipos-erp-service/internal/server"
	"github.com/fekuna/omnipos-erp-service/pkg/broker"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-erp-service/pkg/i18n"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/fekuna/omnipos-erp-service/pkg/search"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     !cfg.IsProduction(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		ServiceName:       "omnipos-erp-service",
	})
	defer appLogger.Sync()

	translator, err := i18n.New()
	if err != nil {
		appLogger.Fatal("could not load locales", zap.Error(err))
	}

	// 3. Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.AutoMigrate {
		if err := migrations.Migrate(ctx, db); err != nil {
			appLogger.Fatal("could not migrate schema", zap.Error(err))
		}
	}
	if cfg.Postgres.Seed {
		if err := migrations.Seed(ctx, db, cfg.Auth.Mode == config.AuthModeDev); err != nil {
			appLogger.Fatal("could not seed data", zap.Error(err))
		}
	}

	// 4. Token verification
	var verifier auth.Verifier
	switch cfg.Auth.Mode {
	case config.AuthModeDev:
		if cfg.IsProduction() {
			appLogger.Fatal("AUTH_MODE=dev is not allowed in production")
		}
		appLogger.Warn("using development token verifier; any bearer token is accepted")
		verifier = auth.DevVerifier{}
	default:
		verifier = auth.NewJWTVerifier(cfg.Auth.SecretKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	}

	deps := server.Deps{
		Config:     cfg,
		DB:         db,
		Logger:     appLogger,
		Translator: translator,
		Metrics:    metrics.New("erp"),
		Verifier:   verifier,
		Publisher:  event.NopPublisher{},
	}

	// 5. Redis (optional)
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("could not connect to Redis, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.Cache = redisClient
			appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Kafka (optional)
	kafkaEnabled := len(cfg.Kafka.Brokers) > 0
	if kafkaEnabled {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()
		deps.Publisher = event.NewKafkaPublisher(producer, deps.Metrics, appLogger)
		appLogger.Info("publishing events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 7. Elasticsearch (optional)
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
		} else {
			if err := esClient.EnsureIndex(ctx, cfg.Elastic.ProductIndex, dto.IndexMapping); err != nil {
				appLogger.Warn("could not create product index", zap.Error(err))
			} else {
				go func() {
					n, err := productUC.Backfill(ctx, productRepo.NewPGRepository(db), esClient, cfg.Elastic.ProductIndex, appLogger)
					if err != nil {
						appLogger.Warn("product index backfill incomplete", zap.Int("indexed", n), zap.Error(err))
						return
					}
					appLogger.Info("product index backfilled", zap.Int("indexed", n))
				}()
			}
			deps.Search = esClient
			if kafkaEnabled {
				consumer := broker.NewConsumer(&broker.Config{
					Brokers: cfg.Kafka.Brokers,
					Topic:   cfg.Kafka.Topic,
					GroupID: cfg.Kafka.GroupID,
				})
				defer consumer.Close()
				go listener.NewSearchSyncListener(consumer, esClient, cfg.Elastic.ProductIndex, appLogger).Start(ctx)
			} else {
				deps.Indexer = esClient
			}
			appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 8. Serve until SIGINT/SIGTERM
	if err := server.New(deps).Run(ctx); err != nil {
		appLogger.Error("server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("server stopped")
}
