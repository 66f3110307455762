package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-erp-service/config"
	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/i18n"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/fekuna/omnipos-erp-service/pkg/middleware"
	"github.com/fekuna/omnipos-erp-service/pkg/validator"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	dashboardH "github.com/fekuna/omnipos-erp-service/internal/dashboard/handler"
	dashboardRepo "github.com/fekuna/omnipos-erp-service/internal/dashboard/repository"
	dashboardUC "github.com/fekuna/omnipos-erp-service/internal/dashboard/usecase"

	inventoryH "github.com/fekuna/omnipos-erp-service/internal/inventory/handler"
	inventoryRepo "github.com/fekuna/omnipos-erp-service/internal/inventory/repository"
	inventoryUC "github.com/fekuna/omnipos-erp-service/internal/inventory/usecase"

	locationH "github.com/fekuna/omnipos-erp-service/internal/location/handler"
	locationRepo "github.com/fekuna/omnipos-erp-service/internal/location/repository"
	locationUC "github.com/fekuna/omnipos-erp-service/internal/location/usecase"

	orderH "github.com/fekuna/omnipos-erp-service/internal/order/handler"
	orderRepo "github.com/fekuna/omnipos-erp-service/internal/order/repository"
	orderUC "github.com/fekuna/omnipos-erp-service/internal/order/usecase"

	productH "github.com/fekuna/omnipos-erp-service/internal/product/handler"
	productRepo "github.com/fekuna/omnipos-erp-service/internal/product/repository"
	productUC "github.com/fekuna/omnipos-erp-service/internal/product/usecase"

	userH "github.com/fekuna/omnipos-erp-service/internal/user/handler"
	userRepo "github.com/fekuna/omnipos-erp-service/internal/user/repository"
	userUC "github.com/fekuna/omnipos-erp-service/internal/user/usecase"
)

const healthPollInterval = 10 * time.Second

// Deps are the infrastructure clients the server wires into the feature packages.
// Cache, Search and Indexer may be nil; Publisher defaults to a no-op.
type Deps struct {
	Config     *config.Config
	DB         *sqlx.DB
	Logger     logger.ZapLogger
	Translator *i18n.Translator
	Metrics    *metrics.Metrics
	Verifier   auth.Verifier
	Cache      *cache.RedisClient
	Publisher  event.Publisher
	Search     productUC.Searcher
	Indexer    productUC.Indexer
}

type Server struct {
	echo   *echo.Echo
	grpc   *grpc.Server
	health *health.Server
	db     *sqlx.DB
	cfg    *config.Config
	logger logger.ZapLogger
}

func New(d Deps) *Server {
	s := &Server{
		echo:   echo.New(),
		health: health.NewServer(),
		db:     d.DB,
		cfg:    d.Config,
		logger: d.Logger,
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(middleware.ContextInterceptor(d.Logger)))
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)

	s.setupRouter(d)
	return s
}

// Handler exposes the HTTP router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) setupRouter(d Deps) {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(d.Logger, d.Translator)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestContext(d.Logger))
	e.Use(middleware.AccessLog(d.Logger))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Config.Server.AllowedOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(d.Config.Server.BodyLimit))
	e.Use(echomw.ContextTimeout(d.Config.Server.RequestTimeout))

	e.GET("/health", s.healthCheck)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	userUseCase := userUC.NewUserUseCase(userRepo.NewPGRepository(d.DB), d.Logger)
	locationUseCase := locationUC.NewLocationUseCase(locationRepo.NewPGRepository(d.DB), d.Logger)
	productUseCase := productUC.NewProductUseCase(productRepo.NewPGRepository(d.DB), productUC.Options{
		Cache:     d.Cache,
		CacheTTL:  d.Config.Redis.TTL,
		Search:    d.Search,
		Indexer:   d.Indexer,
		Index:     d.Config.Elastic.ProductIndex,
		Publisher: d.Publisher,
		Metrics:   d.Metrics,
	}, d.Logger)
	inventoryUseCase := inventoryUC.NewInventoryUseCase(inventoryRepo.NewPGRepository(d.DB),
		productUseCase, locationUseCase, inventoryUC.Options{
			Cache:     d.Cache,
			Publisher: d.Publisher,
			Metrics:   d.Metrics,
		}, d.Logger)
	orderUseCase := orderUC.NewOrderUseCase(orderRepo.NewPGRepository(d.DB),
		productUseCase, locationUseCase, orderUC.Options{
			Cache:     d.Cache,
			Publisher: d.Publisher,
			Metrics:   d.Metrics,
		}, d.Logger)
	dashboardUseCase := dashboardUC.NewDashboardUseCase(dashboardRepo.NewPGRepository(d.DB), dashboardUC.Options{
		Cache:   d.Cache,
		Metrics: d.Metrics,
	}, d.Logger)

	authenticate := auth.Authenticate(d.Verifier, userUseCase, d.Logger)
	api := e.Group("/api")

	userH.NewUserHandler(userUseCase, d.Logger).MapRoutes(api.Group("/auth"), authenticate)
	locationH.NewLocationHandler(locationUseCase, d.Logger).MapRoutes(api.Group("/locations", authenticate))
	productH.NewProductHandler(productUseCase, d.Logger).MapRoutes(api.Group("/products", authenticate))
	inventoryH.NewInventoryHandler(inventoryUseCase, d.Logger).MapRoutes(api.Group("/inventory", authenticate))
	orderH.NewOrderHandler(orderUseCase, d.Logger).MapRoutes(api.Group("/orders", authenticate))
	dashboardH.NewDashboardHandler(dashboardUseCase, d.Logger).MapRoutes(api.Group("/dashboard", authenticate))
}

func (s *Server) healthCheck(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		logger.FromContext(c.Request().Context(), s.logger).Error("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "timestamp": time.Now().UTC()})
}

// Run serves HTTP and gRPC until ctx is cancelled, then shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Server.GRPCPort)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting HTTP server", zap.String("port", s.cfg.Server.HTTPPort))
		if err := s.echo.Start(s.cfg.Server.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.logger.Info("starting gRPC server", zap.String("port", s.cfg.Server.GRPCPort))
		return s.grpc.Serve(lis)
	})
	g.Go(func() error {
		s.pollHealth(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down servers")
		s.health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.echo.Shutdown(shutdownCtx)
		s.grpc.GracefulStop()
		return err
	})
	return g.Wait()
}

// pollHealth reports SERVING on the gRPC health service while the database answers pings.
func (s *Server) pollHealth(ctx context.Context) {
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := s.db.PingContext(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if ctx.Err() == nil {
				s.logger.Warn("database ping failed", zap.Error(err))
			}
		}
		cancel()
		s.health.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
