package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/shaymaabd/AMPA/internal/adapter/ebay"
	emailadapter "github.com/shaymaabd/AMPA/internal/adapter/email"
	"github.com/shaymaabd/AMPA/internal/adapter/llm"
	mongoadapter "github.com/shaymaabd/AMPA/internal/adapter/mongo"
	natsadapter "github.com/shaymaabd/AMPA/internal/adapter/nats"
	redisadapter "github.com/shaymaabd/AMPA/internal/adapter/redis"
	s3adapter "github.com/shaymaabd/AMPA/internal/adapter/storage/s3"
	"github.com/shaymaabd/AMPA/internal/adapter/webfetch"
	"github.com/shaymaabd/AMPA/internal/agreement"
	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/catalog"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"github.com/shaymaabd/AMPA/internal/platform/tracer"
	httpport "github.com/shaymaabd/AMPA/internal/port/http"
	"github.com/shaymaabd/AMPA/internal/repository"
	"github.com/shaymaabd/AMPA/internal/service"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *httpport.Server
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
	tracerShutdown tracer.ShutdownFunc
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	application := &App{cfg: cfg, log: appLogger}

	shutdownTracer, err := tracer.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		appLogger.Errorf("Failed to initialize tracer: %v", err)
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	application.tracerShutdown = shutdownTracer
	if cfg.Tracing.Endpoint == "" {
		appLogger.Info("Tracing endpoint not set, spans are not exported")
	}

	rate, err := decimal.NewFromString(cfg.Pricing.AEDRate)
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("invalid AED rate %q", cfg.Pricing.AEDRate)
	}

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	application.redisClient = redisClient
	appLogger.Info("Redis client initialized successfully")

	sessionRepo := redisadapter.NewSessionRepository(redisClient)
	appLogger.Info("SessionRepository initialized")

	var records repository.AgreementRepository
	if cfg.MongoDB.URI != "" {
		appLogger.Info("Initializing MongoDB client...")
		mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		application.mongoClient = mongoClient
		if err := mongoadapter.EnsureIndexes(ctx, mongoClient, cfg.MongoDB.Database); err != nil {
			appLogger.Warnf("Could not ensure agreement indexes: %v", err)
		}
		records = mongoadapter.NewAgreementRepository(mongoClient, cfg.MongoDB.Database)
		appLogger.Info("AgreementRepository initialized")
	} else {
		appLogger.Info("MONGO_URI not set, agreement audit disabled")
	}

	var archive repository.DocumentArchive
	if cfg.S3.Endpoint != "" {
		a, err := s3adapter.NewArchive(ctx, cfg.S3, appLogger)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize document archive: %w", err)
		}
		archive = a
		appLogger.Info("Document archive initialized")
	} else {
		appLogger.Info("S3_ENDPOINT not set, agreement archive disabled")
	}

	var events repository.EventPublisher
	if cfg.NATS.URL != "" {
		conn, err := natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
		}
		application.natsConn = conn
		events, err = natsadapter.NewPublisher(conn)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		appLogger.Info("Event publisher initialized")
	} else {
		appLogger.Info("NATS_URL not set, events disabled")
	}

	var mailer repository.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		appLogger.Info("SMTP sender initialized")
	} else {
		appLogger.Info("SMTP_HOST not set, inquiry email disabled")
	}

	m := metrics.NewMetricsManager(cfg.Metrics.Namespace)

	ebayClient := ebay.NewClient(cfg.Ebay, appLogger)
	formatter := catalog.NewFormatter(nil)
	filler := agreement.NewFiller(agreement.Options{
		CustomerName:    cfg.Agreement.CustomerName,
		CustomerAddress: cfg.Agreement.CustomerAddress,
		Representative:  cfg.Agreement.Representative,
		Rate:            rate,
	}, appLogger)
	fetcher := webfetch.NewFetcher(cfg.Fetch, appLogger)
	chatClient := llm.NewClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, appLogger)
	appLogger.Info("Remote clients initialized")

	sessionService := service.NewSessionService(sessionRepo, appLogger, cfg.Session.TTL)
	searchService := service.NewSearchService(ebayClient, formatter, sessionService, m, appLogger, service.SearchServiceConfig{
		PageSize:     cfg.Catalog.PageSize,
		SearchLimit:  cfg.Catalog.SearchLimit,
		PriceCeiling: cfg.Catalog.PriceCeiling,
		MaxRetries:   cfg.Ebay.MaxRetries,
		RetryDelay:   time.Second,
	})
	cartService := service.NewCartService(sessionService, events, m, appLogger, rate)
	agreementService := service.NewAgreementService(sessionService, filler, archive, records, events, m, appLogger, service.AgreementServiceConfig{
		TemplatePath: cfg.Agreement.TemplatePath,
	})
	inquiryService := service.NewInquiryService(sessionService, agreementService, mailer, appLogger, rate, "")
	chatService := service.NewChatService(chatClient, fetcher, sessionService, m, appLogger, service.ChatServiceConfig{
		DefaultModel:    cfg.Chat.Model,
		MaxTokens:       cfg.Chat.MaxTokens,
		FollowUpTokens:  cfg.Chat.FollowUpTokens,
		MaxHistoryTurns: cfg.Chat.MaxHistoryTurns,
	})
	appLogger.Info("Services initialized")

	handler := httpport.NewHandler(
		sessionService,
		searchService,
		cartService,
		agreementService,
		inquiryService,
		chatService,
		httpport.SessionCookieConfig{
			Secret: cfg.Session.JWTSecret,
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
		appLogger,
	)
	router := httpport.NewRouter(handler, m, httpport.RouterConfig{
		RequestTimeout: cfg.HTTPServer.RequestTimeout,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	application.server = httpport.NewServer(appLogger, httpport.ServerConfig{
		Port:         cfg.HTTPServer.Port,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}, router)
	appLogger.Info("HTTP server instance created")

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	a.closeClients(shutdownCtx)

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) closeClients(ctx context.Context) {
	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}
}
