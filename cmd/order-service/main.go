package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-backend/application/commands"
	commandbus "ecommerce-backend/application/commands/bus"
	commandhandlers "ecommerce-backend/application/commands/handlers"
	"ecommerce-backend/application/ports"
	"ecommerce-backend/application/queries"
	querybus "ecommerce-backend/application/queries/bus"
	queryhandlers "ecommerce-backend/application/queries/handlers"
	"ecommerce-backend/application/sagas"
	"ecommerce-backend/domain/core/aggregates"
	"ecommerce-backend/infrastructure/config"
	"ecommerce-backend/infrastructure/messaging"
	"ecommerce-backend/infrastructure/messaging/kafka"
	"ecommerce-backend/infrastructure/persistence"
	"ecommerce-backend/infrastructure/persistence/memory"
	"ecommerce-backend/infrastructure/persistence/postgres"
	"ecommerce-backend/interfaces/http/rest"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Event store: Postgres when a DSN is configured, in-memory otherwise
	var eventStore ports.EventStore
	var deadLetters messaging.DeadLetterStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}

		eventStore = postgres.NewEventStore(db)
		deadLetters = messaging.NewPostgresDeadLetterStore(db)
		logger.Info("using postgres event store")
	} else {
		eventStore = memory.NewEventStore()
		deadLetters = messaging.NewMemoryDeadLetterStore()
		logger.Info("using in-memory event store")
	}

	// Message fabric: Kafka when brokers are configured, log-only otherwise
	var sender messaging.Sender
	var consumer messaging.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender := kafka.NewSender(cfg.KafkaBrokers, logger)
		defer kafkaSender.Close()
		sender = kafkaSender
		consumer = kafka.NewConsumer(cfg.KafkaBrokers, logger)
		logger.Info("using kafka message fabric", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		sender = messaging.NewLogSender(logger)
		logger.Info("no brokers configured, deliveries are log-only")
	}

	publisher := messaging.NewPublisher(sender, deadLetters, logger)
	sagaManager := sagas.NewManager(publisher, logger)

	orders := persistence.NewAggregateRepository(
		eventStore, publisher, aggregates.NewOrderAggregate, logger,
	)

	// Handler registration is explicit; a command type without a Register
	// call here simply has no handler.
	commandBus := commandbus.NewCommandBus()
	mustRegisterCommand(logger, commandBus, &commands.CreateOrderCommand{},
		commandhandlers.NewCreateOrderHandler(orders, sagaManager, logger))
	mustRegisterCommand(logger, commandBus, &commands.ConfirmOrderCommand{},
		commandhandlers.NewConfirmOrderHandler(orders, logger))
	mustRegisterCommand(logger, commandBus, &commands.CancelOrderCommand{},
		commandhandlers.NewCancelOrderHandler(orders, logger))

	queryBus := querybus.NewQueryBus()
	mustRegisterQuery(logger, queryBus, &queries.GetOrderQuery{},
		queryhandlers.NewGetOrderHandler(orders))
	mustRegisterQuery(logger, queryBus, &queries.GetOrderEventsQuery{},
		queryhandlers.NewGetOrderEventsHandler(eventStore))

	// Feed incoming domain events to the saga manager
	if consumer != nil {
		listener := messaging.NewEventListener(consumer, sagaManager, cfg.ConsumerGroup, logger)
		go listener.Run(ctx)
	}

	router := rest.NewRouter(commandBus, queryBus, logger)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	log.Println("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func mustRegisterCommand(logger *zap.Logger, b *commandbus.CommandBus, cmd commandbus.Command, handler commandbus.CommandHandler) {
	if err := b.Register(cmd, handler); err != nil {
		logger.Fatal("failed to register command handler", zap.Error(err))
	}
}

func mustRegisterQuery(logger *zap.Logger, b *querybus.QueryBus, query querybus.Query, handler querybus.QueryHandler) {
	if err := b.Register(query, handler); err != nil {
		logger.Fatal("failed to register query handler", zap.Error(err))
	}
}
