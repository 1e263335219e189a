package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deyvinz/connect44fx/internal/analytics"
	"github.com/deyvinz/connect44fx/internal/config"
	"github.com/deyvinz/connect44fx/internal/entity"
	"github.com/deyvinz/connect44fx/internal/repository"
	"github.com/deyvinz/connect44fx/internal/repository/storage"
	"github.com/deyvinz/connect44fx/internal/rounds"
	"github.com/deyvinz/connect44fx/internal/service"
	"github.com/deyvinz/connect44fx/internal/usecase"
	"github.com/deyvinz/connect44fx/transport/rest"
	"github.com/deyvinz/connect44fx/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	var archive *repository.RoundArchive
	if conf.Postgres.URL != "" {
		postgresStorage, postgresErr := storage.NewPostgresStorage(ctx, conf.Postgres.URL)
		if postgresErr != nil {
			return fmt.Errorf("could not connect to postgres storage: %w", postgresErr)
		}

		if postgresErr = postgresStorage.Init(ctx); postgresErr != nil {
			return fmt.Errorf("could not init postgres storage: %w", postgresErr)
		}

		defer func() {
			if closeErr := postgresStorage.Close(context.Background()); closeErr != nil {
				log.Error("could not close postgres storage", "error", closeErr)
			}
		}()

		archive = repository.NewRoundArchive(postgresStorage.Connection)
	} else {
		log.Info("Round archive disabled, no postgres url configured")
	}

	producer := analytics.NewProducer(logger, conf.Kafka.Brokers, conf.Kafka.Topic)
	defer func() {
		if closeErr := producer.Close(); closeErr != nil {
			log.Error("could not close analytics producer", "error", closeErr)
		}
	}()

	roundList, err := rounds.NewFileSource(conf.RoundsPath).Rounds()
	if err != nil {
		return fmt.Errorf("could not load rounds: %w", err)
	}

	humanPlayer := entity.NewHumanPlayer(conf.PlayerName, "")
	snapshotRepo := repository.NewSnapshotRepository(redisStorage.Connection)
	agentFactory := service.NewAgentFactory(nil, conf.BotDelay)
	manager := usecase.NewMatchManager(logger, snapshotRepo, archive, producer, humanPlayer, roundList, agentFactory, nil)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, manager).Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, manager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
