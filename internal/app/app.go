package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/zlog"

	kafka_impl "watermark-service/internal/broker/kafka"
	"watermark-service/internal/config"
	watermark_h "watermark-service/internal/http-server/handler/watermark"
	"watermark-service/internal/http-server/router"
	minio_repo "watermark-service/internal/repository/object/minio"
	"watermark-service/internal/repository/object/s3proxy"
	watermark_uc "watermark-service/internal/usecase/watermark"
	"watermark-service/internal/watermark"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	fonts := watermark.NewFontProvider(cfg.Font.Path)
	if err := fonts.Load(); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	engine := watermark.NewEngine(fonts, cfg.WatermarkOptions())

	proxy := s3proxy.NewClient(cfg, logger)

	var archive watermark_uc.FileRepository
	if cfg.Minio.Archive {
		fileRepo, err := minio_repo.NewFileRepository(cfg, retries, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file repository: %w", err)
		}
		archive = fileRepo
	}

	var producer *kafka_impl.ProducerClient
	var events watermark_uc.EventProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka_impl.NewProducerClient(cfg)
		events = producer
	}

	usecase := watermark_uc.NewWatermarkUsecase(engine, proxy, archive, events, logger, retries)

	watermarkHandler := watermark_h.NewWatermarkHandler(usecase, logger)

	h := &router.Handler{
		WatermarkHandler: watermarkHandler,
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Error().Err(err).Msg("Failed to close producer")
			}
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
