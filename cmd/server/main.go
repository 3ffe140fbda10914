package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/llm"
	geminillm "inkwell/internal/llm/gemini"
	mistralllm "inkwell/internal/llm/mistral"
	"inkwell/internal/ocr"
	mistralocr "inkwell/internal/ocr/mistral"
	"inkwell/internal/ocr/tesseract"
	"inkwell/internal/port"
	"inkwell/internal/preset"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/storage/local"
	s3storage "inkwell/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	ocr.RegisterProvider("mistral", func(cfg *config.OCRConfig) (port.OCRExtractor, error) {
		return mistralocr.NewExtractor(cfg), nil
	})
	ocr.RegisterProvider("tesseract", func(cfg *config.OCRConfig) (port.OCRExtractor, error) {
		return tesseract.NewExtractor(cfg), nil
	})

	llm.RegisterProvider("mistral", func(cfg *config.LLMProviderConfig) (port.CompletionFetcher, error) {
		return mistralllm.NewFetcher(cfg), nil
	})
	llm.RegisterProvider("gemini", func(cfg *config.LLMProviderConfig) (port.CompletionFetcher, error) {
		return geminillm.NewFetcher(cfg), nil
	})
}

func run() error {
	// Best effort: a missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registerProviders()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	jobRepo := postgres.NewFormatJobRepo(db)

	// Initialize storage
	var storage port.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		storage, err = s3storage.NewS3Client(&cfg.Storage)
	case "local":
		storage, err = local.NewLocalStore(&cfg.Storage)
	default:
		return fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize preset store with built-in defaults
	presetStore := preset.NewStore(cfg.Presets.Dir)
	if err := presetStore.Seed(); err != nil {
		return fmt.Errorf("failed to seed presets: %w", err)
	}

	// Initialize the extraction and completion strategies
	extractor, err := ocr.NewExtractor(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize ocr provider: %w", err)
	}

	fetcher, err := llm.NewFetcher(cfg.LLM.DirectConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize completion provider: %w", err)
	}

	var delegate port.CompletionFetcher
	if delegateCfg := cfg.LLM.DelegateConfig(); delegateCfg != nil {
		delegate, err = llm.NewFetcher(delegateCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize delegated completion provider: %w", err)
		}
		log.Printf("main: delegated completion provider %s enabled", delegateCfg.Provider)
	}

	// Initialize services
	formatSvc := service.NewFormatService(extractor, fetcher, delegate, presetStore, storage, jobRepo, cfg)
	presetSvc := service.NewPresetService(presetStore)

	// Initialize handlers
	documentH := handler.NewDocumentHandler(formatSvc)
	presetH := handler.NewPresetHandler(presetSvc)
	healthH := handler.NewHealthHandler(db)

	// Start the queue worker; it drains in-flight jobs on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewFormatQueueWorker(jobRepo, formatSvc, service.FormatQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(workerDone)
	}()

	// Setup router
	r := router.Setup(documentH, presetH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- r.Run(cfg.Server.Port)
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Printf("main: shutdown signal received")
		<-workerDone
		return nil
	}
}
