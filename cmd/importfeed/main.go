package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/application/importer"
	"github.com/Assey1152/orders/internal/infrastructure/config"
	"github.com/Assey1152/orders/internal/infrastructure/event"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
	"github.com/Assey1152/orders/internal/infrastructure/logger"
	"github.com/Assey1152/orders/internal/infrastructure/persistence"
)

// Operator-side feed import: applies a local price feed file to the
// catalog on behalf of a vendor account, without going through the
// partner API.
func main() {
	var (
		filePath   string
		ownerEmail string
		logLevel   string
	)
	flag.StringVar(&filePath, "file", "", "Path to the price feed file (required)")
	flag.StringVar(&ownerEmail, "owner", "", "Email of the vendor account owning the feed (required)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if filePath == "" || ownerEmail == "" {
		flag.Usage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open feed file", zap.String("file", filePath), zap.Error(err))
	}
	doc, err := feed.Parse(f)
	_ = f.Close()
	if err != nil {
		log.Fatal("Feed file is invalid", zap.String("file", filePath), zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := context.Background()

	userRepo := persistence.NewGormUserRepository(db.DB)
	owner, err := userRepo.FindByEmail(ctx, ownerEmail)
	if err != nil {
		log.Fatal("Vendor account not found", zap.String("email", ownerEmail), zap.Error(err))
	}
	if !owner.IsVendor() {
		log.Fatal("Account is not a vendor", zap.String("email", ownerEmail))
	}

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	scope := persistence.NewGormTransactionScope(db.DB)
	scope.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

	importService := importer.NewImportService(scope, feed.NewFetcher(&cfg.Feed), log)
	result, err := importService.ImportDocument(ctx, owner.ID, doc)
	if err != nil {
		log.Fatal("Import failed", zap.String("file", filePath), zap.Error(err))
	}

	log.Info("Feed imported",
		zap.String("file", filePath),
		zap.String("shop", result.Shop),
		zap.Int("categories", result.Categories),
		zap.Int("listings", result.Listings),
		zap.Int("parameters", result.Parameters),
	)
}
