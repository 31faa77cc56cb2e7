package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/postgresstore"
)

const (
	defaultRate    = 30
	defaultBooks   = 50
	defaultMembers = 20
)

// Config carries the parsed command-line configuration for the load generator.
type Config struct {
	Rate     int
	Duration time.Duration
	Books    int
	Members  int
	DSN      string
	Verbose  bool
}

func main() {
	cfg := parseFlags()

	logger := newLogger(cfg.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	bookStore, memberStore, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize stores", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	loadGen := NewLoadGenerator(bookStore, memberStore, cfg, logger)

	if err := loadGen.Seed(ctx); err != nil {
		logger.Error("Failed to seed books and members", "error", err)
		os.Exit(1)
	}

	// A positive duration bounds the run; zero means run until interrupted
	runCtx := ctx
	if cfg.Duration > 0 {
		var runCancel context.CancelFunc
		runCtx, runCancel = context.WithTimeout(ctx, cfg.Duration)
		defer runCancel()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- loadGen.Start(runCtx)
	}()

	logger.Info("Lending load generator started",
		"rate", cfg.Rate, "duration", cfg.Duration, "books", cfg.Books, "members", cfg.Members,
		"store", storeKind(cfg))
	logger.Info("Press Ctrl+C to stop...")

	// Wait for shutdown signal or generator exit
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, initiating graceful shutdown...", "signal", sig.String())
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil && ctx.Err() == nil && runCtx.Err() == nil {
			logger.Error("Load generation failed", "error", err)
		}
	}

	// Give some time for in-flight operations to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := loadGen.Stop(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}

	logger.Info("Load generator stopped")
}

func parseFlags() Config {
	var (
		reqRate  = flag.Int("rate", defaultRate, "Commands per second")
		duration = flag.Duration("duration", 0, "How long to run (0 = until interrupted)")
		books    = flag.Int("books", defaultBooks, "Number of books to seed")
		members  = flag.Int("members", defaultMembers, "Number of members to seed")
		dsn      = flag.String("dsn", "", "Postgres DSN (empty = in-memory stores)")
		verbose  = flag.Bool("verbose", false, "Log every command outcome")
	)

	flag.Parse()

	return Config{
		Rate:     *reqRate,
		Duration: *duration,
		Books:    *books,
		Members:  *members,
		DSN:      *dsn,
		Verbose:  *verbose,
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// buildStores selects in-memory or Postgres stores depending on the -dsn flag.
func buildStores(ctx context.Context, cfg Config) (lending.BookStore, lending.MemberStore, func(), error) {
	if cfg.DSN == "" {
		return memorystore.NewBookStore(), memorystore.NewMemberStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, nil, nil, pingErr
	}

	bookStore, err := postgresstore.NewBookStoreFromPGXPool(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	memberStore, err := postgresstore.NewMemberStoreFromPGXPool(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return bookStore, memberStore, pool.Close, nil
}

func storeKind(cfg Config) string {
	if cfg.DSN == "" {
		return "in-memory"
	}

	return "postgres"
}
