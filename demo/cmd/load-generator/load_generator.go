// Package main implements a load generator for the lending policy engine
// with configurable command rates and realistic borrow/reserve/return traffic.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/command/borrowbook"
	"github.com/librarykit/lending-policy-go/lending/features/command/reservebook"
	"github.com/librarykit/lending-policy-go/lending/features/command/returnbook"
)

// LoadGenerator seeds a library and fires randomized lending commands
// through the real command handlers at a rate-limited pace.
type LoadGenerator struct {
	bookStore   lending.BookStore
	memberStore lending.MemberStore
	config      Config
	logger      *slog.Logger

	borrowHandler  borrowbook.CommandHandler
	reserveHandler reservebook.CommandHandler
	returnHandler  returnbook.CommandHandler

	limiter  *rate.Limiter
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Seeded ids for random command targets
	bookIDs   []lending.BookIDString
	memberIDs []lending.MemberIDString

	// Outcome counters
	commandCount     int64
	grantedCount     int64
	rejectedByReason map[string]int64
	errorCount       int64
	startTime        time.Time
	mu               sync.RWMutex
}

// NewLoadGenerator creates a new LoadGenerator wired to the provided stores.
func NewLoadGenerator(bookStore lending.BookStore, memberStore lending.MemberStore, config Config, logger *slog.Logger) *LoadGenerator {
	return &LoadGenerator{
		bookStore:   bookStore,
		memberStore: memberStore,
		config:      config,
		logger:      logger,

		borrowHandler:  borrowbook.NewCommandHandler(bookStore),
		reserveHandler: reservebook.NewCommandHandler(bookStore),
		returnHandler:  returnbook.NewCommandHandler(bookStore, memberStore),

		limiter:          rate.NewLimiter(rate.Limit(config.Rate), 1),
		stopChan:         make(chan struct{}),
		rejectedByReason: make(map[string]int64),
	}
}

// Seed stores the configured number of books and members so that commands
// have real targets to hit.
func (lg *LoadGenerator) Seed(ctx context.Context) error {
	lg.bookIDs = make([]lending.BookIDString, 0, lg.config.Books)
	for i := 0; i < lg.config.Books; i++ {
		id := lending.BookIDString(uuid.New().String())
		book := lending.BuildBook(id, fmt.Sprintf("Load Test Book %d", i+1))

		if _, err := lg.bookStore.Save(ctx, book); err != nil {
			return fmt.Errorf("seeding book %d: %w", i+1, err)
		}

		lg.bookIDs = append(lg.bookIDs, id)
	}

	lg.memberIDs = make([]lending.MemberIDString, 0, lg.config.Members)
	for i := 0; i < lg.config.Members; i++ {
		id := lending.MemberIDString(uuid.New().String())
		member := lending.BuildMember(id, fmt.Sprintf("Load Test Member %d", i+1))

		if _, err := lg.memberStore.Save(ctx, member); err != nil {
			return fmt.Errorf("seeding member %d: %w", i+1, err)
		}

		lg.memberIDs = append(lg.memberIDs, id)
	}

	lg.logger.Info("Seeded library", "books", len(lg.bookIDs), "members", len(lg.memberIDs))

	return nil
}

// Start begins load generation with the configured command rate.
// It runs until the context is cancelled or Stop() is called.
func (lg *LoadGenerator) Start(ctx context.Context) error {
	lg.mu.Lock()
	lg.startTime = time.Now()
	lg.commandCount = 0
	lg.grantedCount = 0
	lg.errorCount = 0
	lg.rejectedByReason = make(map[string]int64)
	lg.mu.Unlock()

	lg.logger.Info("Load generation starting", "rate", lg.config.Rate)

	// Start stats reporting goroutine
	lg.wg.Add(1)
	go lg.statsReporter(ctx)

	// Main load generation loop
	for {
		select {
		case <-lg.stopChan:
			lg.logger.Info("Load generation stopping due to stop signal")
			return nil
		default:
		}

		if err := lg.limiter.Wait(ctx); err != nil {
			return err
		}

		lg.wg.Add(1)
		go lg.executeCommand(ctx)
	}
}

// Stop gracefully shuts down the load generator.
func (lg *LoadGenerator) Stop(ctx context.Context) error {
	select {
	case <-lg.stopChan:
	default:
		close(lg.stopChan)
	}

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		lg.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lg.logStats("Final stats")
		return nil
	case <-ctx.Done():
		lg.logStats("Final stats")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

// executeCommand runs one randomly chosen lending command against a random
// book and member.
func (lg *LoadGenerator) executeCommand(ctx context.Context) {
	defer lg.wg.Done()

	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	bookID := lg.randomBookID()
	memberID := lg.randomMemberID()

	var (
		commandName string
		ok          bool
		reason      string
		err         error
	)

	switch rand.Intn(3) { //nolint:gosec // Demo code - weak random is acceptable
	case 0:
		commandName = "BorrowBook"
		result, _, handleErr := lg.borrowHandler.Handle(opCtx, borrowbook.BuildCommand(bookID, memberID))
		ok, reason, err = result.Ok, result.Reason, handleErr
	case 1:
		commandName = "ReserveBook"
		result, _, handleErr := lg.reserveHandler.Handle(opCtx, reservebook.BuildCommand(bookID, memberID))
		ok, reason, err = result.Ok, result.Reason, handleErr
	default:
		commandName = "ReturnBook"
		result, _, handleErr := lg.returnHandler.Handle(opCtx, returnbook.BuildCommand(bookID, memberID))
		ok, reason, err = result.Ok, result.Reason, handleErr
	}

	lg.recordOutcome(commandName, bookID, memberID, ok, reason, err)
}

func (lg *LoadGenerator) recordOutcome(commandName string, bookID lending.BookIDString, memberID lending.MemberIDString, ok bool, reason string, err error) {
	lg.mu.Lock()
	lg.commandCount++
	switch {
	case err != nil:
		lg.errorCount++
	case ok:
		lg.grantedCount++
	default:
		lg.rejectedByReason[reason]++
	}
	lg.mu.Unlock()

	if err != nil {
		lg.logger.Error("Command failed", "command", commandName, "book_id", string(bookID), "member_id", string(memberID), "error", err)
		return
	}

	if lg.config.Verbose {
		if ok {
			lg.logger.Debug("Command granted", "command", commandName, "book_id", string(bookID), "member_id", string(memberID))
		} else {
			lg.logger.Debug("Command rejected", "command", commandName, "book_id", string(bookID), "member_id", string(memberID), "reason", reason)
		}
	}
}

func (lg *LoadGenerator) randomBookID() lending.BookIDString {
	return lg.bookIDs[rand.Intn(len(lg.bookIDs))] //nolint:gosec // Demo code - weak random is acceptable
}

func (lg *LoadGenerator) randomMemberID() lending.MemberIDString {
	return lg.memberIDs[rand.Intn(len(lg.memberIDs))] //nolint:gosec // Demo code - weak random is acceptable
}

// statsReporter logs outcome counts periodically.
func (lg *LoadGenerator) statsReporter(ctx context.Context) {
	defer lg.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lg.stopChan:
			return
		case <-ticker.C:
			lg.logStats("Stats")
		}
	}
}

// logStats logs current outcome statistics.
func (lg *LoadGenerator) logStats(msg string) {
	lg.mu.RLock()
	duration := time.Since(lg.startTime)
	commands := lg.commandCount
	granted := lg.grantedCount
	errors := lg.errorCount
	rejected := make(map[string]int64, len(lg.rejectedByReason))
	for reason, count := range lg.rejectedByReason {
		rejected[reason] = count
	}
	lg.mu.RUnlock()

	if commands == 0 || duration <= 0 {
		return
	}

	args := []any{
		"commands", commands,
		"duration", duration.Truncate(time.Second).String(),
		"rate", fmt.Sprintf("%.1f/s", float64(commands)/duration.Seconds()),
		"granted", granted,
		"errors", errors,
	}
	for reason, count := range rejected {
		args = append(args, "rejected_"+reason, count)
	}

	lg.logger.Info(msg, args...)
}
