// Command bankcore wires the transactional core together and runs a short
// smoke sequence against it: open two accounts, move money both ways,
// cancel a transfer and export a statement. The wiring below is the
// reference for embedding the core behind any presentation layer.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"banking-core/config"
	"banking-core/internal/adapter/storage/memory"
	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/lock"
	"banking-core/internal/service"
	"banking-core/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("lock_mode", cfg.Lock.Mode).
		Int64("node_id", cfg.Ledger.NodeID).
		Msg("starting banking core")

	node, err := snowflake.NewNode(cfg.Ledger.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize account number generator")
	}

	// Explicit construction, no shared singletons: every component receives
	// its collaborators here.
	trail := memory.NewAuditTrail()
	acctRepo := memory.NewAccountRepo(node, trail, log)
	txRepo := memory.NewTransactionRepo(trail, log)
	locks := lock.New()

	ledger := service.NewAccountService(acctRepo, txRepo, cfg.Ledger.DefaultActor, log)
	coordinator := service.NewTransferService(ledger, txRepo, locks, cfg.Ledger.DefaultActor, log)
	if cfg.Lock.Mode == config.LockModeWait {
		coordinator = coordinator.WithWaitMode(cfg.Lock.WaitTimeout)
	}
	reporting := service.NewReportingService(acctRepo, txRepo)
	statements := service.NewStatementService(acctRepo, txRepo)

	if err := smoke(context.Background(), cfg, ledger, coordinator, reporting, statements, trail); err != nil {
		log.Fatal().Err(err).Msg("smoke sequence failed")
	}

	log.Info().Int("audit_entries", trail.Len(context.Background())).Msg("banking core smoke sequence complete")
}

func smoke(
	ctx context.Context,
	cfg *config.Config,
	ledger ports.AccountLedger,
	coordinator ports.TransactionCoordinator,
	reporting ports.ReportingService,
	statements ports.StatementService,
	trail ports.AuditTrail,
) error {
	actor := cfg.Ledger.DefaultActor

	alice, err := ledger.Create(ctx, ports.CreateAccountRequest{
		HolderID:       uuid.New(),
		Type:           domain.AccountTypeChecking,
		OpeningDeposit: decimal.NewFromInt(500),
		Actor:          actor,
	})
	if err != nil {
		return fmt.Errorf("create first account: %w", err)
	}
	bob, err := ledger.Create(ctx, ports.CreateAccountRequest{
		HolderID:       uuid.New(),
		Type:           domain.AccountTypeSavings,
		OpeningDeposit: decimal.NewFromInt(100),
		Actor:          actor,
	})
	if err != nil {
		return fmt.Errorf("create second account: %w", err)
	}

	if _, err := coordinator.Deposit(ctx, ports.ChargeRequest{
		Account: alice.Number, Amount: decimal.NewFromInt(250), Description: "salary", Actor: actor,
	}); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if _, err := coordinator.Withdraw(ctx, ports.ChargeRequest{
		Account: alice.Number, Amount: decimal.NewFromInt(50), Description: "groceries", Actor: actor,
	}); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	sent, err := coordinator.Transfer(ctx, ports.TransferRequest{
		Source: alice.Number, Destination: bob.Number,
		Amount: decimal.NewFromInt(120), Description: "rent share", Actor: actor,
	})
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if _, err := coordinator.Cancel(ctx, ports.CancelRequest{TransactionID: sent.ID, Actor: actor}); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}

	stats, err := reporting.AccountStats(ctx, alice.Number, "all")
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Printf("account %s: %d transactions, in %s, out %s\n",
		alice.Number, stats.TotalTransactions, stats.TotalIn.StringFixed(2), stats.TotalOut.StringFixed(2))
	fmt.Printf("audit history for account %s: %d entries\n",
		alice.Number, len(trail.History(ctx, domain.EntityTypeAccount, alice.Number.String())))

	path := filepath.Join(cfg.Statement.OutputDir, fmt.Sprintf("statement-%s.pdf", alice.Number))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create statement file: %w", err)
	}
	defer f.Close()
	if err := statements.Statement(ctx, f, ports.StatementRequest{Account: alice.Number}); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	fmt.Printf("statement written to %s\n", path)

	return nil
}
