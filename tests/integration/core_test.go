package integration

import (
	"bytes"
	"context"
	"testing"

	"banking-core/internal/adapter/storage/memory"
	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/lock"
	"banking-core/internal/service"
	"banking-core/pkg/apperror"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCore wires the full stack on real in-memory storage: repositories,
// audit trail, lock set, ledger and coordinator. No component is mocked.
type testCore struct {
	ledger      ports.AccountLedger
	coordinator *service.TransferServiceImpl
	statements  ports.StatementService
	reporting   ports.ReportingService
	txRepo      *memory.TransactionRepo
	trail       *memory.AuditTrail
	locks       *lock.AccountLockSet
}

func newTestCore(t *testing.T) *testCore {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zerolog.Nop()
	trail := memory.NewAuditTrail()
	acctRepo := memory.NewAccountRepo(node, trail, log)
	txRepo := memory.NewTransactionRepo(trail, log)
	locks := lock.New()
	ledger := service.NewAccountService(acctRepo, txRepo, "system", log)

	return &testCore{
		ledger:      ledger,
		coordinator: service.NewTransferService(ledger, txRepo, locks, "system", log),
		statements:  service.NewStatementService(acctRepo, txRepo),
		reporting:   service.NewReportingService(acctRepo, txRepo),
		txRepo:      txRepo,
		trail:       trail,
		locks:       locks,
	}
}

func (c *testCore) openAccount(t *testing.T, deposit int64) *domain.Account {
	t.Helper()
	acct, err := c.ledger.Create(context.Background(), ports.CreateAccountRequest{
		HolderID:       uuid.New(),
		Type:           domain.AccountTypeChecking,
		OpeningDeposit: decimal.NewFromInt(deposit),
		Actor:          "teller",
	})
	require.NoError(t, err)
	return acct
}

func (c *testCore) balance(t *testing.T, number snowflake.ID) decimal.Decimal {
	t.Helper()
	acct, err := c.ledger.GetByNumber(context.Background(), number)
	require.NoError(t, err)
	return acct.Balance
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}

func TestDepositFlow(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)

	txn, err := core.coordinator.Deposit(ctx, ports.ChargeRequest{
		Account:     acct.Number,
		Amount:      decimal.NewFromInt(50),
		Description: "cash deposit",
		Actor:       "teller",
	})
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(150)))

	txns, err := core.txRepo.SearchByAccount(ctx, acct.Number)
	require.NoError(t, err)
	assert.Len(t, txns, 2, "opening deposit plus the cash deposit")
}

func TestWithdrawFlow(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)

	_, err := core.coordinator.Withdraw(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(40)))
}

func TestWithdraw_InsufficientFundsLeavesNoTrace(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 30)
	before := core.txRepo.Count(ctx)

	_, err := core.coordinator.Withdraw(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(50),
	})
	requireCode(t, err, "TXN_001")

	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(30)), "balance untouched")
	assert.Equal(t, before, core.txRepo.Count(ctx), "no transaction recorded for a failed movement")
}

func TestTransfer_ConservesTotal(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	src := core.openAccount(t, 500)
	dst := core.openAccount(t, 100)

	txn, err := core.coordinator.Transfer(ctx, ports.TransferRequest{
		Source:      src.Number,
		Destination: dst.Number,
		Amount:      decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.NotNil(t, txn.Destination)

	srcBal := core.balance(t, src.Number)
	dstBal := core.balance(t, dst.Number)
	assert.True(t, srcBal.Equal(decimal.NewFromInt(380)))
	assert.True(t, dstBal.Equal(decimal.NewFromInt(220)))
	assert.True(t, srcBal.Add(dstBal).Equal(decimal.NewFromInt(600)), "money is moved, not created")
}

func TestCancel_AdditiveNotDestructive(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)

	dep, err := core.coordinator.Deposit(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	require.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(140)))

	inv, err := core.coordinator.Cancel(ctx, ports.CancelRequest{TransactionID: dep.ID, Actor: "backoffice"})
	require.NoError(t, err)

	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(100)), "balance effect undone")
	assert.Equal(t, domain.TransactionTypeWithdrawal, inv.Type)

	// The original record is still there, unchanged.
	orig, err := core.txRepo.GetByID(ctx, dep.ID)
	require.NoError(t, err)
	require.NotNil(t, orig)
	assert.Equal(t, domain.TransactionTypeDeposit, orig.Type)
	assert.True(t, orig.Amount.Equal(decimal.NewFromInt(40)))

	txns, err := core.txRepo.SearchByAccount(ctx, acct.Number)
	require.NoError(t, err)
	assert.Len(t, txns, 3, "opening deposit, deposit, and its compensating entry")
}

func TestAuditTrail_CoversEveryMutation(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)
	// account create + opening deposit transaction
	require.Equal(t, 2, core.trail.Len(ctx))

	_, err := core.coordinator.Deposit(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	// + balance update + transaction create
	require.Equal(t, 4, core.trail.Len(ctx))

	_, err = core.ledger.Delete(ctx, acct.Number, "admin")
	require.NoError(t, err)
	require.Equal(t, 5, core.trail.Len(ctx))

	history := core.trail.History(ctx, domain.EntityTypeAccount, acct.Number.String())
	require.Len(t, history, 3)
	assert.Equal(t, domain.AuditOpAccountCreate, history[0].Operation)
	assert.Equal(t, domain.AuditOpBalanceUpdate, history[1].Operation)
	assert.Equal(t, domain.AuditOpAccountDelete, history[2].Operation)
}

func TestTransactionVoidRestore_NoBalanceEffect(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)
	dep, err := core.coordinator.Deposit(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = core.txRepo.Void(ctx, dep.ID, "admin", domain.AuditMeta{})
	require.NoError(t, err)
	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(140)), "voiding hides the record without touching balances")

	got, err := core.txRepo.GetByID(ctx, dep.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = core.txRepo.Restore(ctx, dep.ID, "admin", domain.AuditMeta{})
	require.NoError(t, err)
	assert.True(t, core.balance(t, acct.Number).Equal(decimal.NewFromInt(140)))
}

func TestCancelledTransferLeavesBothLegsQueryable(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	src := core.openAccount(t, 200)
	dst := core.openAccount(t, 50)

	xfer, err := core.coordinator.Transfer(ctx, ports.TransferRequest{
		Source:      src.Number,
		Destination: dst.Number,
		Amount:      decimal.NewFromInt(70),
	})
	require.NoError(t, err)

	// Cancelling the transfer credits the source back. Only the account
	// named on the record is compensated.
	_, err = core.coordinator.Cancel(ctx, ports.CancelRequest{TransactionID: xfer.ID})
	require.NoError(t, err)

	assert.True(t, core.balance(t, src.Number).Equal(decimal.NewFromInt(200)))
	assert.True(t, core.balance(t, dst.Number).Equal(decimal.NewFromInt(120)), "the counterparty keeps the received funds")

	stats, err := core.reporting.AccountStats(ctx, src.Number, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SentTransfers)
	assert.Equal(t, int64(1), stats.ReceivedTransfers)

	// The compensating entry belongs to the source alone: the counterparty
	// sees exactly its opening deposit and the incoming leg, with every
	// counted transaction classified.
	dstStats, err := core.reporting.AccountStats(ctx, dst.Number, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(2), dstStats.TotalTransactions)
	assert.Equal(t, dstStats.TotalTransactions, dstStats.Deposits+dstStats.Withdrawals+dstStats.SentTransfers+dstStats.ReceivedTransfers)
	assert.Equal(t, int64(1), dstStats.Deposits)
	assert.Equal(t, int64(1), dstStats.ReceivedTransfers)
	assert.True(t, dstStats.TotalIn.Equal(decimal.NewFromInt(120)))
	assert.True(t, dstStats.TotalOut.IsZero())

	dstTxns, err := core.txRepo.SearchByAccount(ctx, dst.Number)
	require.NoError(t, err)
	assert.Len(t, dstTxns, 2, "the cancellation record must not match the counterparty")
}

func TestStatementOverFullFlow(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	acct := core.openAccount(t, 100)
	_, err := core.coordinator.Deposit(ctx, ports.ChargeRequest{
		Account: acct.Number,
		Amount:  decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, core.statements.Statement(ctx, &buf, ports.StatementRequest{Account: acct.Number}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
