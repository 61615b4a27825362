package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/lock"
	"banking-core/pkg/apperror"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransactionCoordinator. Every
// operation runs inside a per-account critical section: the involved
// accounts are marked busy before any state is read, and all balance
// mutations plus the transaction record land before the accounts are
// released, so no other caller can observe a half-applied movement.
type TransferServiceImpl struct {
	ledger       ports.AccountLedger
	txRepo       ports.TransactionRepository
	locks        *lock.AccountLockSet
	waitMode     bool
	waitTimeout  time.Duration
	defaultActor string
	log          zerolog.Logger
}

var _ ports.TransactionCoordinator = (*TransferServiceImpl)(nil)

// NewTransferService creates a coordinator in fail-fast lock mode.
func NewTransferService(
	ledger ports.AccountLedger,
	txRepo ports.TransactionRepository,
	locks *lock.AccountLockSet,
	defaultActor string,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		ledger:       ledger,
		txRepo:       txRepo,
		locks:        locks,
		defaultActor: defaultActor,
		log:          log,
	}
}

// WithWaitMode switches the coordinator from fail-fast acquisition to
// blocking acquisition bounded by timeout. Fail-fast is the default: a
// busy account fails the whole operation immediately, with no queueing.
func (s *TransferServiceImpl) WithWaitMode(timeout time.Duration) *TransferServiceImpl {
	s.waitMode = true
	s.waitTimeout = timeout
	return s
}

// Deposit credits the account. An inactive account is reactivated as a
// side effect before the credit is applied.
func (s *TransferServiceImpl) Deposit(ctx context.Context, req ports.ChargeRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	actor := s.actor(req.Actor)

	release, err := s.acquire(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	defer release()

	acct, err := s.ledger.GetByNumber(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	if !acct.Active {
		// TODO(product): confirm whether deposits should reactivate
		// inactive accounts or be rejected like withdrawals.
		s.log.Warn().
			Str("account", acct.Number.String()).
			Msg("inactive account reactivated by deposit")
		if _, err := s.ledger.UpdateStatus(ctx, acct.Number, true, actor); err != nil {
			return nil, err
		}
	}

	if _, err := s.ledger.UpdateBalance(ctx, acct.Number, acct.Balance.Add(req.Amount), actor); err != nil {
		return nil, err
	}

	txn, err := s.record(ctx, &domain.Transaction{
		Account:     acct.Number,
		Type:        domain.TransactionTypeDeposit,
		Amount:      req.Amount,
		Description: req.Description,
	}, actor)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("transaction", txn.ID).
		Str("account", acct.Number.String()).
		Str("amount", req.Amount.String()).
		Msg("deposit applied")

	return txn, nil
}

// Withdraw debits the account. It fails without mutation when the account
// is inactive or the balance does not cover the amount.
func (s *TransferServiceImpl) Withdraw(ctx context.Context, req ports.ChargeRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	actor := s.actor(req.Actor)

	release, err := s.acquire(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	defer release()

	acct, err := s.ledger.GetByNumber(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	if !acct.Active {
		return nil, apperror.ErrAccountInactive(acct.Number.String())
	}
	if !acct.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	if _, err := s.ledger.UpdateBalance(ctx, acct.Number, acct.Balance.Sub(req.Amount), actor); err != nil {
		return nil, err
	}

	txn, err := s.record(ctx, &domain.Transaction{
		Account:     acct.Number,
		Type:        domain.TransactionTypeWithdrawal,
		Amount:      req.Amount,
		Description: req.Description,
	}, actor)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("transaction", txn.ID).
		Str("account", acct.Number.String()).
		Str("amount", req.Amount.String()).
		Msg("withdrawal applied")

	return txn, nil
}

// Transfer moves funds between two accounts. Both accounts are acquired in
// one atomic step and both balance mutations are applied before either is
// released. A single SENT_TRANSFER entry referencing the destination
// documents the movement.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Source == req.Destination {
		return nil, apperror.Validation("source and destination accounts must differ")
	}
	actor := s.actor(req.Actor)

	release, err := s.acquire(ctx, req.Source, req.Destination)
	if err != nil {
		return nil, err
	}
	defer release()

	src, err := s.ledger.GetByNumber(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	dst, err := s.ledger.GetByNumber(ctx, req.Destination)
	if err != nil {
		return nil, err
	}
	if !src.Active {
		return nil, apperror.ErrAccountInactive(src.Number.String())
	}
	if !dst.Active {
		return nil, apperror.ErrAccountInactive(dst.Number.String())
	}
	if !src.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	if _, err := s.ledger.UpdateBalance(ctx, src.Number, src.Balance.Sub(req.Amount), actor); err != nil {
		return nil, err
	}
	if _, err := s.ledger.UpdateBalance(ctx, dst.Number, dst.Balance.Add(req.Amount), actor); err != nil {
		return nil, err
	}

	dest := dst.Number
	txn, err := s.record(ctx, &domain.Transaction{
		Account:     src.Number,
		Destination: &dest,
		Type:        domain.TransactionTypeSentTransfer,
		Amount:      req.Amount,
		Description: req.Description,
	}, actor)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("transaction", txn.ID).
		Str("source", src.Number.String()).
		Str("destination", dst.Number.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer applied")

	return txn, nil
}

// Cancel books the inverse of an earlier transaction against the account
// named on it. The original record is never altered or removed.
func (s *TransferServiceImpl) Cancel(ctx context.Context, req ports.CancelRequest) (*domain.Transaction, error) {
	actor := s.actor(req.Actor)

	orig, err := s.txRepo.GetByID(ctx, req.TransactionID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if orig == nil {
		return nil, apperror.ErrTransactionNotFound(req.TransactionID)
	}

	inverse, ok := orig.Type.Inverse()
	if !ok {
		return nil, apperror.ErrNoInverseDefined(string(orig.Type))
	}

	release, err := s.acquire(ctx, orig.Account)
	if err != nil {
		return nil, err
	}
	defer release()

	acct, err := s.ledger.GetByNumber(ctx, orig.Account)
	if err != nil {
		return nil, err
	}

	// The original credited the account, so the inverse debits it, and
	// the other way around.
	balance := acct.Balance
	if orig.Type.IsCredit() {
		if !acct.CanDebit(orig.Amount) {
			return nil, apperror.ErrInsufficientFunds()
		}
		balance = balance.Sub(orig.Amount)
	} else {
		balance = balance.Add(orig.Amount)
	}

	if _, err := s.ledger.UpdateBalance(ctx, acct.Number, balance, actor); err != nil {
		return nil, err
	}

	// The inverse entry carries no counterparty: only the account named on
	// the original is compensated, and a Destination would make the record
	// show up in the counterparty's history as a movement that never
	// touched its balance.
	txn, err := s.record(ctx, &domain.Transaction{
		Account:     orig.Account,
		Type:        inverse,
		Amount:      orig.Amount,
		Description: fmt.Sprintf("cancellation of transaction %d", orig.ID),
	}, actor)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("transaction", txn.ID).
		Int64("cancelled", orig.ID).
		Str("account", acct.Number.String()).
		Str("amount", orig.Amount.String()).
		Msg("cancellation applied")

	return txn, nil
}

func (s *TransferServiceImpl) record(ctx context.Context, txn *domain.Transaction, actor string) (*domain.Transaction, error) {
	txn.CreatedAt = time.Now().UTC()
	created, err := s.txRepo.Create(ctx, txn, actor, domain.AuditMeta{Amount: &txn.Amount})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if created == nil {
		return nil, apperror.InternalError(errors.New("transaction store rejected record"))
	}
	return created, nil
}

// acquire marks the accounts busy for the duration of one operation. In
// fail-fast mode a busy account fails immediately; in wait mode the call
// blocks up to the configured timeout.
func (s *TransferServiceImpl) acquire(ctx context.Context, ids ...snowflake.ID) (func(), error) {
	if s.waitMode {
		wctx, cancel := context.WithTimeout(ctx, s.waitTimeout)
		release, err := s.locks.Acquire(wctx, ids...)
		cancel()
		if err != nil {
			return nil, apperror.ErrAccountBusy(joinIDs(ids))
		}
		return release, nil
	}

	release, ok := s.locks.TryAcquire(ids...)
	if !ok {
		return nil, apperror.ErrAccountBusy(joinIDs(ids))
	}
	return release, nil
}

func (s *TransferServiceImpl) actor(actor string) string {
	if actor == "" {
		return s.defaultActor
	}
	return actor
}

func joinIDs(ids []snowflake.ID) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += "/"
		}
		out += id.String()
	}
	return out
}
