package service

import (
	"context"
	"errors"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountLedger.
type AccountServiceImpl struct {
	acctRepo     ports.AccountRepository
	txRepo       ports.TransactionRepository
	defaultActor string
	log          zerolog.Logger
}

var _ ports.AccountLedger = (*AccountServiceImpl)(nil)

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	acctRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	defaultActor string,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		acctRepo:     acctRepo,
		txRepo:       txRepo,
		defaultActor: defaultActor,
		log:          log,
	}
}

// Create opens an account with a freshly generated number and books the
// mandatory opening deposit as the account's first transaction.
func (s *AccountServiceImpl) Create(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	if !req.OpeningDeposit.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	actor := s.actor(req.Actor)

	now := time.Now().UTC()
	acct := &domain.Account{
		HolderID:       req.HolderID,
		Type:           req.Type,
		InitialBalance: req.OpeningDeposit,
		Balance:        req.OpeningDeposit,
		Active:         true,
		CreatedAt:      now,
	}

	created, err := s.acctRepo.Create(ctx, acct, domain.AuditOpAccountCreate, actor, domain.AuditMeta{
		Amount: &req.OpeningDeposit,
		Detail: "account opened",
	})
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateID) {
			return nil, apperror.ErrDuplicateAccountNumber(acct.Number.String())
		}
		return nil, apperror.InternalError(err)
	}
	if created == nil {
		return nil, apperror.Validation("account is required")
	}

	txn := &domain.Transaction{
		Account:     created.Number,
		Type:        domain.TransactionTypeDeposit,
		Amount:      req.OpeningDeposit,
		Description: "opening deposit",
		CreatedAt:   now,
	}
	if _, err := s.txRepo.Create(ctx, txn, actor, domain.AuditMeta{Amount: &req.OpeningDeposit}); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("account", created.Number.String()).
		Str("holder", created.HolderID.String()).
		Str("type", string(created.Type)).
		Str("opening_deposit", req.OpeningDeposit.String()).
		Msg("account created")

	return created, nil
}

func (s *AccountServiceImpl) GetByNumber(ctx context.Context, number snowflake.ID) (*domain.Account, error) {
	acct, err := s.acctRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if acct == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}
	return acct, nil
}

func (s *AccountServiceImpl) GetAll(ctx context.Context) ([]*domain.Account, error) {
	accts, err := s.acctRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return accts, nil
}

func (s *AccountServiceImpl) SearchByHolder(ctx context.Context, holder uuid.UUID) ([]*domain.Account, error) {
	accts, err := s.acctRepo.FindAll(ctx, func(a *domain.Account) bool {
		return a.HolderID == holder
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return accts, nil
}

func (s *AccountServiceImpl) SearchByType(ctx context.Context, t domain.AccountType) ([]*domain.Account, error) {
	accts, err := s.acctRepo.FindAll(ctx, func(a *domain.Account) bool {
		return a.Type == t
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return accts, nil
}

func (s *AccountServiceImpl) SearchActive(ctx context.Context) ([]*domain.Account, error) {
	accts, err := s.acctRepo.FindAll(ctx, func(a *domain.Account) bool {
		return a.Active
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return accts, nil
}

// UpdateBalance replaces the balance unconditionally. Sign enforcement is
// the coordinator's job; administrative corrections go through here too.
func (s *AccountServiceImpl) UpdateBalance(ctx context.Context, number snowflake.ID, balance decimal.Decimal, actor string) (*domain.Account, error) {
	acct, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	acct.Balance = balance

	updated, err := s.acctRepo.Update(ctx, acct, domain.AuditOpBalanceUpdate, s.actor(actor), domain.AuditMeta{
		Amount: &balance,
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if updated == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}
	return updated, nil
}

func (s *AccountServiceImpl) UpdateStatus(ctx context.Context, number snowflake.ID, active bool, actor string) (*domain.Account, error) {
	acct, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	acct.Active = active

	detail := "account deactivated"
	if active {
		detail = "account activated"
	}
	updated, err := s.acctRepo.Update(ctx, acct, domain.AuditOpStatusUpdate, s.actor(actor), domain.AuditMeta{
		Detail: detail,
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if updated == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}
	return updated, nil
}

func (s *AccountServiceImpl) UpdateHolder(ctx context.Context, number snowflake.ID, holder uuid.UUID, actor string) (*domain.Account, error) {
	acct, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	acct.HolderID = holder

	updated, err := s.acctRepo.Update(ctx, acct, domain.AuditOpHolderUpdate, s.actor(actor), domain.AuditMeta{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if updated == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}
	return updated, nil
}

// Update applies the non-nil fields of patch.
func (s *AccountServiceImpl) Update(ctx context.Context, number snowflake.ID, patch domain.AccountPatch, actor string) (*domain.Account, error) {
	acct, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if patch.HolderID != nil {
		acct.HolderID = *patch.HolderID
	}
	if patch.Type != nil {
		acct.Type = *patch.Type
	}
	if patch.Active != nil {
		acct.Active = *patch.Active
	}

	updated, err := s.acctRepo.Update(ctx, acct, domain.AuditOpAccountUpdate, s.actor(actor), domain.AuditMeta{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if updated == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}
	return updated, nil
}

func (s *AccountServiceImpl) Delete(ctx context.Context, number snowflake.ID, actor string) (*domain.Account, error) {
	deleted, err := s.acctRepo.Delete(ctx, number, s.actor(actor), domain.AuditMeta{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if deleted == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}

	s.log.Info().Str("account", number.String()).Msg("account deleted")
	return deleted, nil
}

func (s *AccountServiceImpl) Restore(ctx context.Context, number snowflake.ID, actor string) (*domain.Account, error) {
	restored, err := s.acctRepo.Restore(ctx, number, s.actor(actor), domain.AuditMeta{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if restored == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}

	s.log.Info().Str("account", number.String()).Msg("account restored")
	return restored, nil
}

func (s *AccountServiceImpl) actor(actor string) string {
	if actor == "" {
		return s.defaultActor
	}
	return actor
}
