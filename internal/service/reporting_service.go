package service

import (
	"context"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	acctRepo ports.AccountRepository
	txRepo   ports.TransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(acctRepo ports.AccountRepository, txRepo ports.TransactionRepository) ports.ReportingService {
	return &reportingService{
		acctRepo: acctRepo,
		txRepo:   txRepo,
	}
}

// AccountStats aggregates movement counts and totals for one account over
// the requested period (day, week, month, or all).
func (s *reportingService) AccountStats(ctx context.Context, number snowflake.ID, period string) (*ports.AccountStats, error) {
	var periodStart *time.Time

	switch period {
	case "day":
		t := time.Now().AddDate(0, 0, -1)
		periodStart = &t
	case "week":
		t := time.Now().AddDate(0, 0, -7)
		periodStart = &t
	case "month":
		t := time.Now().AddDate(0, -1, 0)
		periodStart = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	acct, err := s.acctRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if acct == nil {
		return nil, apperror.ErrAccountNotFound(number.String())
	}

	txns, err := s.txRepo.SearchByAccount(ctx, number)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	stats := &ports.AccountStats{
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	for _, t := range txns {
		if periodStart != nil && t.CreatedAt.Before(*periodStart) {
			continue
		}
		stats.TotalTransactions++

		switch {
		case t.Account == number && t.Type == domain.TransactionTypeDeposit:
			stats.Deposits++
			stats.TotalIn = stats.TotalIn.Add(t.Amount)
		case t.Account == number && t.Type == domain.TransactionTypeWithdrawal:
			stats.Withdrawals++
			stats.TotalOut = stats.TotalOut.Add(t.Amount)
		case t.Account == number && t.Type == domain.TransactionTypeSentTransfer:
			stats.SentTransfers++
			stats.TotalOut = stats.TotalOut.Add(t.Amount)
		case t.Account == number && t.Type == domain.TransactionTypeReceivedTransfer:
			// Inverse leg booked by a cancellation: credits this account.
			stats.ReceivedTransfers++
			stats.TotalIn = stats.TotalIn.Add(t.Amount)
		case t.Destination != nil && *t.Destination == number && t.Type == domain.TransactionTypeSentTransfer:
			// Incoming leg of another account's transfer.
			stats.ReceivedTransfers++
			stats.TotalIn = stats.TotalIn.Add(t.Amount)
		}
	}

	return stats, nil
}
