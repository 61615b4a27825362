package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"

	"github.com/go-pdf/fpdf"
)

// statementService renders account statements as PDF documents.
type statementService struct {
	acctRepo ports.AccountRepository
	txRepo   ports.TransactionRepository
}

// NewStatementService creates a new statement service.
func NewStatementService(acctRepo ports.AccountRepository, txRepo ports.TransactionRepository) ports.StatementService {
	return &statementService{
		acctRepo: acctRepo,
		txRepo:   txRepo,
	}
}

// Statement writes the account's statement PDF to w, listing every
// transaction involving the account within the optional period.
func (s *statementService) Statement(ctx context.Context, w io.Writer, req ports.StatementRequest) error {
	acct, err := s.acctRepo.GetByNumber(ctx, req.Account)
	if err != nil {
		return apperror.InternalError(err)
	}
	if acct == nil {
		return apperror.ErrAccountNotFound(req.Account.String())
	}

	txns, err := s.txRepo.SearchByAccount(ctx, req.Account)
	if err != nil {
		return apperror.InternalError(err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Account Statement", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Account: %s", acct.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Holder: %s", acct.HolderID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Type: %s", acct.Type), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", periodLabel(req.From, req.To)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(22, 7, "ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(42, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(52, 7, "Counterparty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(36, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, txn := range txns {
		if req.From != nil && txn.CreatedAt.Before(*req.From) {
			continue
		}
		if req.To != nil && txn.CreatedAt.After(*req.To) {
			continue
		}

		counterparty := "-"
		if txn.Destination != nil {
			counterparty = txn.Destination.String()
		}
		amount := txn.Amount.StringFixed(2)
		if debitsAccount(txn, req) {
			amount = "-" + amount
		}

		pdf.CellFormat(22, 6, fmt.Sprintf("%d", txn.ID), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, txn.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(42, 6, string(txn.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(52, 6, counterparty, "1", 0, "L", false, 0, "")
		pdf.CellFormat(36, 6, amount, "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Current balance: %s", acct.Balance.StringFixed(2)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return apperror.InternalError(err)
	}
	return nil
}

// debitsAccount reports whether the entry moved money out of the statement
// account. An incoming transfer leg lists the account as destination.
func debitsAccount(txn *domain.Transaction, req ports.StatementRequest) bool {
	if txn.Account != req.Account {
		return false
	}
	if txn.Type == domain.TransactionTypeSentTransfer || txn.Type == domain.TransactionTypeWithdrawal {
		return true
	}
	return false
}

func periodLabel(from, to *time.Time) string {
	switch {
	case from == nil && to == nil:
		return "all activity"
	case from == nil:
		return fmt.Sprintf("until %s", to.Format("2006-01-02"))
	case to == nil:
		return fmt.Sprintf("since %s", from.Format("2006-01-02"))
	default:
		return fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
}
