package apperror

import "fmt"

// AppError is a structured error with a stable code callers can branch on.
type AppError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to callers)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound(number string) *AppError {
	return New("ACC_001", fmt.Sprintf("account %s not found", number))
}

func ErrAccountInactive(number string) *AppError {
	return New("ACC_002", fmt.Sprintf("account %s is inactive", number))
}

func ErrDuplicateAccountNumber(number string) *AppError {
	return New("ACC_003", fmt.Sprintf("account number %s already in use", number))
}

// ---- Transactions (TXN) ----

func ErrInsufficientFunds() *AppError {
	return New("TXN_001", "insufficient funds")
}

func ErrInvalidAmount() *AppError {
	return New("TXN_002", "amount must be positive")
}

func ErrTransactionNotFound(id int64) *AppError {
	return New("TXN_003", fmt.Sprintf("transaction %d not found", id))
}

func ErrNoInverseDefined(kind string) *AppError {
	return New("TXN_004", fmt.Sprintf("transaction kind %s has no defined inverse", kind))
}

// ---- Concurrency (LOCK) ----

func ErrAccountBusy(number string) *AppError {
	return New("LOCK_001", fmt.Sprintf("account %s is locked by another operation", number))
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "internal error", err)
}

// Validation returns a generic input validation error.
func Validation(message string) *AppError {
	return New("TXN_002", message)
}
