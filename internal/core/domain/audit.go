package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditOperation represents the kind of mutation an audit record documents.
type AuditOperation string

const (
	AuditOpAccountCreate  AuditOperation = "ACCOUNT_CREATE"
	AuditOpAccountUpdate  AuditOperation = "ACCOUNT_UPDATE"
	AuditOpBalanceUpdate  AuditOperation = "BALANCE_UPDATE"
	AuditOpStatusUpdate   AuditOperation = "STATUS_UPDATE"
	AuditOpHolderUpdate   AuditOperation = "HOLDER_UPDATE"
	AuditOpAccountDelete  AuditOperation = "ACCOUNT_DELETE"
	AuditOpAccountRestore AuditOperation = "ACCOUNT_RESTORE"

	AuditOpTransactionCreate  AuditOperation = "TRANSACTION_CREATE"
	AuditOpTransactionVoid    AuditOperation = "TRANSACTION_VOID"
	AuditOpTransactionRestore AuditOperation = "TRANSACTION_RESTORE"
)

// EntityType identifies which entity collection an audit record refers to.
type EntityType string

const (
	EntityTypeAccount     EntityType = "ACCOUNT"
	EntityTypeTransaction EntityType = "TRANSACTION"
)

// AuditRecord is an immutable log entry documenting a single entity
// mutation: what changed, who changed it and when. Snapshot holds the full
// JSON state of the entity at the time of the operation.
type AuditRecord struct {
	ID         uuid.UUID        `json:"id"`
	EntityType EntityType       `json:"entity_type"`
	EntityID   string           `json:"entity_id"`
	Operation  AuditOperation   `json:"operation"`
	Snapshot   json.RawMessage  `json:"snapshot"`
	Actor      string           `json:"actor"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Detail     string           `json:"detail,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Clone returns a copy of the record so readers of the trail cannot edit
// the log in place.
func (r *AuditRecord) Clone() *AuditRecord {
	cp := *r
	if r.Snapshot != nil {
		cp.Snapshot = append(json.RawMessage(nil), r.Snapshot...)
	}
	if r.Amount != nil {
		amt := *r.Amount
		cp.Amount = &amt
	}
	return &cp
}

// AuditMeta carries the optional monetary amount and free-text detail a
// caller can attach to the audit record of a mutating store call.
type AuditMeta struct {
	Amount *decimal.Decimal
	Detail string
}
