package contract

import (
	"context"
	"errors"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Sentinel errors surfaced by the credit repository. The service layer
// translates these into its own taxonomy before they reach callers.
var (
	// ErrInsufficientBalance means a negative adjustment would have driven
	// the balance below zero. The balance is left untouched.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound means the account row does not exist.
	ErrAccountNotFound = errors.New("credit account not found")
)

// CreditRepository is the ledger store: the live balance and the append-only
// transaction log are two representations of the same fact and must only be
// written through the primitives below.
type CreditRepository interface {
	// GetOrCreateAccount returns the account for id, creating it with a zero
	// balance on first use.
	GetOrCreateAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error)

	// FindAccount returns the account or nil when it does not exist.
	FindAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error)

	// AdjustBalance applies delta atomically relative to other adjustments on
	// the same account (single conditional UPDATE, no read-modify-write).
	// Returns ErrInsufficientBalance when delta < 0 would drive the balance
	// negative, ErrAccountNotFound when the row is missing. Returns the new
	// balance on success.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int) (int, error)

	// AppendTransaction writes one immutable ledger entry and returns its id.
	AppendTransaction(ctx context.Context, txn *entity.CreditTransaction) (uuid.UUID, error)

	// PatchRelatedEntity back-fills related_entity_id on an existing entry.
	// Idempotent: patching with the same value twice is a no-op.
	PatchRelatedEntity(ctx context.Context, transactionId uuid.UUID, relatedEntityId uuid.UUID) error

	// FindTransactions lists ledger entries matching the given specifications.
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)

	// SumTransactions returns the signed sum of all entry amounts for an
	// account. Used by the reconciliation pass to verify the balance invariant.
	SumTransactions(ctx context.Context, accountId uuid.UUID) (int, error)

	// ListAccounts pages through all accounts, for reconciliation.
	ListAccounts(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditAccount, error)
}
