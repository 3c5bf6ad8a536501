package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/memory"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory ledger fake ---

type fakeLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
	txns     []*entity.CreditTransaction

	adjustCalls int
	// Adjust calls numbered from this value on fail (0 disables).
	failAdjustFrom int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[uuid.UUID]int)}
}

func (f *fakeLedger) seed(accountId uuid.UUID, balance int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[accountId] = balance
}

func (f *fakeLedger) transactions() []*entity.CreditTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.CreditTransaction, len(f.txns))
	copy(out, f.txns)
	return out
}

func (f *fakeLedger) GetOrCreateAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[id]; !ok {
		f.balances[id] = 0
	}
	return &entity.CreditAccount{Id: id, Balance: f.balances[id]}, nil
}

func (f *fakeLedger) FindAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[id]
	if !ok {
		return nil, nil
	}
	return &entity.CreditAccount{Id: id, Balance: balance}, nil
}

func (f *fakeLedger) AdjustBalance(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.adjustCalls++
	if f.failAdjustFrom > 0 && f.adjustCalls >= f.failAdjustFrom {
		return 0, errors.New("simulated store failure")
	}

	balance, ok := f.balances[id]
	if !ok {
		return 0, contract.ErrAccountNotFound
	}
	if balance+delta < 0 {
		return balance, contract.ErrInsufficientBalance
	}
	f.balances[id] = balance + delta
	return f.balances[id], nil
}

func (f *fakeLedger) AppendTransaction(ctx context.Context, txn *entity.CreditTransaction) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if txn.Id == uuid.Nil {
		txn.Id = uuid.New()
	}
	stored := *txn
	f.txns = append(f.txns, &stored)
	return txn.Id, nil
}

func (f *fakeLedger) PatchRelatedEntity(ctx context.Context, transactionId uuid.UUID, relatedEntityId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.txns {
		if txn.Id == transactionId {
			if txn.RelatedEntityId == nil || *txn.RelatedEntityId == relatedEntityId {
				txn.RelatedEntityId = &relatedEntityId
			}
			return nil
		}
	}
	return nil
}

func (f *fakeLedger) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	return f.transactions(), nil
}

func (f *fakeLedger) SumTransactions(ctx context.Context, accountId uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, txn := range f.txns {
		if txn.AccountId == accountId {
			sum += txn.Amount
		}
	}
	return sum, nil
}

func (f *fakeLedger) ListAccounts(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.CreditAccount, 0, len(f.balances))
	for id, balance := range f.balances {
		out = append(out, &entity.CreditAccount{Id: id, Balance: balance})
	}
	return out, nil
}

// --- unit of work fake over the ledger ---

type fakeUow struct {
	ledger *fakeLedger
	active bool
}

func (u *fakeUow) Begin(ctx context.Context) error { u.active = true; return nil }
func (u *fakeUow) Commit() error                   { u.active = false; return nil }
func (u *fakeUow) Rollback() error                 { u.active = false; return nil }

func (u *fakeUow) CreditRepository() contract.CreditRepository             { return u.ledger }
func (u *fakeUow) CourseRepository() contract.CourseRepository             { return nil }
func (u *fakeUow) PresentationRepository() contract.PresentationRepository { return nil }
func (u *fakeUow) VoiceAgentRepository() contract.VoiceAgentRepository     { return nil }
func (u *fakeUow) PurchaseRepository() contract.PurchaseRepository         { return nil }

type fakeUowFactory struct {
	ledger *fakeLedger
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{ledger: f.ledger}
}

// --- publisher / alert fakes ---

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type recordingAlerts struct {
	mu            sync.Mutex
	debited       int
	refunded      int
	refundFailed  int
	settled       int
	adjusted      int
	lastRefundTxn uuid.UUID
}

func (a *recordingAlerts) PublishCreditsDebited(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, newBalance int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.debited++
}

func (a *recordingAlerts) PublishCreditsRefunded(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refunded++
}

func (a *recordingAlerts) PublishRefundFailed(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, originalErr, refundErr string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refundFailed++
	a.lastRefundTxn = consumptionTxnId
}

func (a *recordingAlerts) PublishPurchaseSettled(ctx context.Context, accountId uuid.UUID, credits int, orderId string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled++
}

func (a *recordingAlerts) PublishBalanceAdjusted(ctx context.Context, accountId uuid.UUID, delta, newBalance int, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adjusted++
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestService(ledger *fakeLedger) (ICreditService, *recordingPublisher, *recordingAlerts) {
	patchPub := &recordingPublisher{}
	alertsRec := &recordingAlerts{}
	svc := NewCreditService(
		&fakeUowFactory{ledger: ledger},
		memory.NewBalanceCache(),
		patchPub,
		alertsRec,
		nopLogger{},
	)
	return svc, patchPub, alertsRec
}

// --- tests ---

func TestExecutePricedAction_Success(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)

	svc, patchPub, alertsRec := newTestService(ledger)

	resourceId := uuid.New()
	result, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation: Go Basics",
		func(ctx context.Context) (uuid.UUID, error) {
			return resourceId, nil
		})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 4, result.Cost) // 2 + ceil(15/10) = 4
	assert.Equal(t, 6, result.RemainingBalance)
	assert.Equal(t, resourceId, result.ResourceId)

	txns := ledger.transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, entity.CreditKindConsumption, txns[0].Kind)
	assert.Equal(t, -4, txns[0].Amount)
	assert.Equal(t, result.ConsumptionTxnId, txns[0].Id)

	// The back-fill message carries the txn and resource ids.
	require.Len(t, patchPub.payloads, 1)
	var patch dto.PatchLedgerEntityMessage
	require.NoError(t, json.Unmarshal(patchPub.payloads[0], &patch))
	assert.Equal(t, result.ConsumptionTxnId, patch.TransactionId)
	assert.Equal(t, resourceId, patch.RelatedEntityId)

	// One debit audit event, no refund.
	assert.Equal(t, 1, alertsRec.debited)
	assert.Equal(t, 0, alertsRec.refunded)
}

func TestExecutePricedAction_InsufficientCredits(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 2)

	svc, _, _ := newTestService(ledger)

	result, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation",
		func(ctx context.Context) (uuid.UUID, error) {
			t.Fatal("guarded action must not run when the debit is rejected")
			return uuid.Nil, nil
		})

	require.Error(t, err)
	assert.Nil(t, result)

	var insufficient *InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Required)
	assert.Equal(t, 2, insufficient.Available)

	// Rejection leaves no trace in the ledger.
	assert.Empty(t, ledger.transactions())
	balance, _ := svc.GetBalance(context.Background(), accountId)
	assert.Equal(t, 2, balance)
}

func TestExecutePricedAction_InvalidParameters(t *testing.T) {
	svc, _, _ := newTestService(newFakeLedger())

	var invalid *InvalidActionParametersError

	_, err := svc.ExecutePricedAction(context.Background(), uuid.New(), pricing.ActionCourse, 200, "too long",
		func(ctx context.Context) (uuid.UUID, error) { return uuid.Nil, nil })
	require.ErrorAs(t, err, &invalid)

	_, err = svc.ExecutePricedAction(context.Background(), uuid.New(), pricing.ActionKind("unknown"), 15, "bad kind",
		func(ctx context.Context) (uuid.UUID, error) { return uuid.Nil, nil })
	require.ErrorAs(t, err, &invalid)
}

func TestExecutePricedAction_RefundOnActionFailure(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)

	svc, _, alertsRec := newTestService(ledger)

	result, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation",
		func(ctx context.Context) (uuid.UUID, error) {
			return uuid.Nil, errors.New("provider timeout")
		})

	require.Error(t, err)
	assert.Nil(t, result)

	var actionFailed *GuardedActionFailedError
	require.ErrorAs(t, err, &actionFailed)
	assert.True(t, actionFailed.Refunded)

	// Balance-neutral outcome with a full audit trail: one consumption and
	// one refund pointing back at it.
	txns := ledger.transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, entity.CreditKindConsumption, txns[0].Kind)
	assert.Equal(t, -4, txns[0].Amount)
	assert.Equal(t, entity.CreditKindRefund, txns[1].Kind)
	assert.Equal(t, 4, txns[1].Amount)
	require.NotNil(t, txns[1].RelatedEntityId)
	assert.Equal(t, txns[0].Id, *txns[1].RelatedEntityId)

	balance, _ := svc.GetBalance(context.Background(), accountId)
	assert.Equal(t, 10, balance)

	// Both halves of the cycle are audited.
	assert.Equal(t, 1, alertsRec.debited)
	assert.Equal(t, 1, alertsRec.refunded)
}

func TestExecutePricedAction_RefundSurvivesCancellation(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)

	svc, _, _ := newTestService(ledger)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := svc.ExecutePricedAction(ctx, accountId, pricing.ActionVoiceAgent, 30, "voice agent creation",
		func(actionCtx context.Context) (uuid.UUID, error) {
			cancel() // caller goes away mid-action
			return uuid.Nil, actionCtx.Err()
		})

	var actionFailed *GuardedActionFailedError
	require.ErrorAs(t, err, &actionFailed)
	assert.True(t, actionFailed.Refunded)

	// The compensating refund must land even though the request context died.
	balance, _ := svc.GetBalance(context.Background(), accountId)
	assert.Equal(t, 10, balance)
}

func TestExecutePricedAction_RefundFailureEscalates(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)
	// First adjust (the debit) succeeds, every later one (the refund and its
	// retries) fails.
	ledger.failAdjustFrom = 2

	svc, _, alertsRec := newTestService(ledger)

	result, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation",
		func(ctx context.Context) (uuid.UUID, error) {
			return uuid.Nil, errors.New("provider exploded")
		})

	require.Error(t, err)
	assert.Nil(t, result)

	var refundFailed *RefundFailedError
	require.ErrorAs(t, err, &refundFailed)
	assert.Equal(t, accountId, refundFailed.AccountId)
	assert.Equal(t, 4, refundFailed.Cost)
	assert.NotEqual(t, uuid.Nil, refundFailed.ConsumptionTxnId)

	// Operator escalation fired with the reconciliation handle.
	assert.Equal(t, 1, alertsRec.refundFailed)
	assert.Equal(t, refundFailed.ConsumptionTxnId, alertsRec.lastRefundTxn)

	// The debit stands; only its consumption entry exists.
	txns := ledger.transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, entity.CreditKindConsumption, txns[0].Kind)
}

func TestExecutePricedAction_DebitFailedOnStoreErrors(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)
	// Every adjust fails, so the initial debit exhausts its retry budget.
	ledger.failAdjustFrom = 1

	svc, _, _ := newTestService(ledger)

	result, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation",
		func(ctx context.Context) (uuid.UUID, error) {
			t.Fatal("guarded action must not run when the debit never commits")
			return uuid.Nil, nil
		})

	require.Error(t, err)
	assert.Nil(t, result)

	var debitFailed *DebitFailedError
	require.ErrorAs(t, err, &debitFailed)

	// Terminal with no side effects: every attempt rolled back, so the
	// ledger is empty and the balance untouched.
	assert.Equal(t, adjustMaxRetries, ledger.adjustCalls)
	assert.Empty(t, ledger.transactions())
	account, _ := ledger.FindAccount(context.Background(), accountId)
	assert.Equal(t, 10, account.Balance)
}

func TestExecutePricedAction_ConcurrentDebits(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 10)

	svc, _, _ := newTestService(ledger)

	// Every attempt costs 3 (2 + ceil(5/10) = 3, already above minimum 3).
	const attempts = 7
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 5, "concurrent",
				func(ctx context.Context) (uuid.UUID, error) {
					return uuid.New(), nil
				})
			results[idx] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		var insufficient *InsufficientCreditsError
		require.ErrorAs(t, err, &insufficient, "losers must fail with insufficient credits, got %v", err)
	}

	// floor(10/3) attempts can win, the rest are rejected cleanly.
	assert.Equal(t, 3, winners)

	account, err := ledger.FindAccount(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 1, account.Balance)

	// Ledger sum mirrors the balance delta exactly.
	sum, _ := ledger.SumTransactions(context.Background(), accountId)
	assert.Equal(t, -9, sum)
	assert.Len(t, ledger.transactions(), 3)
}

func TestAdjustBalanceAdmin(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 5)

	svc, _, alertsRec := newTestService(ledger)

	newBalance, err := svc.AdjustBalanceAdmin(context.Background(), accountId, 20, "goodwill grant")
	require.NoError(t, err)
	assert.Equal(t, 25, newBalance)
	assert.Equal(t, 1, alertsRec.adjusted)

	newBalance, err = svc.AdjustBalanceAdmin(context.Background(), accountId, -10, "abuse revocation")
	require.NoError(t, err)
	assert.Equal(t, 15, newBalance)

	// Revoking below zero is rejected like any other debit.
	_, err = svc.AdjustBalanceAdmin(context.Background(), accountId, -100, "too much")
	var insufficient *InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)

	_, err = svc.AdjustBalanceAdmin(context.Background(), accountId, 0, "noop")
	var invalid *InvalidActionParametersError
	require.ErrorAs(t, err, &invalid)

	txns := ledger.transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, entity.CreditKindAdjustment, txns[0].Kind)
	assert.Equal(t, 20, txns[0].Amount)
	assert.Equal(t, entity.CreditKindAdjustment, txns[1].Kind)
	assert.Equal(t, -10, txns[1].Amount)
}

func TestApplyPurchase(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	orderId := uuid.New()

	svc, _, _ := newTestService(ledger)
	uow := &fakeUow{ledger: ledger}

	newBalance, err := svc.ApplyPurchase(context.Background(), uow, accountId, 50, orderId, "credit pack purchase: pack_small")
	require.NoError(t, err)
	assert.Equal(t, 50, newBalance)

	txns := ledger.transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, entity.CreditKindPurchase, txns[0].Kind)
	assert.Equal(t, 50, txns[0].Amount)
	require.NotNil(t, txns[0].RelatedEntityId)
	assert.Equal(t, orderId, *txns[0].RelatedEntityId)

	_, err = svc.ApplyPurchase(context.Background(), uow, accountId, 0, orderId, "empty pack")
	var invalid *InvalidActionParametersError
	require.ErrorAs(t, err, &invalid)
}

func TestPriceAction(t *testing.T) {
	svc, _, _ := newTestService(newFakeLedger())

	tests := []struct {
		name     string
		kind     pricing.ActionKind
		duration int
		want     int
		wantErr  bool
	}{
		{name: "course 15 minutes", kind: pricing.ActionCourse, duration: 15, want: 4},
		{name: "course hits minimum", kind: pricing.ActionCourse, duration: 10, want: 3},
		{name: "course max duration", kind: pricing.ActionCourse, duration: 120, want: 14},
		{name: "voice agent same family", kind: pricing.ActionVoiceAgent, duration: 15, want: 4},
		{name: "presentation per slide", kind: pricing.ActionPresentation, duration: 12, want: 4},
		{name: "below minimum duration", kind: pricing.ActionCourse, duration: 4, wantErr: true},
		{name: "above maximum duration", kind: pricing.ActionCourse, duration: 121, wantErr: true},
		{name: "unknown kind", kind: pricing.ActionKind("podcast"), duration: 15, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := svc.PriceAction(tt.kind, tt.duration)
			if tt.wantErr {
				var invalid *InvalidActionParametersError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cost)
		})
	}
}

func TestGetBalance_CreatesAccountLazily(t *testing.T) {
	ledger := newFakeLedger()
	svc, _, _ := newTestService(ledger)

	accountId := uuid.New()
	balance, err := svc.GetBalance(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	account, err := ledger.FindAccount(context.Background(), accountId)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, 0, account.Balance)
}

func TestGetBalance_WritePathsDropCachedValue(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 20)

	cache := memory.NewBalanceCache()
	svc := NewCreditService(
		&fakeUowFactory{ledger: ledger},
		cache,
		&recordingPublisher{},
		&recordingAlerts{},
		nopLogger{},
	)

	// Read-through primes the cache.
	balance, err := svc.GetBalance(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 20, balance)
	_, found := cache.Get(accountId)
	assert.True(t, found)

	// A committed write must leave no cache entry behind. Overwriting with
	// the post-commit value instead would let two racing writers pin whichever
	// balance was Set last, not whichever committed last.
	_, err = svc.AdjustBalanceAdmin(context.Background(), accountId, -4, "revocation")
	require.NoError(t, err)
	_, found = cache.Get(accountId)
	assert.False(t, found)

	// Next read repopulates from the authoritative row.
	balance, err = svc.GetBalance(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 16, balance)

	// Same contract on the debit and refund paths.
	_, err = svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "course generation",
		func(ctx context.Context) (uuid.UUID, error) { return uuid.New(), nil })
	require.NoError(t, err)
	_, found = cache.Get(accountId)
	assert.False(t, found)

	_, _ = svc.ExecutePricedAction(context.Background(), accountId, pricing.ActionCourse, 15, "failing generation",
		func(ctx context.Context) (uuid.UUID, error) { return uuid.Nil, errors.New("provider timeout") })
	_, found = cache.Get(accountId)
	assert.False(t, found)

	// Debit then refund nets to the pre-action balance.
	balance, err = svc.GetBalance(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 12, balance)
}

func TestListRecentTransactions(t *testing.T) {
	ledger := newFakeLedger()
	accountId := uuid.New()
	ledger.seed(accountId, 100)

	svc, _, _ := newTestService(ledger)

	_, err := svc.AdjustBalanceAdmin(context.Background(), accountId, 10, "grant one")
	require.NoError(t, err)
	_, err = svc.AdjustBalanceAdmin(context.Background(), accountId, 5, "grant two")
	require.NoError(t, err)

	views, err := svc.ListRecentTransactions(context.Background(), accountId, 20)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, string(entity.CreditKindAdjustment), views[0].Kind)
}
