package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"sync"
	"testing"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurchaseRepo struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*entity.CreditPurchase

	// Runs after FindOne returns its snapshot, outside the lock. Lets a test
	// hold several settlement attempts at the same observation point.
	afterFind func()
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]*entity.CreditPurchase)}
}

func (f *fakePurchaseRepo) Create(ctx context.Context, purchase *entity.CreditPurchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *purchase
	f.purchases[purchase.Id] = &stored
	return nil
}

func (f *fakePurchaseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error) {
	var result *entity.CreditPurchase
	f.mu.Lock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if p, found := f.purchases[byId.ID]; found {
				copied := *p
				result = &copied
			}
		}
	}
	f.mu.Unlock()
	if f.afterFind != nil {
		f.afterFind()
	}
	return result, nil
}

func (f *fakePurchaseRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PurchaseStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.purchases[id]; ok && p.Status == from {
		p.Status = to
		return true, nil
	}
	return false, nil
}

type fakePaymentUow struct {
	fakeUow
	purchases *fakePurchaseRepo
}

func (u *fakePaymentUow) PurchaseRepository() contract.PurchaseRepository { return u.purchases }

type fakePaymentUowFactory struct {
	ledger    *fakeLedger
	purchases *fakePurchaseRepo
}

func (f *fakePaymentUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakePaymentUow{fakeUow: fakeUow{ledger: f.ledger}, purchases: f.purchases}
}

const testServerKey = "SB-Mid-server-testkey"

func newTestPaymentService(ledger *fakeLedger, purchases *fakePurchaseRepo) (IPaymentService, *recordingAlerts) {
	creditSvc, _, _ := newTestService(ledger)
	alertsRec := &recordingAlerts{}
	svc := NewPaymentService(
		&fakePaymentUowFactory{ledger: ledger, purchases: purchases},
		creditSvc,
		config.PaymentConfig{
			MidtransServerKey: testServerKey,
			SmallPackCredits:  50,
			LargePackCredits:  250,
			SmallPackPriceIDR: 75000,
			LargePackPriceIDR: 300000,
		},
		"http://localhost:5173",
		"development",
		nil, // no redis in unit tests, the DB status guard carries idempotency
		alertsRec,
		nopLogger{},
	)
	return svc, alertsRec
}

func signedWebhook(orderId uuid.UUID, status string) *dto.MidtransWebhookRequest {
	statusCode := "200"
	grossAmount := "75000.00"
	input := orderId.String() + statusCode + grossAmount + testServerKey
	return &dto.MidtransWebhookRequest{
		TransactionStatus: status,
		OrderId:           orderId.String(),
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      fmt.Sprintf("%x", sha512.Sum512([]byte(input))),
	}
}

func TestWebhookSignature(t *testing.T) {
	got := webhookSignature("order-1", "200", "75000.00", "secret")
	want := fmt.Sprintf("%x", sha512.Sum512([]byte("order-1"+"200"+"75000.00"+"secret")))
	assert.Equal(t, want, got)
}

func TestHandleNotification_RejectsBadSignature(t *testing.T) {
	svc, _ := newTestPaymentService(newFakeLedger(), newFakePurchaseRepo())

	req := signedWebhook(uuid.New(), "settlement")
	req.SignatureKey = "tampered"

	err := svc.HandleNotification(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature")
}

func TestHandleNotification_SettlementCreditsOnce(t *testing.T) {
	ledger := newFakeLedger()
	purchases := newFakePurchaseRepo()
	svc, alertsRec := newTestPaymentService(ledger, purchases)

	accountId := uuid.New()
	ledger.seed(accountId, 0)

	orderId := uuid.New()
	require.NoError(t, purchases.Create(context.Background(), &entity.CreditPurchase{
		Id:        orderId,
		AccountId: accountId,
		PackId:    "pack_small",
		Credits:   50,
		AmountIDR: 75000,
		Status:    entity.PurchaseStatusPending,
	}))

	req := signedWebhook(orderId, "settlement")
	require.NoError(t, svc.HandleNotification(context.Background(), req))

	account, err := ledger.FindAccount(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 50, account.Balance)
	assert.Equal(t, 1, alertsRec.settled)

	stored, _ := purchases.FindOne(context.Background(), specification.ByID{ID: orderId})
	assert.Equal(t, entity.PurchaseStatusSettled, stored.Status)

	// Replayed notification is a no-op: same balance, one purchase entry.
	require.NoError(t, svc.HandleNotification(context.Background(), req))
	account, _ = ledger.FindAccount(context.Background(), accountId)
	assert.Equal(t, 50, account.Balance)
	assert.Len(t, ledger.transactions(), 1)
	assert.Equal(t, entity.CreditKindPurchase, ledger.transactions()[0].Kind)
}

func TestHandleNotification_ConcurrentSettlementsCreditOnce(t *testing.T) {
	ledger := newFakeLedger()
	purchases := newFakePurchaseRepo()
	svc, alertsRec := newTestPaymentService(ledger, purchases)

	accountId := uuid.New()
	ledger.seed(accountId, 0)

	orderId := uuid.New()
	require.NoError(t, purchases.Create(context.Background(), &entity.CreditPurchase{
		Id:        orderId,
		AccountId: accountId,
		PackId:    "pack_small",
		Credits:   50,
		AmountIDR: 75000,
		Status:    entity.PurchaseStatusPending,
	}))

	// Hold both notifications right after the purchase lookup so each has
	// observed the pending row before either attempts the status transition.
	var gate sync.WaitGroup
	gate.Add(2)
	purchases.afterFind = func() {
		gate.Done()
		gate.Wait()
	}

	req := signedWebhook(orderId, "settlement")
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = svc.HandleNotification(context.Background(), req)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Exactly one attempt wins the pending->settled transition and credits.
	account, err := ledger.FindAccount(context.Background(), accountId)
	require.NoError(t, err)
	assert.Equal(t, 50, account.Balance)
	assert.Len(t, ledger.transactions(), 1)
	assert.Equal(t, 1, alertsRec.settled)

	purchases.afterFind = nil
	stored, _ := purchases.FindOne(context.Background(), specification.ByID{ID: orderId})
	assert.Equal(t, entity.PurchaseStatusSettled, stored.Status)
}

func TestHandleNotification_LateFailureKeepsSettledPurchase(t *testing.T) {
	ledger := newFakeLedger()
	purchases := newFakePurchaseRepo()
	svc, _ := newTestPaymentService(ledger, purchases)

	accountId := uuid.New()
	ledger.seed(accountId, 0)

	orderId := uuid.New()
	require.NoError(t, purchases.Create(context.Background(), &entity.CreditPurchase{
		Id:        orderId,
		AccountId: accountId,
		PackId:    "pack_small",
		Credits:   50,
		Status:    entity.PurchaseStatusPending,
	}))

	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(orderId, "settlement")))
	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(orderId, "expire")))

	stored, _ := purchases.FindOne(context.Background(), specification.ByID{ID: orderId})
	assert.Equal(t, entity.PurchaseStatusSettled, stored.Status)
	account, _ := ledger.FindAccount(context.Background(), accountId)
	assert.Equal(t, 50, account.Balance)
}

func TestHandleNotification_FailureMarksPurchase(t *testing.T) {
	ledger := newFakeLedger()
	purchases := newFakePurchaseRepo()
	svc, _ := newTestPaymentService(ledger, purchases)

	orderId := uuid.New()
	require.NoError(t, purchases.Create(context.Background(), &entity.CreditPurchase{
		Id:        orderId,
		AccountId: uuid.New(),
		PackId:    "pack_small",
		Credits:   50,
		Status:    entity.PurchaseStatusPending,
	}))

	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(orderId, "expire")))

	stored, _ := purchases.FindOne(context.Background(), specification.ByID{ID: orderId})
	assert.Equal(t, entity.PurchaseStatusFailed, stored.Status)
	assert.Empty(t, ledger.transactions())
}

func TestHandleNotification_PendingIsIgnored(t *testing.T) {
	ledger := newFakeLedger()
	purchases := newFakePurchaseRepo()
	svc, _ := newTestPaymentService(ledger, purchases)

	orderId := uuid.New()
	require.NoError(t, purchases.Create(context.Background(), &entity.CreditPurchase{
		Id:     orderId,
		Status: entity.PurchaseStatusPending,
	}))

	require.NoError(t, svc.HandleNotification(context.Background(), signedWebhook(orderId, "pending")))

	stored, _ := purchases.FindOne(context.Background(), specification.ByID{ID: orderId})
	assert.Equal(t, entity.PurchaseStatusPending, stored.Status)
}

func TestGetPacks(t *testing.T) {
	svc, _ := newTestPaymentService(newFakeLedger(), newFakePurchaseRepo())

	packs := svc.GetPacks(context.Background())
	require.Len(t, packs, 2)
	assert.Equal(t, "pack_small", packs[0].Id)
	assert.Equal(t, 50, packs[0].Credits)
	assert.Equal(t, "pack_large", packs[1].Id)
	assert.Equal(t, 250, packs[1].Credits)
}
