package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.CreditRepository())
	assert.NotNil(t, uow.PurchaseRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Atomic Balance Adjustment", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.CreditRepository()

		accountId := uuid.New()
		account, err := repo.GetOrCreateAccount(ctx, accountId)
		require.NoError(t, err)
		assert.Equal(t, 0, account.Balance)

		// Credit then debit through the conditional UPDATE.
		newBalance, err := repo.AdjustBalance(ctx, accountId, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, newBalance)

		newBalance, err = repo.AdjustBalance(ctx, accountId, -4)
		require.NoError(t, err)
		assert.Equal(t, 6, newBalance)

		// A debit past zero must be rejected with the balance untouched.
		_, err = repo.AdjustBalance(ctx, accountId, -100)
		assert.ErrorIs(t, err, contract.ErrInsufficientBalance)

		account, err = repo.FindAccount(ctx, accountId)
		require.NoError(t, err)
		assert.Equal(t, 6, account.Balance)
	})

	t.Run("Check Ledger Append And Patch", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.CreditRepository()

		accountId := uuid.New()
		_, err := repo.GetOrCreateAccount(ctx, accountId)
		require.NoError(t, err)

		txn := &entity.CreditTransaction{
			AccountId:   accountId,
			Kind:        entity.CreditKindConsumption,
			Amount:      -3,
			Description: "integration consumption",
		}
		txnId, err := repo.AppendTransaction(ctx, txn)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, txnId)

		// Back-fill is idempotent: same value twice is a no-op.
		resourceId := uuid.New()
		require.NoError(t, repo.PatchRelatedEntity(ctx, txnId, resourceId))
		require.NoError(t, repo.PatchRelatedEntity(ctx, txnId, resourceId))

		txns, err := repo.FindTransactions(ctx, specification.ByAccount{AccountID: accountId})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.NotNil(t, txns[0].RelatedEntityId)
		assert.Equal(t, resourceId, *txns[0].RelatedEntityId)

		sum, err := repo.SumTransactions(ctx, accountId)
		require.NoError(t, err)
		assert.Equal(t, -3, sum)
	})

	t.Run("Check Purchase Status Transition", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.PurchaseRepository()

		purchase := &entity.CreditPurchase{
			Id:        uuid.New(),
			AccountId: uuid.New(),
			PackId:    "pack_small",
			Credits:   50,
			AmountIDR: 75000,
			Status:    entity.PurchaseStatusPending,
		}
		require.NoError(t, repo.Create(ctx, purchase))

		// Only the first pending->settled transition wins; the replay sees
		// zero rows affected.
		won, err := repo.TransitionStatus(ctx, purchase.Id, entity.PurchaseStatusPending, entity.PurchaseStatusSettled)
		require.NoError(t, err)
		assert.True(t, won)

		won, err = repo.TransitionStatus(ctx, purchase.Id, entity.PurchaseStatusPending, entity.PurchaseStatusSettled)
		require.NoError(t, err)
		assert.False(t, won)

		// A settled purchase cannot be failed.
		won, err = repo.TransitionStatus(ctx, purchase.Id, entity.PurchaseStatusPending, entity.PurchaseStatusFailed)
		require.NoError(t, err)
		assert.False(t, won)

		stored, err := repo.FindOne(ctx, specification.ByID{ID: purchase.Id})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, entity.PurchaseStatusSettled, stored.Status)
	})
}
