// Seeds demo credit accounts with a starter balance, writing the grant
// through the ledger so the balance invariant holds from day one.
package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/implementation"
	"ai-studio-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	starterCredits := 25
	if v, err := strconv.Atoi(os.Getenv("SEED_STARTER_CREDITS")); err == nil && v > 0 {
		starterCredits = v
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := implementation.NewCreditRepository(db)

	log.Printf("Seeding demo accounts with %d starter credits...", starterCredits)

	for i := 0; i < 3; i++ {
		accountId := uuid.New()
		if _, err := repo.GetOrCreateAccount(ctx, accountId); err != nil {
			log.Fatalf("Error: failed to create account: %v", err)
		}

		newBalance, err := repo.AdjustBalance(ctx, accountId, starterCredits)
		if err != nil {
			log.Fatalf("Error: failed to grant starter credits: %v", err)
		}

		if _, err := repo.AppendTransaction(ctx, &entity.CreditTransaction{
			AccountId:   accountId,
			Kind:        entity.CreditKindAdjustment,
			Amount:      starterCredits,
			Description: "starter credit grant",
		}); err != nil {
			log.Fatalf("Error: failed to write grant entry: %v", err)
		}

		log.Printf("Seeded account %s (balance %d)", accountId, newBalance)
	}

	log.Println("✅ Seeding completed")
}
