// Reconciliation pass: for every credit account, the live balance must equal
// the signed sum of its ledger entries. A mismatch means a write bypassed the
// atomic balance+ledger step and needs manual investigation.
package main

import (
	"context"
	"log"
	"os"

	"ai-studio-be/internal/repository/implementation"
	"ai-studio-be/pkg/database"

	"github.com/fatih/color"
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

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := implementation.NewCreditRepository(db)

	color.Cyan("🔍 Reconciling credit account balances against ledger sums\n")

	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		color.Red("Failed to list accounts: %v", err)
		os.Exit(1)
	}

	mismatches := 0
	for _, acct := range accounts {
		sum, err := repo.SumTransactions(ctx, acct.Id)
		if err != nil {
			color.Red("Account %s: failed to sum ledger: %v", acct.Id, err)
			mismatches++
			continue
		}

		if sum != acct.Balance {
			color.Red("MISMATCH account=%s balance=%d ledger_sum=%d drift=%d",
				acct.Id, acct.Balance, sum, acct.Balance-sum)
			mismatches++
			continue
		}

		if acct.Balance < 0 {
			color.Red("NEGATIVE BALANCE account=%s balance=%d", acct.Id, acct.Balance)
			mismatches++
		}
	}

	color.Cyan("\nChecked %d accounts", len(accounts))
	if mismatches > 0 {
		color.Red("❌ %d account(s) failed reconciliation", mismatches)
		os.Exit(1)
	}
	color.Green("✅ All balances match their ledgers")
}
