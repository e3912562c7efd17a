package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"instapay-callback/internal/config"
	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	pg "instapay-callback/internal/infra/db/postgres"
)

// seed creates a few ledger accounts for exercising the callback flows
// against a local database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect Postgres
	cfg.Database.MaxConns = 4
	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	accounts := pg.NewAccountRepo(pool)

	seed := []model.LedgerAccount{
		{AccountNumber: "1000000001", AccountType: model.AccountTypeSavings, AccountName: "Juan dela Cruz", Status: model.LedgerAccountActive, DailyLimit: decimal.NewFromInt(500000)},
		{AccountNumber: "1000000002", AccountType: model.AccountTypeCurrent, AccountName: "Maria Santos", Status: model.LedgerAccountActive},
		{AccountNumber: "1000000003", AccountType: model.AccountTypeSavings, AccountName: "Closed Account", Status: model.LedgerAccountClosed},
		{AccountNumber: "1000000004", AccountType: "LN", AccountName: "Loan Account", Status: model.LedgerAccountActive},
	}

	for i := range seed {
		a := &seed[i]
		existing, err := accounts.FindByNumber(ctx, nil, a.AccountNumber)
		switch {
		case err == nil:
			fmt.Printf("  = %s already present (%s, %s, balance=%s)\n", existing.AccountNumber, existing.AccountType, existing.Status, existing.Balance)
			continue
		case !errors.Is(err, domain.ErrNotFound):
			log.Fatalf("find %s: %v", a.AccountNumber, err)
		}
		if err := accounts.Save(ctx, nil, a); err != nil {
			log.Fatalf("save %s: %v", a.AccountNumber, err)
		}
		fmt.Printf("  + %s (%s, %s)\n", a.AccountNumber, a.AccountType, a.Status)
	}
}
