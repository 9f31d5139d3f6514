package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"arcledger/config"
	"arcledger/core"
	"arcledger/core/genesis"
	"arcledger/core/types"
	"arcledger/observability/logging"
	"arcledger/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the ledger configuration file")
	accountHex := flag.String("account", "", "optional account address to inspect")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.ServiceName, cfg.Environment, cfg.LogFile)

	admin, err := types.ParseAddress(cfg.AdminAddress)
	if err != nil {
		logger.Error("invalid admin address", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ledger := core.NewLedger(db, admin, logger)

	if strings.TrimSpace(cfg.GenesisFile) != "" {
		count, err := ledger.GetRegisteredCount()
		if err != nil {
			logger.Error("read state", "error", err)
			os.Exit(1)
		}
		if count == 0 {
			spec, err := genesis.LoadSpec(cfg.GenesisFile)
			if err != nil {
				logger.Error("load genesis", "error", err)
				os.Exit(1)
			}
			if err := core.ApplyGenesis(ledger, spec); err != nil {
				logger.Error("apply genesis", "error", err)
				os.Exit(1)
			}
			logger.Info("genesis applied", "accounts", len(spec.Alloc))
		}
	}

	if err := printSummary(ledger, *accountHex); err != nil {
		logger.Error("inspect state", "error", err)
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	switch cfg.DBBackend {
	case config.BackendMemory:
		return storage.NewMemDB(), nil
	case config.BackendBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		return storage.NewBoltDB(cfg.DatabasePath())
	default:
		return storage.NewLevelDB(cfg.DatabasePath())
	}
}

func printSummary(ledger *core.Ledger, accountHex string) error {
	supply, err := ledger.GetTotalSupply()
	if err != nil {
		return err
	}
	pool, err := ledger.GetRedistributionPool()
	if err != nil {
		return err
	}
	count, err := ledger.GetRegisteredCount()
	if err != nil {
		return err
	}
	active, err := ledger.IsRedistributionActive()
	if err != nil {
		return err
	}

	fmt.Printf("total supply:        %s\n", supply)
	fmt.Printf("redistribution pool: %s\n", pool)
	fmt.Printf("registered accounts: %d\n", count)
	fmt.Printf("redistribution:      active=%v\n", active)

	if strings.TrimSpace(accountHex) == "" {
		return nil
	}
	addr, err := types.ParseAddress(accountHex)
	if err != nil {
		return err
	}
	balance, err := ledger.GetBalance(addr)
	if err != nil {
		return err
	}
	score, err := ledger.GetParticipationScore(addr)
	if err != nil {
		return err
	}
	pending, err := ledger.GetPendingRewards(addr)
	if err != nil {
		return err
	}
	holdings, err := ledger.GetCumulativeHoldings(addr)
	if err != nil {
		return err
	}
	fmt.Printf("account %s\n", addr.Hex())
	fmt.Printf("  balance:             %s\n", balance)
	fmt.Printf("  participation score: %d\n", score)
	fmt.Printf("  pending rewards:     %s\n", pending)
	fmt.Printf("  cumulative holdings: %s\n", holdings)
	return nil
}
