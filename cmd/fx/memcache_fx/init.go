package memcache_fx

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"songdrop/internal/config"
	mem "songdrop/pkg/memcache"
)

var Module = fx.Provide(provideLedger)

func provideLedger(cfg config.Config, log *zap.Logger) (*mem.Ledger, error) {
	ledger := mem.NewLedger()
	if cfg.StoreMode() != config.StoreModeMemory || cfg.MemorySeedFile == "" {
		return ledger, nil
	}

	f, err := os.Open(cfg.MemorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("open MEMORY_SEED_FILE: %w", err)
	}
	defer f.Close()

	counts, err := ledger.LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("load MEMORY_SEED_FILE: %w", err)
	}

	log.Info("memory store seeded",
		zap.String("file", cfg.MemorySeedFile),
		zap.Int("songs", counts.Songs),
		zap.Int("tokens", counts.Tokens),
		zap.Int("payments", counts.Payments))
	return ledger, nil
}
