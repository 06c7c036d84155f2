package repository

import (
	"context"
	"errors"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
)

// LiquidationKeyPrefix is where the liquidation collector publishes
// per-symbol snapshots in the state store.
const LiquidationKeyPrefix = "liq:"

func LiquidationKey(symbol string) string {
	return LiquidationKeyPrefix + symbol
}

// StateLiquidationFeed reads liquidation snapshots written by the
// collector. A missing record means no recent liquidations, which is
// neutral pressure.
type StateLiquidationFeed struct {
	store domrepo.StateStore
}

func NewStateLiquidationFeed(store domrepo.StateStore) domrepo.LiquidationFeed {
	return &StateLiquidationFeed{store: store}
}

func (f *StateLiquidationFeed) Snapshot(ctx context.Context, symbol string) (models.LiquidationSnapshot, error) {
	var snap models.LiquidationSnapshot
	err := f.store.Get(ctx, LiquidationKey(symbol), &snap)
	if errors.Is(err, domrepo.ErrNotFound) {
		return models.LiquidationSnapshot{}, nil
	}
	if err != nil {
		return models.LiquidationSnapshot{}, err
	}
	return snap, nil
}
