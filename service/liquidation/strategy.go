package liquidation

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	foxuuid "github.com/fox-one/pkg/uuid"
)

type directStrategy struct {
	transfers core.ITransferStore
}

// NewDirectStrategy pays seized collateral straight out to the liquidator
func NewDirectStrategy(transfers core.ITransferStore) core.ISeizureStrategy {
	return &directStrategy{transfers: transfers}
}

func (s *directStrategy) Name() string {
	return core.LiquidationStrategyDirect
}

func (s *directStrategy) Settle(ctx context.Context, tx *db.DB, event *core.LiquidationEvent) error {
	return s.transfers.Create(ctx, tx, &core.Transfer{
		TraceID:    foxuuid.Modify(event.TraceID, "seize_payout"),
		AssetID:    event.CollateralAssetID,
		OpponentID: event.Liquidator,
		Amount:     event.CollateralSeized,
		Source:     core.TransferSourceSeizePayout,
	})
}

type absorbStrategy struct {
	transfers      core.ITransferStore
	treasuryUserID string
}

// NewAbsorbStrategy routes seized collateral to the protocol treasury,
// which later auctions it off. Used when no external liquidator bids.
func NewAbsorbStrategy(transfers core.ITransferStore, treasuryUserID string) core.ISeizureStrategy {
	return &absorbStrategy{
		transfers:      transfers,
		treasuryUserID: treasuryUserID,
	}
}

func (s *absorbStrategy) Name() string {
	return core.LiquidationStrategyAbsorb
}

func (s *absorbStrategy) Settle(ctx context.Context, tx *db.DB, event *core.LiquidationEvent) error {
	return s.transfers.Create(ctx, tx, &core.Transfer{
		TraceID:    foxuuid.Modify(event.TraceID, "absorb"),
		AssetID:    event.CollateralAssetID,
		OpponentID: s.treasuryUserID,
		Amount:     event.CollateralSeized,
		Source:     core.TransferSourceAbsorb,
	})
}
