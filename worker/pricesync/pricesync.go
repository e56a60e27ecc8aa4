package pricesync

import (
	"context"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

const checkpointKey = "pricesync_checkpoint"

// Sync pulls fresh tickers from the oracle and stores them as quotes.
// Quotes the oracle stops serving are flagged stale instead of deleted,
// so the engine rejects them without losing the audit trail.
type Sync struct {
	cron         *cron.Cron
	db           *db.DB
	reserveStore core.IReserveStore
	priceStore   core.IPriceStore
	priceSrv     core.IPriceFeedService
	property     property.Store
}

// New new price sync worker, pulling on the given cron spec
func New(
	location string,
	spec string,
	database *db.DB,
	reserveStore core.IReserveStore,
	priceStore core.IPriceStore,
	priceSrv core.IPriceFeedService,
	property property.Store,
) *Sync {
	loc, err := time.LoadLocation(location)
	if err != nil {
		panic(err)
	}

	w := &Sync{
		cron:         cron.New(cron.WithLocation(loc)),
		db:           database,
		reserveStore: reserveStore,
		priceStore:   priceStore,
		priceSrv:     priceSrv,
		property:     property,
	}

	if spec == "" {
		spec = "@every 30s"
	}

	if _, err := w.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if err := w.onWork(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("pricesync failed")
		}
	}); err != nil {
		panic(err)
	}

	return w
}

// Run run worker
func (w *Sync) Run(ctx context.Context) error {
	w.cron.Start()
	defer w.cron.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (w *Sync) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricesync")
	now := time.Now()

	reserves, err := w.reserveStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("reserves.All")
		return err
	}

	if len(reserves) == 0 {
		return nil
	}

	tickers, err := w.priceSrv.PullAllPriceTickers(ctx, now)
	if err != nil {
		log.WithError(err).Errorln("pull tickers")
		return err
	}

	quoted := map[string]*core.PriceTicker{}
	for _, t := range tickers {
		quoted[t.AssetID] = t
	}

	for _, reserve := range reserves {
		ticker, ok := quoted[reserve.AssetID]
		if !ok || !ticker.Price.GreaterThan(decimal.Zero) {
			if err := w.markStale(ctx, reserve.AssetID); err != nil {
				return err
			}
			continue
		}

		if err := w.saveQuote(ctx, reserve.AssetID, ticker, now); err != nil {
			return err
		}
	}

	if err := w.property.Save(ctx, checkpointKey, now.Unix()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	return nil
}

func (w *Sync) saveQuote(ctx context.Context, assetID string, ticker *core.PriceTicker, now time.Time) error {
	quote, err := w.priceStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	quote.Price = ticker.Price
	quote.QuotedAt = now
	quote.Stale = false

	if quote.ID == 0 {
		quote.AssetID = assetID
		return w.priceStore.Create(ctx, w.db, quote)
	}

	return w.priceStore.Update(ctx, w.db, quote)
}

func (w *Sync) markStale(ctx context.Context, assetID string) error {
	quote, err := w.priceStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if quote.ID == 0 || quote.Stale {
		return nil
	}

	quote.Stale = true
	return w.priceStore.Update(ctx, w.db, quote)
}
