package oracle

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type priceService struct {
	client      *resty.Client
	priceStore  core.IPriceStore
	maxQuoteAge time.Duration
}

// New new price feed service backed by an http oracle endpoint
func New(cfg *core.Config, priceStore core.IPriceStore) core.IPriceFeedService {
	return &priceService{
		client:      resthttp.NewClient(cfg.PriceOracle.EndPoint),
		priceStore:  priceStore,
		maxQuoteAge: cfg.App.MaxQuoteAge(),
	}
}

// GetQuote read the latest stored quote and fail closed. A quote that is
// missing, flagged stale, older than the max age or non-positive is
// rejected the same way: the caller must not value anything with it.
func (s *priceService) GetQuote(ctx context.Context, assetID string, now time.Time) (*core.PriceQuote, error) {
	quote, err := s.priceStore.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if quote.ID == 0 ||
		quote.Stale ||
		!quote.Price.IsPositive() ||
		now.Sub(quote.QuotedAt) > s.maxQuoteAge {
		return nil, core.ErrStalePrice
	}

	return quote, nil
}

func (s *priceService) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	resp, err := resthttp.Request(ctx, s.client).
		SetQueryParam("asset", assetID).
		Get("/api/v1/ticker")
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.DecodeResponse(resp, &ticker); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle: pull ticker", assetID)
		return nil, err
	}

	return &ticker, nil
}

func (s *priceService) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	resp, err := resthttp.Request(ctx, s.client).
		Get("/api/v1/tickers")
	if err != nil {
		return nil, err
	}

	var tickers []*core.PriceTicker
	if err := resthttp.DecodeResponse(resp, &tickers); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle: pull all tickers")
		return nil, err
	}

	return tickers, nil
}
