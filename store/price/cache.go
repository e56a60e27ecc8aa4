package price

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache decorates a price store with a short-lived read cache; writes
// invalidate the cached quote so health checks never read behind a sync
func Cache(store core.IPriceStore, exp time.Duration) core.IPriceStore {
	return &cachePriceStore{
		IPriceStore: store,
		cache:       gcache.New(512).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cachePriceStore struct {
	core.IPriceStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cachePriceStore) Create(ctx context.Context, tx *db.DB, quote *core.PriceQuote) error {
	if err := s.IPriceStore.Create(ctx, tx, quote); err != nil {
		return err
	}
	s.cache.Remove(s.quoteKey(quote.AssetID))
	return nil
}

func (s *cachePriceStore) Update(ctx context.Context, tx *db.DB, quote *core.PriceQuote) error {
	if err := s.IPriceStore.Update(ctx, tx, quote); err != nil {
		return err
	}
	s.cache.Remove(s.quoteKey(quote.AssetID))
	return nil
}

func (s *cachePriceStore) Find(ctx context.Context, assetID string) (*core.PriceQuote, error) {
	key := s.quoteKey(assetID)
	if v, err := s.cache.Get(key); err == nil {
		if quote, ok := v.(*core.PriceQuote); ok {
			return quote, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		quote, err := s.IPriceStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}
		if quote.ID > 0 {
			s.cache.Set(key, quote)
		}
		return quote, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.PriceQuote), nil
}

func (s *cachePriceStore) quoteKey(assetID string) string {
	return fmt.Sprintf("price:asset:%s", assetID)
}
