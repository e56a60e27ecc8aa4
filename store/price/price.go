package price

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PriceQuote{})
		if err := tx.AutoMigrate(core.PriceQuote{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Create(ctx context.Context, tx *db.DB, quote *core.PriceQuote) error {
	if err := tx.Update().Create(quote).Error; err != nil {
		return err
	}

	return nil
}

func (s *priceStore) Update(ctx context.Context, tx *db.DB, quote *core.PriceQuote) error {
	version := quote.Version
	quote.Version++
	if err := tx.Update().Model(core.PriceQuote{}).Where("asset_id=? and version=?", quote.AssetID, version).Updates(quote).Error; err != nil {
		return err
	}

	return nil
}

func (s *priceStore) Find(ctx context.Context, assetID string) (*core.PriceQuote, error) {
	var quote core.PriceQuote
	if err := s.db.View().Where("asset_id=?", assetID).First(&quote).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.PriceQuote{AssetID: assetID}, nil
		}
		return nil, err
	}

	return &quote, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.PriceQuote, error) {
	var quotes []*core.PriceQuote
	if err := s.db.View().Find(&quotes).Error; err != nil {
		return nil, err
	}

	return quotes, nil
}
