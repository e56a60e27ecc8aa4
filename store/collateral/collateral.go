package collateral

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type collateralStore struct {
	db *db.DB
}

// New new collateral store
func New(db *db.DB) core.ICollateralStore {
	return &collateralStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Collateral{})
		if err := tx.AutoMigrate(core.Collateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *collateralStore) Find(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	var collateral core.Collateral
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&collateral).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Collateral{UserID: userID, AssetID: assetID}, nil
		}
		return nil, err
	}

	return &collateral, nil
}

func (s *collateralStore) FindByUser(ctx context.Context, userID string) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	if err := s.db.View().Where("user_id=?", userID).Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (s *collateralStore) Save(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	if err := tx.Update().Where("user_id=? and asset_id=?", collateral.UserID, collateral.AssetID).FirstOrCreate(collateral).Error; err != nil {
		return err
	}

	return nil
}

func (s *collateralStore) Update(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	version := collateral.Version
	collateral.Version++
	if err := tx.Update().Model(core.Collateral{}).Where("user_id=? and asset_id=? and version=?", collateral.UserID, collateral.AssetID, version).Updates(collateral).Error; err != nil {
		return err
	}

	return nil
}
