package position

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{UserID: userID, AssetID: assetID}, nil
		}
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if err := tx.Update().Where("user_id=? and asset_id=?", position.UserID, position.AssetID).FirstOrCreate(position).Error; err != nil {
		return err
	}

	return nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	if err := tx.Update().Model(core.Position{}).Where("user_id=? and asset_id=? and version=?", position.UserID, position.AssetID, version).Updates(position).Error; err != nil {
		return err
	}

	return nil
}

func (s *positionStore) Borrowers(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Position{}).Where("scaled_debt>0").Pluck("distinct user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *positionStore) CountOfSuppliers(ctx context.Context, assetID string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Position{}).Where("asset_id=? and scaled_supply>0", assetID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *positionStore) CountOfBorrowers(ctx context.Context, assetID string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Position{}).Where("asset_id=? and scaled_debt>0", assetID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
