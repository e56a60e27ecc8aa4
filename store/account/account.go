package account

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Account{})
		if err := tx.AutoMigrate(core.Account{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) Save(ctx context.Context, account *core.Account) error {
	var existing core.Account
	err := s.db.View().Where("user_id=?", account.UserID).First(&existing).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return s.db.Update().Create(account).Error
		}
		return err
	}

	account.ID = existing.ID
	account.Version = existing.Version + 1
	return s.db.Update().Model(core.Account{}).Where("user_id=? and version=?", account.UserID, existing.Version).Updates(account).Error
}

func (s *accountStore) Find(ctx context.Context, userID string) (*core.Account, error) {
	var account core.Account
	if err := s.db.View().Where("user_id=?", userID).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Account{UserID: userID}, nil
		}
		return nil, err
	}

	return &account, nil
}

func (s *accountStore) ListUnsafe(ctx context.Context) ([]*core.Account, error) {
	var accounts []*core.Account
	if err := s.db.View().Where("health_factor<1 and debt_value>0").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
