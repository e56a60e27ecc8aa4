package transfer

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	if err := tx.Update().Where("trace_id=?", transfer.TraceID).FirstOrCreate(transfer).Error; err != nil {
		return err
	}

	return nil
}

func (s *transferStore) ListPending(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().Where("handled=?", false).Order("id").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *transferStore) Update(ctx context.Context, transfer *core.Transfer) error {
	version := transfer.Version
	transfer.Version++
	if err := s.db.Update().Model(core.Transfer{}).Where("trace_id=? and version=?", transfer.TraceID, version).Updates(map[string]interface{}{
		"handled": transfer.Handled,
		"version": transfer.Version,
	}).Error; err != nil {
		return err
	}

	return nil
}
