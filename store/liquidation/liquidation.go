package liquidation

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type liquidationStore struct {
	db *db.DB
}

// New new liquidation store
func New(db *db.DB) core.ILiquidationStore {
	return &liquidationStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.LiquidationEvent{})
		if err := tx.AutoMigrate(core.LiquidationEvent{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *liquidationStore) Create(ctx context.Context, tx *db.DB, event *core.LiquidationEvent) error {
	if err := tx.Update().Create(event).Error; err != nil {
		return err
	}

	return nil
}

func (s *liquidationStore) FindByTraceID(ctx context.Context, traceID string) (*core.LiquidationEvent, error) {
	var event core.LiquidationEvent
	if err := s.db.View().Where("trace_id=?", traceID).First(&event).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.LiquidationEvent{TraceID: traceID}, nil
		}
		return nil, err
	}

	return &event, nil
}

func (s *liquidationStore) ListByUser(ctx context.Context, userID string, limit int) ([]*core.LiquidationEvent, error) {
	var events []*core.LiquidationEvent
	if err := s.db.View().Where("user_id=?", userID).Order("id desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *liquidationStore) List(ctx context.Context, limit int) ([]*core.LiquidationEvent, error) {
	var events []*core.LiquidationEvent
	if err := s.db.View().Order("id desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
