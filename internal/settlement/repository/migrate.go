package repository

import (
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"gorm.io/gorm"
)

// Models 정산 원장 테이블 목록
func Models() []interface{} {
	return []interface{}{
		&domain.CommissionPolicy{},
		&domain.Settlement{},
		&domain.TransitionLog{},
		&domain.SellerPayoutProfile{},
	}
}

// AutoMigrate 정산 원장 스키마 생성/갱신
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
