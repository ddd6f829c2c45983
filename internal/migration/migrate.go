package migration

import (
	"context"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the ledger tables.
func Run(db *gorm.DB) error {
	return repository.AutoMigrate(db)
}

// SeedPolicy 정책 이력이 비어 있을 때만 기본 수수료 정책을 등록
func SeedPolicy(ctx context.Context, db *gorm.DB, commissionPercent, gstPercent decimal.Decimal) (*domain.CommissionPolicy, bool, error) {
	policies := service.NewPolicyService(repository.NewPolicyRepository(db))
	return policies.EnsureDefault(ctx, commissionPercent, gstPercent)
}

// Tables 마이그레이션 대상 테이블명
func Tables(db *gorm.DB) ([]string, error) {
	names := make([]string, 0, len(repository.Models()))
	for _, m := range repository.Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}
