package migration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestRunAndSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Run(db))
	// 두 번 실행해도 안전
	require.NoError(t, Run(db))

	tables, err := Tables(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"commission_policies", "seller_settlements", "settlement_transitions", "seller_payout_profiles"}, tables)
	for _, name := range tables {
		assert.True(t, db.Migrator().HasTable(name), name)
	}

	ctx := context.Background()
	policy, created, err := SeedPolicy(ctx, db, decimal.NewFromInt(5), decimal.NewFromInt(18))
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, policy.CommissionPercent.Equal(decimal.NewFromInt(5)))

	_, created, err = SeedPolicy(ctx, db, decimal.NewFromInt(9), decimal.NewFromInt(18))
	require.NoError(t, err)
	assert.False(t, created)
}
