package database

import (
	"testing"

	"github.com/damoang/payout-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Ping())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "postgres"}, gormlogger.Silent)
	assert.Error(t, err)

	_, err = Open(&config.DatabaseConfig{Driver: "mysql", DSN: "not a dsn"}, gormlogger.Silent)
	assert.Error(t, err)
}
