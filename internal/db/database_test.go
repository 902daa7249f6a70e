package db

import (
	"testing"
	"time"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePool(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	require.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	// 0 이면 기존 값 유지
	configurePool(sqlDB, &config.DatabaseConfig{})
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	configurePool(sqlDB, &config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestCloseWithoutInitialize(t *testing.T) {
	prev := DB
	DB = nil
	t.Cleanup(func() { DB = prev })

	assert.NoError(t, Close())
	assert.Nil(t, GetDB())
}
