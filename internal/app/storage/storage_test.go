package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// backendContract exercises the Backend behavior every implementation shares.
func backendContract(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	// Missing key
	_, err := backend.Load(ctx, "cart:missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Save then load
	require.NoError(t, backend.Save(ctx, "cart:a", []byte(`[{"quantity":2}]`)))
	data, err := backend.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":2}]`, string(data))

	// Overwrite
	require.NoError(t, backend.Save(ctx, "cart:a", []byte(`[]`)))
	data, err = backend.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	// Delete is idempotent
	require.NoError(t, backend.Delete(ctx, "cart:a"))
	_, err = backend.Load(ctx, "cart:a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, backend.Delete(ctx, "cart:a"))
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemory())
}

func TestMemoryBackend_CopiesData(t *testing.T) {
	backend := NewMemory()
	ctx := context.Background()

	data := []byte(`[1,2,3]`)
	require.NoError(t, backend.Save(ctx, "cart:a", data))
	data[0] = 'X'

	stored, err := backend.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(stored))
}

func TestFileBackend(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)

	backendContract(t, backend)
}

func TestFileBackend_KeySeparatorsAreSafe(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "cart:9f2c/evil", []byte(`[]`)))
	data, err := backend.Load(ctx, "cart:9f2c/evil")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	backend, err := NewDatabase(db)
	require.NoError(t, err)
	return backend
}

func TestDatabaseBackend(t *testing.T) {
	backendContract(t, setupTestDatabase(t))
}

func TestDatabaseBackend_UpsertKeepsOneRow(t *testing.T) {
	backend := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "cart:a", []byte(`[1]`)))
	require.NoError(t, backend.Save(ctx, "cart:a", []byte(`[2]`)))

	var count int64
	require.NoError(t, backend.db.Model(&CartRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	data, err := backend.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(data))
}
