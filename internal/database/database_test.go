package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	t.Run("rejects-unknown-driver", func(t *testing.T) {
		cfg := Config{
			Driver:             "sqlite3",
			ConnectionString:   "file::memory:",
			MaxOpenConnections: 10,
			MaxIdleConnections: 5,
			ConnMaxLifetime:    time.Hour,
		}

		db, err := Connect(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}
