package database_test

import (
	"testing"

	"pasar/internal/database"
	"pasar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, "file::memory:")
	require.NoError(t, err)

	for _, model := range []interface{}{&models.User{}, &models.Stall{}, &models.Product{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "pending_code"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("mysql", "dsn")
	assert.Error(t, err)
}
