package database

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pasar/internal/models"
)

func TestNewLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: newLogger(&buf)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	buf.Reset()

	var user models.User
	err = db.First(&user, "email = ?", "ghost@example.com").Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String())

	// Real failures are still reported.
	err = db.Exec("SELECT * FROM no_such_table").Error
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}
