package db

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/model"
)

type captureWriter struct {
	mu    sync.Mutex
	lines []string
}

func (w *captureWriter) Printf(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *captureWriter) output() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.lines, "\n")
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	w := &captureWriter{}
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), configWithLogger(newGormLogger(w)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gormDB) })
	require.NoError(t, Migrate(gormDB))

	var user model.User
	err = gormDB.Where("username = ?", "nobody").First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, w.output())

	err = gormDB.Table("no_such_table").Find(&[]model.User{}).Error
	require.Error(t, err)
	assert.Contains(t, w.output(), "no_such_table")
}

func TestOpen(t *testing.T) {
	gormDB, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	require.NoError(t, Reset(gormDB))
	require.NoError(t, Close(gormDB))

	_, err = Open("oracle", "")
	assert.ErrorContains(t, err, "unsupported db driver")
}
