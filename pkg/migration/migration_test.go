package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/pkg/database"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type createWidgetsTable struct{}

func (createWidgetsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgetsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type failing struct{}

func (failing) Up(db *gorm.DB) error   { return gorm.ErrInvalidData }
func (failing) Down(db *gorm.DB) error { return nil }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	return db
}

// resetRegistry swaps in an isolated registry for one test.
func resetRegistry(t *testing.T) {
	t.Helper()
	regMu.Lock()
	saved := registry
	registry = nil
	regMu.Unlock()

	t.Cleanup(func() {
		regMu.Lock()
		registry = saved
		regMu.Unlock()
	})
}

func TestRunAndRollback(t *testing.T) {
	resetRegistry(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})

	db := testDB(t)
	runner := New(db)

	require.NoError(t, runner.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))

	statuses, err := runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Ran)
	assert.Equal(t, 1, statuses[0].Batch)

	// A second run is a no-op.
	require.NoError(t, runner.Run())
	statuses, err = runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 1, statuses[0].Batch)

	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	statuses, err = runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Ran)
}

func TestRunBatchesIncrement(t *testing.T) {
	resetRegistry(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})

	db := testDB(t)
	runner := New(db)
	require.NoError(t, runner.Run())

	// A migration registered later lands in the next batch.
	Register("20260102000000_noop", noop{})
	require.NoError(t, runner.Run())

	statuses, err := runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, 1, statuses[0].Batch)
	assert.Equal(t, 2, statuses[1].Batch)
}

type noop struct{}

func (noop) Up(db *gorm.DB) error   { return nil }
func (noop) Down(db *gorm.DB) error { return nil }

func TestRunStopsOnFailure(t *testing.T) {
	resetRegistry(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})
	Register("20260101000001_failing", failing{})

	db := testDB(t)
	runner := New(db)
	require.Error(t, runner.Run())

	// The successful migration before the failure is recorded.
	statuses, err := runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Ran)
	assert.False(t, statuses[1].Ran)
}

func TestRollbackEmptyTable(t *testing.T) {
	resetRegistry(t)
	assert.NoError(t, New(testDB(t)).Rollback())
}
