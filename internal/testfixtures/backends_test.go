package testfixtures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandportal/growthhub/internal/persistence"
	"github.com/brandportal/growthhub/internal/persistence/memdb"
)

func TestFailingOpener(t *testing.T) {
	t.Parallel()

	opener := &FailingOpener{DestroyErr: errors.New("blocked")}
	_, err := opener.Open(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.EqualError(t, opener.Destroy(context.Background()), "blocked")
	assert.EqualValues(t, 1, opener.Opens())
	assert.EqualValues(t, 1, opener.Destroys())
}

func TestBlockingOpenerWaitsForRelease(t *testing.T) {
	t.Parallel()

	opener := NewBlockingOpener(memdb.New())
	done := make(chan persistence.Database, 1)
	go func() {
		db, _ := opener.Open(context.Background())
		done <- db
	}()

	select {
	case <-done:
		t.Fatal("open returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	opener.Release()
	db := <-done
	require.NotNil(t, db)
	require.NoError(t, db.Close())
	assert.EqualValues(t, 1, opener.Closed())
}

func TestFaultyOpenerTogglesFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opener := &FaultyOpener{Next: memdb.New()}
	db, err := opener.Open(ctx)
	require.NoError(t, err)

	snapshot := persistence.StateSnapshot{Key: "k", Payload: `1`}
	require.NoError(t, db.PutState(ctx, snapshot))

	opener.FailWrites(true)
	assert.ErrorIs(t, db.PutState(ctx, snapshot), ErrBackendUnavailable)
	assert.ErrorIs(t, db.PutAsset(ctx, persistence.Asset{ID: "a"}), ErrBackendUnavailable)

	opener.FailReads(true)
	_, err = db.GetState(ctx, "k")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	opener.FailReads(false)
	got, err := db.GetState(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `1`, got.Payload)

	opener.FailDeletes(true)
	assert.ErrorIs(t, db.DeleteState(ctx, "k"), ErrBackendUnavailable)
}

func TestSQLiteHarnessOpens(t *testing.T) {
	t.Parallel()

	harness := NewSQLiteHarness(t)
	db := harness.Open(t)
	require.NoError(t, db.PutState(context.Background(), persistence.StateSnapshot{Key: "k", Payload: `{}`, UpdatedAt: ReferenceTime()}))
	assert.FileExists(t, harness.Path)
}
