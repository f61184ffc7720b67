package assetstore_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandportal/growthhub/internal/assetstore"
	"github.com/brandportal/growthhub/internal/persistence"
	"github.com/brandportal/growthhub/internal/persistence/memdb"
	"github.com/brandportal/growthhub/internal/testfixtures"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T, opener persistence.Opener, opts assetstore.Options) *assetstore.Store {
	t.Helper()
	factory := testfixtures.NewServiceFactory(testfixtures.WithLogger(quietLogger()))
	return factory.NewStore(opener, opts)
}

func TestStore_ConnectsLazily(t *testing.T) {
	t.Parallel()

	opener := &testfixtures.CountingOpener{Next: memdb.New()}
	store := newStore(t, opener, assetstore.Options{})

	assert.Equal(t, assetstore.ModeUnconnected, store.Mode())
	assert.Zero(t, store.ConnectAttempts())

	_, ok := store.GetAsset(context.Background(), "missing")
	assert.False(t, ok)
	assert.Equal(t, assetstore.ModeDurable, store.Mode())
	assert.False(t, store.IsUsingFallbackMode())
	assert.EqualValues(t, 1, store.ConnectAttempts())
	assert.EqualValues(t, 1, opener.Opens())
}

func TestStore_NilOpenerStartsVolatile(t *testing.T) {
	t.Parallel()

	store := newStore(t, nil, assetstore.Options{})
	ctx := context.Background()

	assert.True(t, store.IsUsingFallbackMode())
	store.SaveAsset(ctx, "logo", assetstore.Blob{Name: "logo.png", MimeType: "image/png", Data: []byte{1, 2, 3}})
	asset, ok := store.GetAsset(ctx, "logo")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, asset.Data)
	assert.Zero(t, store.ConnectAttempts())
}

func TestStore_OpenFailureFallsBackOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opener := &testfixtures.FailingOpener{}
	store := newStore(t, opener, assetstore.Options{Logger: slog.New(slog.NewJSONHandler(&buf, nil))})
	ctx := context.Background()

	store.SaveAsset(ctx, "a", assetstore.Blob{Name: "a.txt", MimeType: "text/plain", Data: []byte("hello")})
	require.True(t, store.IsUsingFallbackMode())

	require.NoError(t, store.SaveState(ctx, "brand", map[string]string{"name": "Acme"}))
	raw, ok := store.LoadState(ctx, "brand")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Acme"}`, string(raw))

	asset, ok := store.GetAsset(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "hello", string(asset.Data))

	_, ok = store.GetAsset(ctx, "missing")
	assert.False(t, ok)
	store.ClearLastSession(ctx)
	store.HardReset(ctx)

	assert.EqualValues(t, 1, store.ConnectAttempts())
	assert.EqualValues(t, 1, opener.Opens())
	assert.True(t, store.IsUsingFallbackMode())
	assert.Contains(t, buf.String(), "volatile mode")
	assert.Contains(t, buf.String(), `"reason":"open_failed"`)
}

func TestStore_OpenTimeoutFallsBackAndDiscardsLateHandle(t *testing.T) {
	t.Parallel()

	opener := testfixtures.NewBlockingOpener(memdb.New())
	t.Cleanup(opener.Release)
	store := newStore(t, opener, assetstore.Options{ConnectTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, store.SaveState(ctx, "k", 1))
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, store.IsUsingFallbackMode())

	opener.Release()
	assert.Eventually(t, func() bool { return opener.Closed() == 1 }, time.Second, 5*time.Millisecond)

	raw, ok := store.LoadState(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "1", string(raw))
	assert.EqualValues(t, 1, store.ConnectAttempts())
}

func TestStore_ConcurrentFirstUseSharesOneAttempt(t *testing.T) {
	t.Parallel()

	opener := &testfixtures.CountingOpener{Next: memdb.New()}
	store := newStore(t, opener, assetstore.Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.GetAsset(ctx, "x")
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, opener.Opens())
	assert.EqualValues(t, 1, store.ConnectAttempts())
	assert.Equal(t, assetstore.ModeDurable, store.Mode())
}

func TestStore_ModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unconnected", assetstore.ModeUnconnected.String())
	assert.Equal(t, "durable", assetstore.ModeDurable.String())
	assert.Equal(t, "volatile", assetstore.ModeVolatile.String())
}
