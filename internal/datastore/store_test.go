package datastore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const showsDoc = `{"shows":[{"id":"the-bachelor","name":"The Bachelor","network":"ABC","seasons":28}]}`

type countingSource struct {
	calls atomic.Int32
	fetch func(n int32) ([]byte, error)
}

func (s *countingSource) Fetch(_ context.Context, _ string) ([]byte, error) {
	return s.fetch(s.calls.Add(1))
}

func TestStoreRetriesNotFoundThenReportsTransportFailure(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(showsDoc))
	}))
	t.Cleanup(srv.Close)

	src, err := NewHTTPSource(srv.URL+"/_data", time.Second)
	require.NoError(t, err)
	store := New(src, Options{Attempts: 3, BackoffUnit: time.Millisecond})

	_, err = store.Shows(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTransport))
	require.False(t, errors.Is(err, ErrDecode))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, 3, loadErr.Attempts)
	require.Equal(t, ShowsFile, loadErr.Name)
	require.EqualValues(t, 3, hits.Load())
	require.Equal(t, StateFailed, store.State(ShowsFile))

	healthy.Store(true)
	store.Reset(ShowsFile)
	require.Equal(t, StateEmpty, store.State(ShowsFile))

	shows, err := store.Shows(context.Background())
	require.NoError(t, err)
	require.Len(t, shows, 1)
	require.Equal(t, StateLoaded, store.State(ShowsFile))
}

func TestStoreRetriesDecodeFailures(t *testing.T) {
	t.Parallel()

	src := &countingSource{fetch: func(n int32) ([]byte, error) {
		if n < 3 {
			return []byte(`{"shows":`), nil
		}
		return []byte(showsDoc), nil
	}}
	store := New(src, Options{Attempts: 3, BackoffUnit: time.Millisecond})

	shows, err := store.Shows(context.Background())
	require.NoError(t, err)
	require.Equal(t, "The Bachelor", shows[0].Name)
	require.EqualValues(t, 3, src.calls.Load())
}

func TestStoreClassifiesDecodeFailure(t *testing.T) {
	t.Parallel()

	src := &countingSource{fetch: func(int32) ([]byte, error) { return []byte(`{"locations":[]}`), nil }}
	store := New(src, Options{Attempts: 2, BackoffUnit: time.Millisecond})

	_, err := store.Shows(context.Background())
	require.True(t, errors.Is(err, ErrDecode))
	require.EqualValues(t, 2, src.calls.Load())
}

func TestStoreFailuresAreNotCached(t *testing.T) {
	t.Parallel()

	src := &countingSource{fetch: func(int32) ([]byte, error) { return nil, errors.New("offline") }}
	store := New(src, Options{Attempts: 1, BackoffUnit: time.Millisecond})

	_, err := store.Shows(context.Background())
	require.Error(t, err)
	_, err = store.Shows(context.Background())
	require.Error(t, err)
	require.EqualValues(t, 2, src.calls.Load())
}

func TestStoreCachesAndSharesLoads(t *testing.T) {
	t.Parallel()

	src := &countingSource{fetch: func(int32) ([]byte, error) {
		time.Sleep(5 * time.Millisecond)
		return []byte(showsDoc), nil
	}}
	store := New(src, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Shows(context.Background())
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, src.calls.Load())
}

func TestStoreStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	src := &countingSource{fetch: func(int32) ([]byte, error) { return nil, errors.New("offline") }}
	store := New(src, Options{Attempts: 3, BackoffUnit: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := store.Shows(ctx)
	require.True(t, errors.Is(err, ErrTransport))
	require.EqualValues(t, 1, src.calls.Load())
}

func TestSnapshotKeepsRegionsIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ShowsFile), []byte(showsDoc), 0o600))
	store := New(DirSource{Dir: dir}, Options{Attempts: 1, BackoffUnit: time.Millisecond})

	snap := store.Snapshot(context.Background())
	require.NoError(t, snap.ShowsErr)
	require.True(t, errors.Is(snap.LocationsErr, ErrTransport))
	require.Len(t, snap.Catalog.Shows, 1)
	require.Empty(t, snap.Catalog.Locations)

	cat, err := store.Catalog(context.Background())
	require.True(t, errors.Is(err, ErrTransport))
	require.Len(t, cat.Shows, 1)
}

func TestOpenSource(t *testing.T) {
	t.Parallel()

	src, closeFn, err := OpenSource(context.Background(), "./data", time.Second)
	require.NoError(t, err)
	require.IsType(t, DirSource{}, src)
	require.NoError(t, closeFn())

	src, _, err = OpenSource(context.Background(), "https://example.com/_data", time.Second)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/_data/", src.(*HTTPSource).BaseURL.String())

	_, _, err = OpenSource(context.Background(), "", time.Second)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLinearBackOff(t *testing.T) {
	t.Parallel()

	b := newRetryPolicy(3, 500*time.Millisecond)
	b.Reset()
	require.Equal(t, 500*time.Millisecond, b.NextBackOff())
	require.Equal(t, time.Second, b.NextBackOff())
	require.Less(t, b.NextBackOff(), time.Duration(0))
}
