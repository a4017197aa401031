package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movielist/internal/model"
)

func TestDetailServiceCachesSuccess(t *testing.T) {
	api := newFakeMovieAPI()
	api.details["tt0111161"] = &model.MovieDetail{IMDbID: "tt0111161", Title: "The Shawshank Redemption", Response: "True"}
	svc := NewDetailService(api, 10, time.Minute)

	d, err := svc.Get(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "The Shawshank Redemption", d.Title)

	_, err = svc.Get(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, 1, api.callCount())
}

func TestDetailServiceDoesNotCacheMisses(t *testing.T) {
	api := newFakeMovieAPI()
	svc := NewDetailService(api, 10, time.Minute)

	_, err := svc.Get(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, api.callCount())
}

// blockingDetailAPI 详情请求阻塞到 release 关闭
type blockingDetailAPI struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingDetailAPI() *blockingDetailAPI {
	return &blockingDetailAPI{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (b *blockingDetailAPI) Search(ctx context.Context, query, mediaType string) (*model.SearchResponse, error) {
	return nil, ErrNoResults
}

func (b *blockingDetailAPI) Detail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
		return &model.MovieDetail{IMDbID: imdbID, Title: "Se7en", Response: "True"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestDetailServiceCoalescesConcurrentLookups(t *testing.T) {
	api := newBlockingDetailAPI()
	svc := NewDetailService(api, 10, time.Minute)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.Get(context.Background(), "tt0114369")
			if err == nil && d.Title != "Se7en" {
				err = assert.AnError
			}
			errs <- err
		}()
	}

	<-api.started
	time.Sleep(50 * time.Millisecond)
	close(api.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestDetailServiceCallerCancelDoesNotFailOthers(t *testing.T) {
	api := newBlockingDetailAPI()
	svc := NewDetailService(api, 10, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctxA, "tt0114369")
		errA <- err
	}()
	<-api.started

	type result struct {
		d   *model.MovieDetail
		err error
	}
	resB := make(chan result, 1)
	go func() {
		d, err := svc.Get(context.Background(), "tt0114369")
		resB <- result{d, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(api.release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, "Se7en", r.d.Title)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, int32(1), api.calls.Load())

	// 结果已缓存
	_, err := svc.Get(context.Background(), "tt0114369")
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.calls.Load())
}
