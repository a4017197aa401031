package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movielist/internal/model"
	"github.com/user/movielist/internal/utils"
)

// fakeMovieAPI 按查询词返回预设结果，可选阻塞直到 release 关闭
type fakeMovieAPI struct {
	mu       sync.Mutex
	calls    int
	results  map[string][]model.SearchResult
	errs     map[string]error
	blockers map[string]chan struct{}
	details  map[string]*model.MovieDetail
}

func newFakeMovieAPI() *fakeMovieAPI {
	return &fakeMovieAPI{
		results:  map[string][]model.SearchResult{},
		errs:     map[string]error{},
		blockers: map[string]chan struct{}{},
		details:  map[string]*model.MovieDetail{},
	}
}

func (f *fakeMovieAPI) Search(ctx context.Context, query, mediaType string) (*model.SearchResponse, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockers[query]
	res, err := f.results[query], f.errs[query]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &utils.TransportError{Err: ctx.Err()}
		}
	}
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return &model.SearchResponse{Response: "False", Error: "Movie not found!"}, ErrNoResults
	}
	return &model.SearchResponse{Search: res, TotalResults: fmt.Sprint(len(res)), Response: "True"}, nil
}

func (f *fakeMovieAPI) Detail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if d, ok := f.details[imdbID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, imdbID)
}

func (f *fakeMovieAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var shawshankResult = model.SearchResult{IMDbID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", Type: "movie", Poster: "url"}

func TestSearchWithResults(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["shawshank"] = []model.SearchResult{shawshankResult}
	s := NewSearchSession(api, "movie")

	st := s.Search(context.Background(), "shawshank")

	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "tt0111161", st.Results[0].IMDbID)
	assert.Equal(t, "shawshank", st.Query)
	assert.Equal(t, st, s.State())
}

func TestSearchNoResults(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["shawshank"] = []model.SearchResult{shawshankResult}
	s := NewSearchSession(api, "movie")
	s.Search(context.Background(), "shawshank")

	st := s.Search(context.Background(), "doesnotexist12345")

	assert.Empty(t, st.Results)
	assert.NotNil(t, st.Results)
	assert.Equal(t, "No movies found", st.Error)
	assert.False(t, st.Loading)
}

func TestSearchEmptyQueryIsNoop(t *testing.T) {
	api := newFakeMovieAPI()
	s := NewSearchSession(api, "movie")

	st := s.Search(context.Background(), "   ")

	assert.Zero(t, api.callCount())
	assert.False(t, st.Loading)
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Error)
}

func TestSearchErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"no results", ErrNoResults, "No movies found"},
		{"transport", &utils.TransportError{Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}, "Network error: unable to reach server"},
		{"http", &utils.HTTPError{StatusCode: 503}, "Network error: HTTP 503 Service Unavailable"},
		{"timeout", context.DeadlineExceeded, "Network error: unable to reach server"},
		{"other", errors.New("boom"), "An unexpected error occurred: boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeMovieAPI()
			api.results["q"] = []model.SearchResult{shawshankResult}
			s := NewSearchSession(api, "movie")
			s.Search(context.Background(), "q")

			api.errs["q"] = tc.err
			st := s.Search(context.Background(), "q")

			assert.Equal(t, tc.want, st.Error)
			assert.Empty(t, st.Results)
			assert.False(t, st.Loading)
		})
	}
}

type panicAPI struct{ fakeMovieAPI }

func (p *panicAPI) Search(ctx context.Context, query, mediaType string) (*model.SearchResponse, error) {
	panic("decoder exploded")
}

func TestSearchClearsLoadingOnPanic(t *testing.T) {
	s := NewSearchSession(&panicAPI{}, "movie")

	st := s.Search(context.Background(), "anything")

	assert.False(t, st.Loading)
	assert.Contains(t, st.Error, "An unexpected error occurred")
}

func TestSearchLoadingWhileInFlight(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["slow"] = []model.SearchResult{shawshankResult}
	release := make(chan struct{})
	api.blockers["slow"] = release
	s := NewSearchSession(api, "movie")

	done := make(chan SearchState)
	go func() { done <- s.Search(context.Background(), "slow") }()

	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)
	close(release)

	st := <-done
	assert.False(t, st.Loading)
	assert.False(t, s.State().Loading)
	assert.Len(t, st.Results, 1)
}

func TestStaleSearchDoesNotOverwriteNewer(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["slow"] = []model.SearchResult{{IMDbID: "tt0000001", Title: "Slow"}}
	api.results["fast"] = []model.SearchResult{{IMDbID: "tt0000002", Title: "Fast"}}
	api.blockers["slow"] = make(chan struct{}) // 只能被取消
	s := NewSearchSession(api, "movie")

	slowDone := make(chan SearchState)
	go func() { slowDone <- s.Search(context.Background(), "slow") }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)

	fast := s.Search(context.Background(), "fast")
	require.Len(t, fast.Results, 1)
	assert.Equal(t, "Fast", fast.Results[0].Title)

	<-slowDone

	st := s.State()
	assert.Equal(t, "fast", st.Query)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "Fast", st.Results[0].Title)
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
}

func TestCloseCancelsInFlightSearch(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["slow"] = []model.SearchResult{shawshankResult}
	api.blockers["slow"] = make(chan struct{})
	s := NewSearchSession(api, "movie")

	done := make(chan SearchState)
	go func() { done <- s.Search(context.Background(), "slow") }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)

	s.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search did not return after Close")
	}
	st := s.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Error)

	// 关闭后的搜索不再发请求
	calls := api.callCount()
	s.Search(context.Background(), "slow")
	assert.Equal(t, calls, api.callCount())
}

func TestCallerCancellationKeepsResults(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["shawshank"] = []model.SearchResult{shawshankResult}
	api.results["slow"] = []model.SearchResult{{IMDbID: "tt0000001"}}
	api.blockers["slow"] = make(chan struct{})
	s := NewSearchSession(api, "movie")
	s.Search(context.Background(), "shawshank")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan SearchState)
	go func() { done <- s.Search(ctx, "slow") }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)
	cancel()

	st := <-done
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "tt0111161", st.Results[0].IMDbID)
}

func TestCallerCancellationKeepsPreviousError(t *testing.T) {
	api := newFakeMovieAPI()
	api.results["slow"] = []model.SearchResult{{IMDbID: "tt0000001"}}
	api.blockers["slow"] = make(chan struct{})
	s := NewSearchSession(api, "movie")
	st := s.Search(context.Background(), "nothing")
	require.Equal(t, MsgNoResults, st.Error)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan SearchState)
	go func() { done <- s.Search(ctx, "slow") }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)
	cancel()

	st = <-done
	assert.False(t, st.Loading)
	assert.Equal(t, MsgNoResults, st.Error)
	assert.Empty(t, st.Results)
}
