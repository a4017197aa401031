package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/user/movielist/internal/model"
	"github.com/user/movielist/internal/utils"
)

// 面向用户的错误提示
const (
	MsgNoResults    = "No movies found"
	MsgNetworkError = "Network error: unable to reach server"
)

// SearchState 搜索会话的当前状态快照
type SearchState struct {
	Query   string               `json:"query"`
	Results []model.SearchResult `json:"results"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error,omitempty"`
}

// SearchSession 单个客户端的搜索状态
// 每次搜索分配递增序号，新搜索会取消旧请求，过期响应直接丢弃
type SearchSession struct {
	api       MovieAPI
	mediaType string

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
	state  SearchState
}

func NewSearchSession(api MovieAPI, mediaType string) *SearchSession {
	return &SearchSession{
		api:       api,
		mediaType: mediaType,
		state:     SearchState{Results: []model.SearchResult{}},
	}
}

// Search 发起搜索并返回完成后的状态，空查询不发请求
func (s *SearchSession) Search(ctx context.Context, query string) SearchState {
	return s.SearchType(ctx, query, "")
}

// SearchType 同 Search，可指定媒体类型（movie/series/episode）
func (s *SearchSession) SearchType(ctx context.Context, query, mediaType string) SearchState {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.State()
	}
	if mediaType == "" {
		mediaType = s.mediaType
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.State()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	token := s.seq
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	prevErr := s.state.Error
	s.state.Query = query
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	defer cancel()

	results, err := s.run(reqCtx, query, mediaType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq || s.closed {
		// 已有更新的搜索或会话已关闭，丢弃本次结果
		return s.snapshotLocked()
	}
	s.cancel = nil
	s.state.Loading = false
	switch {
	case err == nil:
		s.state.Results = results
		s.state.Error = ""
	case errors.Is(err, context.Canceled):
		// 调用方放弃等待，保留原有结果和错误提示
		s.state.Error = prevErr
	default:
		s.state.Results = []model.SearchResult{}
		s.state.Error = SearchErrorMessage(err)
	}
	return s.snapshotLocked()
}

// run 执行一次远程搜索，api 发生 panic 时转换为错误
func (s *SearchSession) run(ctx context.Context, query, mediaType string) (results []model.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SearchSession] 搜索发生恐慌 (%s): %v", query, r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	resp, err := s.api.Search(ctx, query, mediaType)
	if err != nil {
		if !errors.Is(err, ErrNoResults) && !errors.Is(err, context.Canceled) {
			log.Printf("[SearchSession] 搜索失败 (%s): %v", query, err)
		}
		return nil, err
	}
	return append([]model.SearchResult{}, resp.Search...), nil
}

// State 返回当前状态的副本
func (s *SearchSession) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SearchSession) snapshotLocked() SearchState {
	st := s.state
	st.Results = append([]model.SearchResult{}, s.state.Results...)
	return st
}

// Close 取消进行中的搜索，之后的响应不再修改状态
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state.Loading = false
}

// SearchErrorMessage 将搜索错误转换为面向用户的提示
func SearchErrorMessage(err error) string {
	var (
		httpErr      *utils.HTTPError
		transportErr *utils.TransportError
	)
	switch {
	case errors.Is(err, ErrNoResults):
		return MsgNoResults
	case errors.As(err, &httpErr):
		return "Network error: " + httpErr.Error()
	case errors.As(err, &transportErr), errors.Is(err, context.DeadlineExceeded):
		return MsgNetworkError
	default:
		return "An unexpected error occurred: " + err.Error()
	}
}
