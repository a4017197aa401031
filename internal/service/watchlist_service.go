package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/user/movielist/internal/model"
)

// ErrInvalidEntry 条目缺少必要字段
var ErrInvalidEntry = errors.New("invalid watchlist entry")

// WatchlistStore 片单持久化
type WatchlistStore interface {
	Upsert(e *model.WatchlistEntry) error
	Remove(imdbID string) error
	Exists(imdbID string) (bool, error)
	Find(imdbID string) (*model.WatchlistEntry, error)
	SetStatus(imdbID string, status model.WatchStatus) (bool, error)
	Toggle(e *model.WatchlistEntry) (bool, error)
	ListAll(f model.WatchlistFilter) ([]*model.WatchlistEntry, error)
}

// WatchlistService 片单服务
// 每次成功修改后向订阅者推送整张表
type WatchlistService struct {
	store WatchlistStore
	feed  *watchlistFeed
	pubMu sync.Mutex // 保证推送顺序与读取顺序一致
}

func NewWatchlistService(store WatchlistStore) *WatchlistService {
	return &WatchlistService{
		store: store,
		feed:  newWatchlistFeed(),
	}
}

// Add 添加或覆盖条目
func (s *WatchlistService) Add(e *model.WatchlistEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	if err := s.store.Upsert(e); err != nil {
		return fmt.Errorf("保存片单条目失败: %w", err)
	}
	s.publish()
	return nil
}

// Remove 移除条目，不存在时不报错
func (s *WatchlistService) Remove(imdbID string) error {
	if err := s.store.Remove(imdbID); err != nil {
		return fmt.Errorf("删除片单条目失败: %w", err)
	}
	s.publish()
	return nil
}

// Toggle 已存在则移除，否则以想看状态添加；返回是否为添加
func (s *WatchlistService) Toggle(e *model.WatchlistEntry) (bool, error) {
	if err := validateEntry(e); err != nil {
		return false, err
	}
	added, err := s.store.Toggle(e)
	if err != nil {
		return false, fmt.Errorf("切换片单状态失败: %w", err)
	}
	s.publish()
	return added, nil
}

// IsPresent 是否在片单中
func (s *WatchlistService) IsPresent(imdbID string) (bool, error) {
	return s.store.Exists(imdbID)
}

// Status 查询观看状态，不在片单中返回 false
func (s *WatchlistService) Status(imdbID string) (model.WatchStatus, bool, error) {
	e, err := s.store.Find(imdbID)
	if err != nil || e == nil {
		return "", false, err
	}
	return e.Status, true, nil
}

// UpdateStatus 修改观看状态；条目不存在时不做任何修改并返回 false
func (s *WatchlistService) UpdateStatus(imdbID string, status model.WatchStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: status %q", ErrInvalidEntry, status)
	}
	updated, err := s.store.SetStatus(imdbID, status)
	if err != nil {
		return false, fmt.Errorf("更新观看状态失败: %w", err)
	}
	if updated {
		s.publish()
	}
	return updated, nil
}

// All 读取片单
func (s *WatchlistService) All(f model.WatchlistFilter) ([]*model.WatchlistEntry, error) {
	return s.store.ListAll(f)
}

// Subscribe 订阅片单变化：立即推送当前内容，之后每次修改推送最新内容
// ctx 结束时通道关闭
func (s *WatchlistService) Subscribe(ctx context.Context) (<-chan []*model.WatchlistEntry, error) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	entries, err := s.store.ListAll(model.WatchlistFilter{})
	if err != nil {
		return nil, err
	}
	return s.feed.subscribe(ctx, entries), nil
}

func (s *WatchlistService) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	if s.feed.empty() {
		return
	}
	entries, err := s.store.ListAll(model.WatchlistFilter{})
	if err != nil {
		log.Printf("[WatchlistService] 读取片单失败，跳过推送: %v", err)
		return
	}
	s.feed.publish(entries)
}

func validateEntry(e *model.WatchlistEntry) error {
	if e == nil || strings.TrimSpace(e.IMDbID) == "" {
		return fmt.Errorf("%w: imdb id is required", ErrInvalidEntry)
	}
	if e.Status != "" && !e.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidEntry, e.Status)
	}
	return nil
}

// Subscribers 当前订阅者数量
func (s *WatchlistService) Subscribers() int {
	return s.feed.count()
}
