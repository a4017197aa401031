package service

import (
	"context"
	"sync"

	"github.com/user/movielist/internal/model"
)

// watchlistFeed 片单变更推送
// 每个订阅者只保留最新一份快照，消费慢时旧快照被覆盖
type watchlistFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []*model.WatchlistEntry
}

func newWatchlistFeed() *watchlistFeed {
	return &watchlistFeed{subs: make(map[int]chan []*model.WatchlistEntry)}
}

func (f *watchlistFeed) subscribe(ctx context.Context, initial []*model.WatchlistEntry) <-chan []*model.WatchlistEntry {
	ch := make(chan []*model.WatchlistEntry, 1)
	ch <- cloneEntries(initial)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

func (f *watchlistFeed) publish(entries []*model.WatchlistEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		// 丢弃未消费的旧快照
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- cloneEntries(entries):
		default:
		}
	}
}

func (f *watchlistFeed) empty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs) == 0
}

func (f *watchlistFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func cloneEntries(entries []*model.WatchlistEntry) []*model.WatchlistEntry {
	out := make([]*model.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}
