package service

import (
	"log"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRegistry 按客户端会话 ID 管理搜索会话
// 闲置超时的会话被淘汰时会关闭，取消其进行中的搜索
type SessionRegistry struct {
	api       MovieAPI
	mediaType string
	sessions  *cache.Cache
	mu        sync.Mutex
}

func NewSessionRegistry(api MovieAPI, mediaType string, idle time.Duration) *SessionRegistry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	c := cache.New(idle, idle/2)
	c.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*SearchSession); ok {
			s.Close()
			log.Printf("[SessionRegistry] 会话已过期: %s", id)
		}
	})
	return &SessionRegistry{
		api:       api,
		mediaType: mediaType,
		sessions:  c,
	}
}

// Get 获取会话，不存在时创建；每次访问都会顺延过期时间
func (r *SessionRegistry) Get(id string) *SearchSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(id); ok {
		s := v.(*SearchSession)
		r.sessions.SetDefault(id, s)
		return s
	}
	s := NewSearchSession(r.api, r.mediaType)
	r.sessions.SetDefault(id, s)
	return s
}

// Lookup 只查不建
func (r *SessionRegistry) Lookup(id string) (*SearchSession, bool) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*SearchSession), true
}

// Drop 立即关闭并移除会话
func (r *SessionRegistry) Drop(id string) {
	r.sessions.Delete(id)
}

// Len 当前会话数
func (r *SessionRegistry) Len() int {
	return r.sessions.ItemCount()
}

// Close 关闭所有会话
func (r *SessionRegistry) Close() {
	// Flush 不触发 OnEvicted，需逐个关闭
	for _, item := range r.sessions.Items() {
		if s, ok := item.Object.(*SearchSession); ok {
			s.Close()
		}
	}
	r.sessions.Flush()
}
