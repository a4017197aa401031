package model

import (
	"fmt"
	"strings"
	"time"
)

// WatchStatus 观看状态
type WatchStatus string

const (
	StatusPlanned   WatchStatus = "planned"   // 想看
	StatusCompleted WatchStatus = "completed" // 已看
)

// ParseWatchStatus 解析状态，大小写不敏感
func ParseWatchStatus(s string) (WatchStatus, error) {
	switch WatchStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPlanned:
		return StatusPlanned, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("无效的观看状态: %q", s)
}

// Valid 是否为合法状态
func (s WatchStatus) Valid() bool {
	return s == StatusPlanned || s == StatusCompleted
}

// WatchlistEntry 片单条目，按 IMDb ID 唯一
type WatchlistEntry struct {
	IMDbID    string      `json:"imdb_id" gorm:"column:imdb_id;primaryKey;type:varchar(32)"`
	Title     string      `json:"title" gorm:"column:title"`
	Year      string      `json:"year" gorm:"column:year"`
	Poster    string      `json:"poster" gorm:"column:poster"`
	Status    WatchStatus `json:"status" gorm:"column:status;type:varchar(16);index;default:planned"`
	CreatedAt time.Time   `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"column:updated_at"`
}

// TableName 表名
func (WatchlistEntry) TableName() string {
	return "watchlist"
}

// WatchlistEntryFromResult 由搜索结果生成片单条目（默认想看）
func WatchlistEntryFromResult(r SearchResult) *WatchlistEntry {
	return &WatchlistEntry{
		IMDbID: r.IMDbID,
		Title:  r.Title,
		Year:   r.Year,
		Poster: r.Poster,
		Status: StatusPlanned,
	}
}

// 片单排序方式
const (
	SortAdded = "added"
	SortTitle = "title"
	SortYear  = "year"
)

// WatchlistFilter 片单查询条件
type WatchlistFilter struct {
	Status WatchStatus // 为空表示全部
	Sort   string
}
