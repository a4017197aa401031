package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/user/movielist/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistRepository 片单仓库
// 同一张表的读写由 mu 串行化：写操作独占，读操作共享
type WatchlistRepository struct {
	db *gorm.DB
	mu sync.RWMutex
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Upsert 添加或覆盖条目（按 imdb_id 唯一），保留 created_at
func (r *WatchlistRepository) Upsert(e *model.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return upsert(r.db, e)
}

func upsert(db *gorm.DB, e *model.WatchlistEntry) error {
	if e.Status == "" {
		e.Status = model.StatusPlanned
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "imdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "year", "poster", "status", "updated_at"}),
	}).Create(e).Error
}

// Remove 删除条目，不存在时不报错
func (r *WatchlistRepository) Remove(imdbID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Where("imdb_id = ?", imdbID).Delete(&model.WatchlistEntry{}).Error
}

// Exists 是否已在片单中
func (r *WatchlistRepository) Exists(imdbID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return exists(r.db, imdbID)
}

func exists(db *gorm.DB, imdbID string) (bool, error) {
	var count int64
	err := db.Model(&model.WatchlistEntry{}).Where("imdb_id = ?", imdbID).Count(&count).Error
	return count > 0, err
}

// Find 按 IMDb ID 查找，不存在返回 nil
func (r *WatchlistRepository) Find(imdbID string) (*model.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var e model.WatchlistEntry
	err := r.db.Where("imdb_id = ?", imdbID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SetStatus 只修改状态字段，条目不存在时返回 false
func (r *WatchlistRepository) SetStatus(imdbID string, status model.WatchStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.db.Model(&model.WatchlistEntry{}).
		Where("imdb_id = ?", imdbID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Toggle 存在则删除，否则以想看状态添加；在同一事务内完成
func (r *WatchlistRepository) Toggle(e *model.WatchlistEntry) (added bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.db.Transaction(func(tx *gorm.DB) error {
		present, err := exists(tx, e.IMDbID)
		if err != nil {
			return err
		}
		if present {
			return tx.Where("imdb_id = ?", e.IMDbID).Delete(&model.WatchlistEntry{}).Error
		}
		e.Status = model.StatusPlanned
		added = true
		return upsert(tx, e)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// ListAll 读取整张表，可按状态过滤并排序
func (r *WatchlistRepository) ListAll(f model.WatchlistFilter) ([]*model.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := r.db.Model(&model.WatchlistEntry{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	switch f.Sort {
	case model.SortTitle:
		q = q.Order("title ASC")
	case model.SortYear:
		q = q.Order("year DESC").Order("title ASC")
	default:
		q = q.Order("created_at ASC").Order("imdb_id ASC")
	}

	records := []*model.WatchlistEntry{}
	err := q.Find(&records).Error
	return records, err
}

// Count 条目数量
func (r *WatchlistRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	err := r.db.Model(&model.WatchlistEntry{}).Count(&count).Error
	return int(count), err
}
