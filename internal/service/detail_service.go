package service

import (
	"context"
	"time"

	"github.com/user/movielist/internal/model"
	"github.com/user/movielist/internal/utils"
	"golang.org/x/sync/singleflight"
)

// 合并后的请求不跟随任何单个调用方取消，用该上限兜底
const detailFetchTimeout = 30 * time.Second

// DetailService 影片详情查询
// 只缓存详情，不缓存搜索结果
type DetailService struct {
	api   MovieAPI
	cache *utils.TTLCache[*model.MovieDetail]
	group singleflight.Group
}

func NewDetailService(api MovieAPI, cacheSize int, ttl time.Duration) *DetailService {
	return &DetailService{
		api:   api,
		cache: utils.NewTTLCache[*model.MovieDetail](cacheSize, ttl),
	}
}

// Get 获取详情，同一 ID 的并发请求合并为一次
// 调用方取消只影响自己，其余等待者继续拿到结果
func (s *DetailService) Get(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	if d, ok := s.cache.Get(imdbID); ok {
		return d, nil
	}

	ch := s.group.DoChan(imdbID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detailFetchTimeout)
		defer cancel()

		d, err := s.api.Detail(fetchCtx, imdbID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(imdbID, d)
		return d, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.MovieDetail), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
