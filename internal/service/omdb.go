package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/movielist/internal/config"
	"github.com/user/movielist/internal/model"
	"github.com/user/movielist/internal/utils"
)

var (
	// ErrNoResults 搜索无匹配（Response 为 "False"）
	ErrNoResults = errors.New("no movies found")
	// ErrNotFound 详情不存在
	ErrNotFound = errors.New("movie not found")
)

// MovieAPI 远程影片数据库
type MovieAPI interface {
	Search(ctx context.Context, query, mediaType string) (*model.SearchResponse, error)
	Detail(ctx context.Context, imdbID string) (*model.MovieDetail, error)
}

// OMDbClient OMDb 接口客户端
type OMDbClient struct {
	http      *utils.HTTPClient
	baseURL   string
	apiKey    string
	mediaType string
}

func NewOMDbClient(cfg *config.Config) *OMDbClient {
	mediaType := cfg.MediaType
	if mediaType == "" {
		mediaType = "movie"
	}
	return &OMDbClient{
		http:      utils.NewHTTPClient(cfg.OMDbTimeout),
		baseURL:   strings.TrimRight(cfg.OMDbBaseURL, "/"),
		apiKey:    cfg.OMDbAPIKey,
		mediaType: mediaType,
	}
}

// Search 按标题搜索，mediaType 为空时使用配置的默认类型
func (c *OMDbClient) Search(ctx context.Context, query, mediaType string) (*model.SearchResponse, error) {
	if mediaType == "" {
		mediaType = c.mediaType
	}
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("s", query)
	params.Set("type", mediaType)

	var resp model.SearchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if !resp.Found() || len(resp.Search) == 0 {
		return &resp, ErrNoResults
	}
	return &resp, nil
}

// Detail 按 IMDb ID 获取完整信息
func (c *OMDbClient) Detail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var detail model.MovieDetail
	if err := c.http.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), &detail); err != nil {
		return nil, err
	}
	if !detail.Found() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, imdbID, detail.Error)
	}
	return &detail, nil
}
