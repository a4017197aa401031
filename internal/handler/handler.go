package handler

import (
	"github.com/user/movielist/internal/config"
	"github.com/user/movielist/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Config    *config.Config
	Sessions  *service.SessionRegistry
	Details   *service.DetailService
	Watchlist *service.WatchlistService
}

// NewHandler 创建处理器
func NewHandler(
	cfg *config.Config,
	sessions *service.SessionRegistry,
	details *service.DetailService,
	watchlist *service.WatchlistService,
) *Handler {
	return &Handler{
		Config:    cfg,
		Sessions:  sessions,
		Details:   details,
		Watchlist: watchlist,
	}
}
