package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movielist/internal/handler"
	"github.com/user/movielist/internal/middleware"
)

// RegisterRoutes 注册所有路由
// 依赖上层已挂载 sessions.Sessions 中间件
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"sessions":    h.Sessions.Len(),
			"subscribers": h.Watchlist.Subscribers(),
		})
	})

	api := r.Group("/api")
	api.Use(middleware.ClientSession())
	{
		// ==================== 搜索 ====================
		api.GET("/search", h.Search)
		api.GET("/search/state", h.SearchState)
		api.GET("/movies/:id", h.MovieDetail)

		// ==================== 片单 ====================
		api.GET("/watchlist", h.ListWatchlist)
		api.GET("/watchlist/stream", h.WatchlistStream)
		api.GET("/watchlist/:id", h.GetWatchlistEntry)

		write := api.Group("/watchlist")
		write.Use(middleware.RequireWriteToken(h.Config.AppSecret, h.Config.WriteAuth))
		{
			write.POST("", h.AddWatchlist)
			write.POST("/:id/toggle", h.ToggleWatchlist)
			write.PUT("/:id/status", h.UpdateWatchlistStatus)
			write.DELETE("/:id", h.RemoveWatchlist)
		}
	}
}
