package handler

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movielist/internal/model"
	"github.com/user/movielist/internal/service"
	"github.com/user/movielist/internal/utils"
)

// AddWatchlistReq 添加片单请求
type AddWatchlistReq struct {
	IMDbID string `json:"imdb_id" binding:"required"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
	Status string `json:"status" binding:"omitempty,watchstatus"`
}

// ToggleWatchlistReq 切换片单请求（ID 来自路径）
type ToggleWatchlistReq struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

// UpdateStatusReq 修改观看状态请求
type UpdateStatusReq struct {
	Status string `json:"status" binding:"required,watchstatus"`
}

// ListWatchlist 片单列表，支持 status=all|planned|completed、sort=added|title|year
func (h *Handler) ListWatchlist(c *gin.Context) {
	var filter model.WatchlistFilter

	if s := c.Query("status"); s != "" && s != "all" {
		status, err := model.ParseWatchStatus(s)
		if err != nil {
			utils.BadRequest(c, "无效的状态筛选")
			return
		}
		filter.Status = status
	}

	switch sort := c.DefaultQuery("sort", model.SortAdded); sort {
	case model.SortAdded, model.SortTitle, model.SortYear:
		filter.Sort = sort
	default:
		utils.BadRequest(c, "无效的排序方式")
		return
	}

	entries, err := h.Watchlist.All(filter)
	if err != nil {
		log.Printf("[ListWatchlist] 读取片单失败: %v", err)
		utils.InternalServerError(c, "读取片单失败")
		return
	}
	utils.Success(c, entries)
}

// GetWatchlistEntry 查询某部影片是否在片单中及其状态
func (h *Handler) GetWatchlistEntry(c *gin.Context) {
	imdbID := c.Param("id")
	status, ok, err := h.Watchlist.Status(imdbID)
	if err != nil {
		log.Printf("[GetWatchlistEntry] 查询失败 (%s): %v", imdbID, err)
		utils.InternalServerError(c, "查询失败")
		return
	}
	utils.Success(c, gin.H{
		"imdb_id":      imdbID,
		"in_watchlist": ok,
		"status":       status,
	})
}

// AddWatchlist 添加或覆盖片单条目
func (h *Handler) AddWatchlist(c *gin.Context) {
	var req AddWatchlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "无效的请求数据")
		return
	}

	entry := &model.WatchlistEntry{
		IMDbID: strings.TrimSpace(req.IMDbID),
		Title:  req.Title,
		Year:   req.Year,
		Poster: req.Poster,
		Status: model.StatusPlanned,
	}
	if req.Status != "" {
		entry.Status, _ = model.ParseWatchStatus(req.Status)
	}

	if err := h.Watchlist.Add(entry); err != nil {
		h.writeStoreError(c, "AddWatchlist", err)
		return
	}
	utils.Success(c, entry)
}

// ToggleWatchlist 在片单中则移除，否则添加为想看
func (h *Handler) ToggleWatchlist(c *gin.Context) {
	var req ToggleWatchlistReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "无效的请求数据")
		return
	}

	entry := &model.WatchlistEntry{
		IMDbID: c.Param("id"),
		Title:  req.Title,
		Year:   req.Year,
		Poster: req.Poster,
	}
	added, err := h.Watchlist.Toggle(entry)
	if err != nil {
		h.writeStoreError(c, "ToggleWatchlist", err)
		return
	}
	utils.Success(c, gin.H{
		"imdb_id":      entry.IMDbID,
		"in_watchlist": added,
	})
}

// UpdateWatchlistStatus 修改观看状态，条目不存在返回 404
func (h *Handler) UpdateWatchlistStatus(c *gin.Context) {
	var req UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "状态只能是 planned 或 completed")
		return
	}
	status, _ := model.ParseWatchStatus(req.Status)
	imdbID := c.Param("id")

	updated, err := h.Watchlist.UpdateStatus(imdbID, status)
	if err != nil {
		h.writeStoreError(c, "UpdateWatchlistStatus", err)
		return
	}
	if !updated {
		utils.NotFound(c, "片单中没有该影片")
		return
	}
	utils.Success(c, gin.H{
		"imdb_id": imdbID,
		"status":  status,
	})
}

// RemoveWatchlist 移除片单条目，不存在时同样返回成功
func (h *Handler) RemoveWatchlist(c *gin.Context) {
	imdbID := c.Param("id")
	if err := h.Watchlist.Remove(imdbID); err != nil {
		h.writeStoreError(c, "RemoveWatchlist", err)
		return
	}
	utils.Success(c, gin.H{"imdb_id": imdbID})
}

// WatchlistStream 以 SSE 推送片单全量快照，每次修改后推送一次
func (h *Handler) WatchlistStream(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := h.Watchlist.Subscribe(ctx)
	if err != nil {
		log.Printf("[WatchlistStream] 订阅失败: %v", err)
		utils.InternalServerError(c, "订阅失败")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case entries, ok := <-feed:
			if !ok {
				return false
			}
			c.SSEvent("watchlist", entries)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *Handler) writeStoreError(c *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrInvalidEntry) {
		utils.BadRequest(c, err.Error())
		return
	}
	log.Printf("[%s] %v", op, err)
	utils.InternalServerError(c, "操作失败")
}
