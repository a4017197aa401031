package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/user/movielist/internal/middleware"
	"github.com/user/movielist/internal/service"
	"github.com/user/movielist/internal/utils"
)

// SearchReq 搜索参数
type SearchReq struct {
	Query string `form:"q"`
	Type  string `form:"type" binding:"omitempty,mediatype"`
}

// Search 搜索影片，返回当前会话的搜索状态
// 无结果、网络错误等均以 error 字段返回，HTTP 状态码为 200
func (h *Handler) Search(c *gin.Context) {
	var req SearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, "type 只能是 movie、series 或 episode")
		return
	}

	session := h.Sessions.Get(middleware.GetSessionID(c))
	state := session.SearchType(c.Request.Context(), req.Query, req.Type)
	utils.Success(c, state)
}

// SearchState 查询当前会话的搜索状态
func (h *Handler) SearchState(c *gin.Context) {
	session := h.Sessions.Get(middleware.GetSessionID(c))
	utils.Success(c, session.State())
}

// MovieDetail 影片详情
func (h *Handler) MovieDetail(c *gin.Context) {
	imdbID := c.Param("id")

	detail, err := h.Details.Get(c.Request.Context(), imdbID)
	if err != nil {
		var (
			httpErr      *utils.HTTPError
			transportErr *utils.TransportError
		)
		switch {
		case errors.Is(err, service.ErrNotFound):
			utils.NotFound(c, "影片不存在")
		case errors.As(err, &httpErr), errors.As(err, &transportErr):
			utils.BadGateway(c, service.SearchErrorMessage(err))
		default:
			log.Printf("[MovieDetail] 获取详情失败 (%s): %v", imdbID, err)
			utils.InternalServerError(c, service.SearchErrorMessage(err))
		}
		return
	}

	present, err := h.Watchlist.IsPresent(imdbID)
	if err != nil {
		log.Printf("[MovieDetail] 查询片单失败 (%s): %v", imdbID, err)
	}
	utils.Success(c, gin.H{
		"movie":        detail,
		"in_watchlist": present,
	})
}
