package middleware

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionKey       = "sid"
	sessionIDContext = "session_id"
)

// ClientSession 为每个客户端分配稳定的会话 ID（保存在 Cookie Session 中）
// 依赖 sessions.Sessions 中间件
func ClientSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		sid, _ := session.Get(sessionKey).(string)
		if sid == "" {
			sid = uuid.NewString()
			session.Set(sessionKey, sid)
			if err := session.Save(); err != nil {
				log.Printf("[ClientSession] 保存会话失败: %v", err)
			}
		}
		c.Set(sessionIDContext, sid)
		c.Next()
	}
}

// GetSessionID 从上下文获取客户端会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDContext)
}
