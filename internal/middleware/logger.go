package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件，带上客户端会话 ID 便于串联同一用户的搜索
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		sid := GetSessionID(c)
		if len(sid) > 8 {
			sid = sid[:8]
		}
		if sid == "" {
			sid = "-"
		}

		line := "[%s] %s %s sid=%s %d %v"
		args := []interface{}{c.Request.Method, path, c.ClientIP(), sid, c.Writer.Status(), time.Since(start)}
		if len(c.Errors) > 0 {
			line += " %s"
			args = append(args, c.Errors.String())
		}
		log.Printf(line, args...)
	}
}
