package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一API响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

func newResponse(code int, message string, data interface{}) Response {
	if message == "" {
		message = http.StatusText(code)
	}
	return Response{
		Code:    code,
		Message: message,
		Data:    data,
		Success: code >= 200 && code < 300,
	}
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, newResponse(http.StatusOK, "success", data))
}

// Error 返回错误响应，message 为空时使用状态码描述
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, newResponse(code, message, nil))
}

// Abort 返回错误响应并中止后续中间件
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, newResponse(code, message, nil))
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// BadGateway 上游 OMDb 不可用
func BadGateway(c *gin.Context, message string) {
	Error(c, http.StatusBadGateway, message)
}
