package back

import (
	"net/http"

	"MindLink/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Result 统一返回入口：err 为 nil 时直接返回 data
func Result(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	// 判断是否为自定义错误
	if e, ok := err.(*xerr.CodeError); ok {
		Error(c, e.Code, e.Message)
		return
	}

	// 默认为系统错误
	Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
}

// Success 成功返回，响应体即业务数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误返回，code 写入 HTTP 状态码
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{
		Code:    code,
		Message: message,
	})
}
