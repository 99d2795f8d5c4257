package xerr

import "fmt"

// CodeError 自定义错误结构，Code 同时作为 HTTP 状态码
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New 创建新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

// 常用通用错误码
const (
	OK                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// 常用预定义错误
var (
	ErrServerError  = New(InternalServerError, "服务器内部错误")
	ErrParam        = New(BadRequest, "参数错误")
	ErrInvalidText  = New(BadRequest, "输入文本无效：不能为空且不超过1000字符")
	ErrNotFound     = New(NotFound, "资源不存在")
	ErrUnauthorized = New(Unauthorized, "未授权")
)
