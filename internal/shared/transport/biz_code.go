package transport

import (
	"errors"

	"TownBuilder/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端可见业务码：0 成功，4xx 参数/拒绝，5xx 系统。
const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	NotFound     = 404
	Rejected     = 409
	SystemError  = 500
	Timeout      = 504
)

// CodeFromError 把 errx 错误码映射成客户端业务码。
func CodeFromError(err error) int {
	if err == nil {
		return OK
	}
	e, ok := errx.As(err)
	if !ok {
		return SystemError
	}
	switch {
	case errors.Is(e, errx.ErrReqParam):
		return InvalidParam
	case errors.Is(e, errx.ErrUnauthorized):
		return Unauthorized
	case errors.Is(e, errx.ErrTimeout):
		return Timeout
	case !e.IsSys():
		return Rejected
	default:
		return SystemError
	}
}
