package errx

// 跨服务统一的系统类错误码。
// 业务域错误码（例如 TOWN_PLACE_REJECTED）由各业务包自己定义。
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeTimeout       Code = "TIMEOUT"
	CodeReqParamError Code = "REQ_PARAM_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
)

var (
	ErrInternal     = NewSys(CodeInternal, "internal error")
	ErrUnavailable  = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout      = NewSys(CodeTimeout, "request timeout")
	ErrReqParam     = NewBiz(CodeReqParamError, "invalid request parameter")
	ErrUnauthorized = NewBiz(CodeUnauthorized, "unauthorized")
)
