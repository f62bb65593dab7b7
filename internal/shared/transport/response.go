package transport

// Response 是 HTTP 与 WS 共用的响应信封。
type Response struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg,omitempty"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: OK, Data: data}
}

func Fail(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

func Reject(reason, msg string) Response {
	return Response{Code: Rejected, Reason: reason, Msg: msg}
}
