package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"TownBuilder/internal/shared/transport"
	"TownBuilder/modules/kit/logx"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 写访问日志，业务码优先取响应体里的 code 与 reason。
// websocket 升级请求不包装 writer，避免破坏 Hijack。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		if isUpgrade(c.Request) {
			c.Next()
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()

		code, reason, ok := parseBody(bw.body.Bytes())
		switch {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
			transport.SetErrorReason(ctx, reason)
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func isUpgrade(r *http.Request) bool {
	return r.Header.Get("Upgrade") != ""
}

func parseBody(body []byte) (int, string, bool) {
	if len(body) == 0 {
		return 0, "", false
	}
	var payload struct {
		Code   *int   `json:"code"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, "", false
	}
	return *payload.Code, payload.Reason, true
}
