package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"Settlers/internal/shared/transport"
	"Settlers/modules/kit/logx"
)

// maxCapture 业务码在响应体开头，超长响应（批量指令结果）截断后按 HTTP 状态判定。
const maxCapture = 64 << 10

// 探活请求不写访问日志
var quietRoutes = map[string]struct{}{
	"/healthz": {},
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body      bytes.Buffer
	truncated bool
}

func (w *bodyCaptureWriter) capture(data []byte) {
	if w.truncated {
		return
	}
	if w.body.Len()+len(data) > maxCapture {
		w.truncated = true
		return
	}
	_, _ = w.body.Write(data)
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个管理请求一条日志。业务码取自响应体 {"code":...}，取不到时按 HTTP 状态。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if _, quiet := quietRoutes[route]; quiet {
			c.Next()
			return
		}

		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		status := bw.Status()
		code, ok := 0, false
		if !bw.truncated && strings.HasPrefix(bw.Header().Get("Content-Type"), "application/json") {
			code, ok = parseBizCode(bw.body.Bytes())
		}
		switch {
		case ok:
		case status >= http.StatusInternalServerError:
			code = transport.SystemError
		case status >= http.StatusBadRequest:
			code = transport.InvalidParam
		default:
			code = transport.OK
		}

		if al := transport.FromContext(ctx); al != nil {
			al.Status = status
		}
		transport.SetBizCode(ctx, transport.BizCode(code))
		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
