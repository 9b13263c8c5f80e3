package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Settlers/modules/kit/logx"
	"Settlers/modules/kit/tracex"
)

// AccessLog 管理接口一次请求的日志上下文，由中间件创建，鉴权和 handler 往里补字段。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	Operator    string
	Status      int

	startTime time.Time
	action    string
}

type accessLogKey struct{}

// NewContextWithParent 挂上 AccessLog 并确保有 trace id，保留父 context 的取消信号。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx, _ = tracex.EnsureTraceID(ctx)

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 失败原因只记日志，不回给调用方。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetOperator 记录通过鉴权的操作者。
func SetOperator(ctx context.Context, operator string) {
	if al := FromContext(ctx); al != nil {
		al.Operator = operator
	}
}

// WriteAccessLog 按业务码分级输出，见 logx.ReportAccess。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
		zap.Int("status", al.Status),
	}
	if al.Operator != "" {
		fields = append(fields, zap.String("operator", al.Operator))
	}
	if al.BizCode != BizCode(OK) && al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
