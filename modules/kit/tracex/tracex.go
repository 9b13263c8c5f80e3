package tracex

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// 一次 tick 的执行以 trace 串起来；session/tick 作为对局坐标随 ctx 透传给日志。

type traceIDKey struct{}
type sessionKey struct{}
type tickKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(sessionKey{}).(string)
	return s, ok && s != ""
}

func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, tickKey{}, tick)
}

func TickFrom(ctx context.Context) (uint64, bool) {
	t, ok := ctx.Value(tickKey{}).(uint64)
	return t, ok
}

// NewTraceID 32 位 hex，不带连字符。
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// EnsureTraceID ctx 中没有 trace_id 时补一个。
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if tid, ok := TraceIDFrom(ctx); ok {
		return ctx, tid
	}
	tid := NewTraceID()
	return WithTraceID(ctx, tid), tid
}
