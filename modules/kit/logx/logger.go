package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 指令执行链路使用的最小日志接口：结构化字段 + ctx 透传（trace/session/tick）。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	// DPanic 开发模式 panic，生产模式按 error 输出；用于“不应该发生”的程序错误。
	DPanic(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}
