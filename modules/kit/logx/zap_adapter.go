package logx

import (
	"context"

	"Settlers/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 是 zap 的适配器。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

// Nop 丢弃所有输出，测试和未注入 logger 的组件使用。
func Nop() Logger {
	return NewZapLogger(nil)
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	fields := make([]zap.Field, 0, 3)
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SessionFrom(ctx); ok {
		fields = append(fields, zap.String("session_id", sid))
	}
	if tick, ok := tracex.TickFrom(ctx); ok {
		fields = append(fields, zap.Uint64("tick", tick))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.logger.With(fields...)}
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field)  { z.logger.Debug(msg, fields...) }
func (z *ZapLogger) Info(msg string, fields ...zap.Field)   { z.logger.Info(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)   { z.logger.Warn(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field)  { z.logger.Error(msg, fields...) }
func (z *ZapLogger) DPanic(msg string, fields ...zap.Field) { z.logger.DPanic(msg, fields...) }
