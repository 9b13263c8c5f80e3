package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

type codeTextProvider interface{ CodeText() string }
type msgProvider interface{ Msg() string }
type dataProvider interface{ Data() map[string]any }
type stackProvider interface{ Stack() []uintptr }
type reasonProvider interface{ Reason() string }

// ErrorLog 从 error 链上提取的可读字段。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	if cp, ok := asProvider[codeTextProvider](err); ok {
		out.Code = cp.CodeText()
	}
	if mp, ok := asProvider[msgProvider](err); ok {
		out.Msg = mp.Msg()
	}
	if dp, ok := asProvider[dataProvider](err); ok {
		out.Data = dp.Data()
	}
	if rp, ok := asProvider[reasonProvider](err); ok {
		out.Reason = rp.Reason()
	}
	// 栈取链上第一个带栈的节点，外层包装通常不带栈。
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if sp, ok := cur.(stackProvider); ok && len(sp.Stack()) != 0 {
			out.Origin, out.Stack = formatStack(sp.Stack(), 24)
			break
		}
	}
	out.CauseChain = causeChain(err, 16)
	return out
}

func asProvider[T any](err error) (T, bool) {
	var p T
	ok := errors.As(err, &p)
	return p, ok
}

func causeChain(err error, maxDepth int) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		line := fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
		if origin == "" {
			origin = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
