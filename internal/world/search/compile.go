package search

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"Settlers/internal/game/domain"
)

// CellEnv 配置表达式里可用的字段，例如 `ResourceAmount >= 4 && !Blocked`。
type CellEnv struct {
	X              int
	Y              int
	Blocked        bool
	Navigable      bool
	Partition      int
	Resource       string
	ResourceAmount int
}

// Filter 编译好的表达式，可以绑定到不同的 View 上。
type Filter struct {
	src     string
	program *vm.Program
}

// CompileFilter 编译布尔表达式；语法或类型错误在这里返回。
func CompileFilter(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.Env(CellEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, program: prog}, nil
}

func (f *Filter) String() string { return f.src }

// Bind 得到针对 v 的谓词。求值出错（理论上不会发生）按 false 处理。
func (f *Filter) Bind(v View) Predicate {
	if f == nil {
		return Any
	}
	return func(p domain.Position) bool {
		if !p.InBounds(v.Width(), v.Height()) {
			return false
		}
		rt, amount := v.ResourceAt(p)
		env := CellEnv{
			X:              int(p.X),
			Y:              int(p.Y),
			Blocked:        v.IsBlocked(p),
			Navigable:      v.IsNavigable(p),
			Partition:      int(v.BlockedPartition(p)),
			Resource:       rt.String(),
			ResourceAmount: int(amount),
		}
		out, err := expr.Run(f.program, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}

// Compile 编译并绑定，一步得到谓词。
func Compile(src string, v View) (Predicate, error) {
	f, err := CompileFilter(src)
	if err != nil {
		return nil, err
	}
	return f.Bind(v), nil
}
