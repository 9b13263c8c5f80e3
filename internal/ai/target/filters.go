package target

import (
	"fmt"

	"Settlers/internal/game/domain"
	"Settlers/internal/world/search"
)

// CompileFilters 编译配置里按资源名给出的表达式，资源名未知或表达式不合法都返回错误。
func CompileFilters(src map[string]string) (map[domain.ResourceType]*search.Filter, error) {
	out := make(map[domain.ResourceType]*search.Filter, len(src))
	for name, expr := range src {
		rt, ok := domain.ParseResourceType(name)
		if !ok || rt == domain.ResourceNone {
			return nil, fmt.Errorf("unknown resource %q in search filters", name)
		}
		f, err := search.CompileFilter(expr)
		if err != nil {
			return nil, err
		}
		out[rt] = f
	}
	return out, nil
}
