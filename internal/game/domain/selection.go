package domain

// Selection 玩家选中的单位 id 序列，发送方不保证去重。
type Selection []UnitID

// Dedup 保留首次出现的顺序去重，返回新切片。
func (s Selection) Dedup() Selection {
	if len(s) == 0 {
		return nil
	}
	seen := make(map[UnitID]struct{}, len(s))
	out := make(Selection, 0, len(s))
	for _, id := range s {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s Selection) Empty() bool {
	return len(s) == 0
}
