package entity

import (
	"fmt"
	"slices"

	"Settlers/internal/game/domain"
)

// MovableRegistry 单位登记表，按 id 查找。由 World 持有，不是全局变量。
type MovableRegistry struct {
	units   map[domain.UnitID]Movable
	nextID  domain.UnitID
	onDirty func()
}

func NewMovableRegistry() *MovableRegistry {
	return &MovableRegistry{units: make(map[domain.UnitID]Movable), nextID: 1}
}

// Spawn 用下一个可用 id 创建单位。
func (r *MovableRegistry) Spawn(typ domain.MovableType, player domain.PlayerID, pos domain.Position) Movable {
	m, _ := r.Insert(r.nextID, typ, player, pos)
	return m
}

// Insert 用指定 id 创建单位，场景加载时使用。
func (r *MovableRegistry) Insert(id domain.UnitID, typ domain.MovableType, player domain.PlayerID, pos domain.Position) (Movable, error) {
	if id <= 0 {
		return nil, fmt.Errorf("unit id must be positive, got %d", id)
	}
	if _, ok := r.units[id]; ok {
		return nil, fmt.Errorf("unit id %d already exists", id)
	}
	s := &unitState{id: id, typ: typ, player: player, pos: pos, alive: true, reg: r}
	m := newVariant(s)
	r.units[id] = m
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.touch()
	return m, nil
}

// Get 不存在或已死亡的单位返回 false：单位在指令发出后死掉是正常情况。
func (r *MovableRegistry) Get(id domain.UnitID) (Movable, bool) {
	m, ok := r.units[id]
	if !ok || !m.Alive() {
		return nil, false
	}
	return m, true
}

// Resolve 去重并过滤掉无法解析的 id，保持原有顺序。
func (r *MovableRegistry) Resolve(sel domain.Selection) []Movable {
	ids := sel.Dedup()
	out := make([]Movable, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.Get(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// All 按 id 升序返回全部单位（含已死亡）。
func (r *MovableRegistry) All() []Movable {
	ids := make([]domain.UnitID, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Movable, len(ids))
	for i, id := range ids {
		out[i] = r.units[id]
	}
	return out
}

func (r *MovableRegistry) Len() int {
	return len(r.units)
}

// convert 原地替换单位变体，id 不变。
func (r *MovableRegistry) convert(s *unitState, target domain.MovableType) {
	s.typ = target
	s.cast = nil
	s.working = false
	r.units[s.id] = newVariant(s)
	r.touch()
}

func (r *MovableRegistry) touch() {
	if r != nil && r.onDirty != nil {
		r.onDirty()
	}
}
