package entity

import "Settlers/internal/game/domain"

// WorldPersistSnapshot 快速存档的内容。只包含可变状态，地形由场景重建。
type WorldPersistSnapshot struct {
	SessionID string             `json:"session_id"`
	Version   uint64             `json:"version"`
	Tick      uint64             `json:"tick"`
	Digest    uint64             `json:"digest"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Players   []PlayerSnapshot   `json:"players"`
	Units     []UnitSnapshot     `json:"units"`
	Buildings []BuildingSnapshot `json:"buildings"`
}

type PlayerSnapshot struct {
	ID     domain.PlayerID     `json:"id"`
	Civ    domain.Civilisation `json:"civ"`
	Lost   bool                `json:"lost"`
	Manna  int                 `json:"manna"`
	Levels [3]uint8            `json:"levels"`
}

type UnitSnapshot struct {
	ID         domain.UnitID      `json:"id"`
	Type       domain.MovableType `json:"type"`
	Player     domain.PlayerID    `json:"player"`
	Pos        domain.Position    `json:"pos"`
	Alive      bool               `json:"alive"`
	Working    bool               `json:"working"`
	Target     *domain.Position   `json:"target,omitempty"`
	Boarding   domain.UnitID      `json:"boarding,omitempty"`
	Passengers []domain.UnitID    `json:"passengers,omitempty"`
}

type BuildingSnapshot struct {
	Pos       domain.Position      `json:"pos"`
	Type      domain.BuildingType  `json:"type"`
	Player    domain.PlayerID      `json:"player"`
	Alive     bool                 `json:"alive"`
	Priority  domain.Priority      `json:"priority"`
	Soldiers  []domain.SoldierType `json:"soldiers,omitempty"`
	Requested []domain.SoldierType `json:"requested,omitempty"`
	Dock      *domain.Position     `json:"dock,omitempty"`
	Ships     []domain.ShipType    `json:"ships,omitempty"`
}

// BuildPersistSnapshot 按 id/位置顺序导出当前状态。不清除脏标记，由调用方决定。
func (w *World) BuildPersistSnapshot(sessionID string, version, tick uint64) *WorldPersistSnapshot {
	s := &WorldPersistSnapshot{
		SessionID: sessionID,
		Version:   version,
		Tick:      tick,
		Digest:    w.Digest(),
		Width:     w.Width(),
		Height:    w.Height(),
	}
	for _, p := range w.Players() {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:     p.ID,
			Civ:    p.Civ,
			Lost:   p.Lost,
			Manna:  p.Manna.amount,
			Levels: p.Manna.levels,
		})
	}
	for _, m := range w.units.All() {
		st := m.state()
		u := UnitSnapshot{
			ID:       st.id,
			Type:     st.typ,
			Player:   st.player,
			Pos:      st.pos,
			Alive:    st.alive,
			Working:  st.working,
			Boarding: st.boarding,
		}
		if st.target != nil {
			t := *st.target
			u.Target = &t
		}
		if f, ok := m.(Ferry); ok {
			u.Passengers = f.Passengers()
		}
		s.Units = append(s.Units, u)
	}
	for _, b := range w.Buildings() {
		st := b.state()
		bs := BuildingSnapshot{
			Pos:       st.pos,
			Type:      st.typ,
			Player:    st.player,
			Alive:     st.alive,
			Priority:  st.priority,
			Soldiers:  append([]domain.SoldierType(nil), st.soldiers...),
			Requested: append([]domain.SoldierType(nil), st.requested...),
			Ships:     append([]domain.ShipType(nil), st.ships...),
		}
		if st.dock != nil {
			d := *st.dock
			bs.Dock = &d
		}
		s.Buildings = append(s.Buildings, bs)
	}
	return s
}
