package entity

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"Settlers/internal/game/domain"
)

// hasher 按固定字节序把状态写进 xxhash。
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *hasher) u8(v uint8) { h.buf[0] = v; _, _ = h.d.Write(h.buf[:1]) }

func (h *hasher) u16(v uint16) {
	binary.LittleEndian.PutUint16(h.buf[:2], v)
	_, _ = h.d.Write(h.buf[:2])
}

func (h *hasher) u32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[:4], v)
	_, _ = h.d.Write(h.buf[:4])
}

func (h *hasher) boolean(v bool) {
	if v {
		h.u8(1)
	} else {
		h.u8(0)
	}
}

func (h *hasher) pos(p domain.Position) {
	h.u16(uint16(p.X))
	h.u16(uint16(p.Y))
}

func (h *hasher) optPos(p *domain.Position) {
	h.boolean(p != nil)
	if p != nil {
		h.pos(*p)
	}
}

func (h *hasher) f32(v float32) { h.u32(math.Float32bits(v)) }

// Digest 对全部可变状态计算确定性的校验和。所有集合都按 id/位置排序后写入，
// 同样的指令序列作用在同样的初始状态上，各副本得到同样的值。
func (w *World) Digest() uint64 {
	h := &hasher{d: xxhash.New()}

	h.u16(uint16(w.Width()))
	h.u16(uint16(w.Height()))
	for _, c := range w.grid.cells {
		h.boolean(c.Blocked)
		h.boolean(c.Water)
		h.u16(uint16(c.Partition))
		h.u8(uint8(c.Resource))
		h.u8(c.Amount)
		h.u8(uint8(c.Owner))
	}

	for _, p := range w.Players() {
		h.u8(uint8(p.ID))
		h.u8(uint8(p.Civ))
		h.boolean(p.Lost)
		h.optPos(p.Home)
		h.u32(uint32(p.Manna.amount))
		for _, lvl := range p.Manna.levels {
			h.u8(lvl)
		}
		if s, ok := w.settings[p.ID]; ok {
			s.digest(h)
		}
	}

	for _, m := range w.units.All() {
		s := m.state()
		h.u32(uint32(s.id))
		h.u8(uint8(s.typ))
		h.u8(uint8(s.player))
		h.pos(s.pos)
		h.boolean(s.alive)
		h.boolean(s.working)
		h.optPos(s.target)
		h.u8(uint8(s.mode))
		h.boolean(s.cast != nil)
		if s.cast != nil {
			h.pos(s.cast.At)
			h.u8(uint8(s.cast.Spell))
		}
		h.u32(uint32(s.boarding))
		if f, ok := m.(Ferry); ok {
			for _, id := range f.Passengers() {
				h.u32(uint32(id))
			}
		}
	}

	for _, b := range w.Buildings() {
		s := b.state()
		h.pos(s.pos)
		h.u8(uint8(s.typ))
		h.u8(uint8(s.player))
		h.boolean(s.alive)
		h.u8(uint8(s.priority))
		h.optPos(s.workCenter)
		h.u16(uint16(len(s.soldiers)))
		for _, k := range s.soldiers {
			h.u8(uint8(k))
		}
		h.u16(uint16(len(s.requested)))
		for _, k := range s.requested {
			h.u8(uint8(k))
		}
		for _, m := range sortedKeys(s.accepted) {
			h.u8(uint8(m))
			h.boolean(s.accepted[m])
		}
		for _, m := range sortedKeys(s.trade) {
			h.u8(uint8(m))
			h.u32(uint32(s.trade[m]))
		}
		for _, wp := range s.waypoints {
			h.optPos(wp)
		}
		h.optPos(s.dock)
		for _, t := range s.ships {
			h.u8(uint8(t))
		}
	}
	return h.d.Sum64()
}

func (s *PartitionSettings) digest(h *hasher) {
	for _, m := range sortedKeys(s.distribution) {
		byBuilding := s.distribution[m]
		for _, b := range sortedKeys(byBuilding) {
			h.u8(uint8(m))
			h.u8(uint8(b))
			h.f32(byBuilding[b])
		}
	}
	h.u16(uint16(len(s.priorities)))
	for _, m := range s.priorities {
		h.u8(uint8(m))
	}
	for _, m := range sortedKeys(s.absolute) {
		h.u8(uint8(m))
		h.u32(uint32(s.absolute[m]))
	}
	for _, m := range sortedKeys(s.relative) {
		h.u8(uint8(m))
		h.f32(s.relative[m])
	}
	for _, m := range sortedKeys(s.accepted) {
		h.u8(uint8(m))
		h.boolean(s.accepted[m])
	}
	for _, t := range sortedKeys(s.movableAmount) {
		h.u8(uint8(t))
		h.u32(uint32(s.movableAmount[t]))
	}
	for _, t := range sortedKeys(s.movableRelative) {
		h.u8(uint8(t))
		h.boolean(s.movableRelative[t])
	}
}
