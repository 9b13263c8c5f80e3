package entity

import "Settlers/internal/game/domain"

// MaxSoldierLevel 士兵升级的最高等级。
const MaxSoldierLevel = 2

// MannaInformation 玩家的法力值及各兵种升级等级。
type MannaInformation struct {
	amount int
	levels [3]uint8
}

// UpgradeCost 升到下一级需要的法力值。
func UpgradeCost(level uint8) int {
	return 10 * (int(level) + 1)
}

func (m *MannaInformation) Amount() int { return m.amount }

func (m *MannaInformation) Level(s domain.SoldierType) uint8 {
	if int(s) >= len(m.levels) {
		return 0
	}
	return m.levels[s]
}

func (m *MannaInformation) CanUpgrade(s domain.SoldierType) bool {
	if int(s) >= len(m.levels) {
		return false
	}
	lvl := m.levels[s]
	return lvl < MaxSoldierLevel && m.amount >= UpgradeCost(lvl)
}

// Upgrade 法力不足或已满级时返回 false。
func (m *MannaInformation) Upgrade(s domain.SoldierType) bool {
	if !m.CanUpgrade(s) {
		return false
	}
	m.amount -= UpgradeCost(m.levels[s])
	m.levels[s]++
	return true
}

type Player struct {
	ID    domain.PlayerID
	Civ   domain.Civilisation
	Lost  bool
	Home  *domain.Position
	Manna MannaInformation
}

func NewPlayer(id domain.PlayerID, civ domain.Civilisation, manna int) *Player {
	return &Player{ID: id, Civ: civ, Manna: MannaInformation{amount: manna}}
}
