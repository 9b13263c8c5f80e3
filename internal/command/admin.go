package command

import "Settlers/internal/game/domain"

// AdminKind 管理操作种类。管理操作不属于任何玩家，不经过出局检查。
type AdminKind uint8

const (
	AdminMarkLost AdminKind = iota + 1
	AdminControlAll
)

var adminNames = []string{"", "mark_lost", "control_all"}

func (k AdminKind) String() string { return nameOf(adminNames, k) }

func (k AdminKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *AdminKind) UnmarshalText(b []byte) error {
	return parseName(adminNames, "admin kind", b, k)
}

// AdminAction 改变后续指令执行结果的管理操作，和指令一样写进日志，重放时按原位置执行。
type AdminAction struct {
	Kind   AdminKind       `json:"kind"`
	Player domain.PlayerID `json:"player,omitempty"`
	On     bool            `json:"on,omitempty"`
}

func MarkLost(player domain.PlayerID) AdminAction {
	return AdminAction{Kind: AdminMarkLost, Player: player}
}

func ControlAll(on bool) AdminAction {
	return AdminAction{Kind: AdminControlAll, On: on}
}
