package messages

import (
	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

// ApplyTick 一个 tick 的全部指令，已经在各副本间全序。
type ApplyTick struct {
	SessionBaseMessage
	Tick     uint64
	Commands []command.Envelope
}

type TickApplied struct {
	Tick    uint64
	Digest  uint64
	Applied int
	Skipped int
}

type QueryDigest struct {
	SessionBaseMessage
}

type DigestReply struct {
	Tick       uint64
	Digest     uint64
	ControlAll bool
	Lost       []int
}

type SetControlAll struct {
	SessionBaseMessage
	On bool
}

type ControlAllSet struct {
	On bool
}

type MarkLost struct {
	SessionBaseMessage
	Player int
}

type LostMarked struct {
	Player  int
	Changed bool
}

// FindMineTarget 为玩家的下一座矿选扩张目标，只读。
type FindMineTarget struct {
	SessionBaseMessage
	Player   int
	Building domain.BuildingType
}

type MineTarget struct {
	Player int
	Found  bool
	At     domain.Position
}
