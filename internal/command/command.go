package command

import "Settlers/internal/game/domain"

// Command 一条玩家指令。每个种类一个结构体，载荷字段就是该种类的原生字段；
// 接口通过未导出方法封闭，包外无法新增种类。
type Command interface {
	Kind() Kind
	Player() domain.PlayerID
	command()
}

// Header 所有指令共有的发起者信息，编码时放在 Envelope 上而不是载荷里。
type Header struct {
	PlayerID domain.PlayerID `json:"-" yaml:"-"`
}

func (h Header) Player() domain.PlayerID { return h.PlayerID }

func (Header) command() {}

func (h *Header) setPlayer(p domain.PlayerID) { h.PlayerID = p }

// By 构造 Header 的快捷写法：command.Build{Header: command.By(1), ...}
func By(p domain.PlayerID) Header {
	return Header{PlayerID: p}
}

// Batch 一个仿真 tick 内需要按序执行的指令。
type Batch struct {
	Tick     uint64
	Commands []Command
}

type SetWorkArea struct {
	Header
	Building domain.Position `json:"building"`
	Center   domain.Position `json:"center"`
}

type CastSpell struct {
	Header
	Selection domain.Selection `json:"selection"`
	Spell     domain.SpellType `json:"spell"`
	At        domain.Position  `json:"at"`
}

type Build struct {
	Header
	Type domain.BuildingType `json:"type"`
	At   domain.Position     `json:"at"`
}

type MoveTo struct {
	Header
	Selection domain.Selection  `json:"selection"`
	At        domain.Position   `json:"at"`
	Mode      domain.MoveToType `json:"mode"`
}

type QuickSave struct {
	Header
}

type DestroyBuilding struct {
	Header
	Building domain.Position `json:"building"`
}

type DestroyMovables struct {
	Header
	Selection domain.Selection `json:"selection"`
}

type StartWorking struct {
	Header
	Selection domain.Selection `json:"selection"`
}

type StopWorking struct {
	Header
	Selection domain.Selection `json:"selection"`
}

type Convert struct {
	Header
	Selection domain.Selection   `json:"selection"`
	Target    domain.MovableType `json:"target"`
}

type SetBuildingPriority struct {
	Header
	Building domain.Position `json:"building"`
	Priority domain.Priority `json:"priority"`
}

// SetMaterialDistributionSettings 设置 Manager 所在分区内材料向某类建筑分配的比例。
type SetMaterialDistributionSettings struct {
	Header
	Manager  domain.Position     `json:"manager"`
	Material domain.MaterialType `json:"material"`
	Building domain.BuildingType `json:"building_type"`
	Ratio    float32             `json:"ratio"`
}

type SetMaterialPriorities struct {
	Header
	Manager    domain.Position       `json:"manager"`
	Priorities []domain.MaterialType `json:"priorities"`
}

type UpgradeSoldiers struct {
	Header
	Soldier domain.SoldierType `json:"soldier"`
}

type ChangeTrading struct {
	Header
	Building domain.Position     `json:"building"`
	Material domain.MaterialType `json:"material"`
	Amount   int                 `json:"amount"`
	Relative bool                `json:"relative"`
}

type SetTradingWaypoint struct {
	Header
	Building domain.Position     `json:"building"`
	Waypoint domain.WaypointType `json:"waypoint"`
	At       domain.Position     `json:"at"`
}

type SetMaterialProduction struct {
	Header
	At       domain.Position     `json:"at"`
	Material domain.MaterialType `json:"material"`
	Mode     ProductionMode      `json:"mode"`
	Ratio    float32             `json:"ratio"`
}

type ChangeTowerSoldiers struct {
	Header
	Building domain.Position    `json:"building"`
	Mode     GarrisonMode       `json:"mode"`
	Soldier  domain.SoldierType `json:"soldier"`
}

// SetAcceptedStockMaterial Local 为 true 时只修改该仓库，否则修改整个分区的默认设置。
type SetAcceptedStockMaterial struct {
	Header
	At       domain.Position     `json:"at"`
	Material domain.MaterialType `json:"material"`
	Accepted bool                `json:"accepted"`
	Local    bool                `json:"local"`
}

type SetDock struct {
	Header
	Building domain.Position `json:"building"`
	Dock     domain.Position `json:"dock"`
}

type OrderShip struct {
	Header
	Building domain.Position `json:"building"`
	Ship     domain.ShipType `json:"ship"`
}

type UnloadFerry struct {
	Header
	Selection domain.Selection `json:"selection"`
}

type ChangeMovableSettings struct {
	Header
	At       domain.Position    `json:"at"`
	Movable  domain.MovableType `json:"movable"`
	Relative bool               `json:"relative"`
	Amount   int                `json:"amount"`
}

type SetMovableLimitType struct {
	Header
	At       domain.Position    `json:"at"`
	Movable  domain.MovableType `json:"movable"`
	Relative bool               `json:"relative"`
}

type ClearConstructionMarks struct {
	Header
}

type Abort struct {
	Header
}

func (SetWorkArea) Kind() Kind                     { return KindSetWorkArea }
func (CastSpell) Kind() Kind                       { return KindCastSpell }
func (Build) Kind() Kind                           { return KindBuild }
func (MoveTo) Kind() Kind                          { return KindMoveTo }
func (QuickSave) Kind() Kind                       { return KindQuickSave }
func (DestroyBuilding) Kind() Kind                 { return KindDestroyBuilding }
func (DestroyMovables) Kind() Kind                 { return KindDestroyMovables }
func (StartWorking) Kind() Kind                    { return KindStartWorking }
func (StopWorking) Kind() Kind                     { return KindStopWorking }
func (Convert) Kind() Kind                         { return KindConvert }
func (SetBuildingPriority) Kind() Kind             { return KindSetBuildingPriority }
func (SetMaterialDistributionSettings) Kind() Kind { return KindSetMaterialDistributionSettings }
func (SetMaterialPriorities) Kind() Kind           { return KindSetMaterialPriorities }
func (UpgradeSoldiers) Kind() Kind                 { return KindUpgradeSoldiers }
func (ChangeTrading) Kind() Kind                   { return KindChangeTrading }
func (SetTradingWaypoint) Kind() Kind              { return KindSetTradingWaypoint }
func (SetMaterialProduction) Kind() Kind           { return KindSetMaterialProduction }
func (ChangeTowerSoldiers) Kind() Kind             { return KindChangeTowerSoldiers }
func (SetAcceptedStockMaterial) Kind() Kind        { return KindSetAcceptedStockMaterial }
func (SetDock) Kind() Kind                         { return KindSetDock }
func (OrderShip) Kind() Kind                       { return KindOrderShip }
func (UnloadFerry) Kind() Kind                     { return KindUnloadFerry }
func (ChangeMovableSettings) Kind() Kind           { return KindChangeMovableSettings }
func (SetMovableLimitType) Kind() Kind             { return KindSetMovableLimitType }
func (ClearConstructionMarks) Kind() Kind          { return KindClearConstructionMarks }
func (Abort) Kind() Kind                           { return KindAbort }
