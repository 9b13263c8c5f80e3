package domain

import "strings"

type BuildingType uint8

const (
	BuildingUnknown BuildingType = iota
	BuildingLumberjack
	BuildingSawmill
	BuildingStonecutter
	BuildingCoalMine
	BuildingIronMine
	BuildingGoldMine
	BuildingGemsMine
	BuildingSulfurMine
	BuildingTower
	BuildingBigTower
	BuildingCastle
	BuildingStock
	BuildingMarket
	BuildingHarbor
	BuildingDockyard
	BuildingTemple
	BuildingSmallLiving
)

var buildingNames = []string{
	"unknown", "lumberjack", "sawmill", "stonecutter", "coal_mine", "iron_mine", "gold_mine",
	"gems_mine", "sulfur_mine", "tower", "big_tower", "castle", "stock", "market", "harbor",
	"dockyard", "temple", "small_living",
}

func (t BuildingType) String() string { return enumName(buildingNames, t) }

func ParseBuildingType(s string) (BuildingType, bool) { return parseEnum[BuildingType](buildingNames, s) }

// MineResource 矿井对应的资源类型；非矿井返回 ResourceNone。
func (t BuildingType) MineResource() ResourceType {
	switch t {
	case BuildingCoalMine:
		return ResourceCoal
	case BuildingIronMine:
		return ResourceIron
	case BuildingGoldMine:
		return ResourceGold
	case BuildingGemsMine:
		return ResourceGems
	case BuildingSulfurMine:
		return ResourceSulfur
	default:
		return ResourceNone
	}
}

type MaterialType uint8

const (
	MaterialNone MaterialType = iota
	MaterialPlank
	MaterialStone
	MaterialTrunk
	MaterialCoal
	MaterialIronOre
	MaterialIron
	MaterialGoldOre
	MaterialGold
	MaterialGems
	MaterialSulfur
	MaterialBread
	MaterialFish
	MaterialMeat
	MaterialWine
	MaterialSword
	MaterialBow
	MaterialSpear
)

var materialNames = []string{
	"none", "plank", "stone", "trunk", "coal", "iron_ore", "iron", "gold_ore", "gold", "gems",
	"sulfur", "bread", "fish", "meat", "wine", "sword", "bow", "spear",
}

func (t MaterialType) String() string { return enumName(materialNames, t) }

func ParseMaterialType(s string) (MaterialType, bool) { return parseEnum[MaterialType](materialNames, s) }

type MovableType uint8

const (
	MovableUnknown MovableType = iota
	MovableBearer
	MovablePioneer
	MovableGeologist
	MovableThief
	MovableSwordsman
	MovableBowman
	MovablePikeman
	MovableMage
	MovableFerry
	MovableCargoShip
	MovableDonkey
)

var movableNames = []string{
	"unknown", "bearer", "pioneer", "geologist", "thief", "swordsman", "bowman", "pikeman",
	"mage", "ferry", "cargo_ship", "donkey",
}

func (t MovableType) String() string { return enumName(movableNames, t) }

func ParseMovableType(s string) (MovableType, bool) { return parseEnum[MovableType](movableNames, s) }

func (t MovableType) IsShip() bool {
	return t == MovableFerry || t == MovableCargoShip
}

func (t MovableType) IsSoldier() bool {
	return t == MovableSwordsman || t == MovableBowman || t == MovablePikeman
}

type ResourceType uint8

const (
	ResourceNone ResourceType = iota
	ResourceCoal
	ResourceIron
	ResourceGold
	ResourceGems
	ResourceSulfur
	ResourceFish
)

var resourceNames = []string{"none", "coal", "iron", "gold", "gems", "sulfur", "fish"}

func (t ResourceType) String() string { return enumName(resourceNames, t) }

func ParseResourceType(s string) (ResourceType, bool) { return parseEnum[ResourceType](resourceNames, s) }

type SoldierType uint8

const (
	SoldierSword SoldierType = iota
	SoldierBow
	SoldierSpear
)

var soldierNames = []string{"sword", "bow", "spear"}

func (t SoldierType) String() string { return enumName(soldierNames, t) }

// MovableType 对应的士兵单位类型。
func (t SoldierType) MovableType() MovableType {
	switch t {
	case SoldierBow:
		return MovableBowman
	case SoldierSpear:
		return MovablePikeman
	default:
		return MovableSwordsman
	}
}

type ShipType uint8

const (
	ShipFerry ShipType = iota
	ShipCargo
)

var shipNames = []string{"ferry", "cargo"}

func (t ShipType) String() string { return enumName(shipNames, t) }

type MoveToType uint8

const (
	MoveToDefault MoveToType = iota
	MoveToForced
	MoveToPatrol
	MoveToWork
)

var moveToNames = []string{"default", "forced", "patrol", "work"}

func (t MoveToType) String() string { return enumName(moveToNames, t) }

type SpellType uint8

const (
	SpellGift SpellType = iota
	SpellDefeatism
	SpellIrrigate
	SpellGreenThumb
	SpellMeltStone
	SpellCurseMob
)

var spellNames = []string{"gift", "defeatism", "irrigate", "green_thumb", "melt_stone", "curse_mob"}

func (t SpellType) String() string { return enumName(spellNames, t) }

type WaypointType uint8

const (
	WaypointOne WaypointType = iota
	WaypointTwo
	WaypointThree
	WaypointDestination
)

var waypointNames = []string{"waypoint_1", "waypoint_2", "waypoint_3", "destination"}

func (t WaypointType) String() string { return enumName(waypointNames, t) }

type Civilisation uint8

const (
	CivRoman Civilisation = iota
	CivEgyptian
	CivAsian
	CivAmazon
)

var civNames = []string{"roman", "egyptian", "asian", "amazon"}

func (c Civilisation) String() string { return enumName(civNames, c) }

func ParseCivilisation(s string) (Civilisation, bool) { return parseEnum[Civilisation](civNames, s) }

func enumName[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "invalid"
}

func parseEnum[T ~uint8](names []string, s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return T(i), true
		}
	}
	return 0, false
}

// Priority 建筑优先级。
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityHigh
	PriorityStopped
)

var priorityNames = []string{"low", "high", "stopped"}

func (p Priority) String() string { return enumName(priorityNames, p) }
