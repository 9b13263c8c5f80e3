package command

import "fmt"

// Kind 指令种类，与载荷结构一一对应。
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSetWorkArea
	KindCastSpell
	KindBuild
	KindMoveTo
	KindQuickSave
	KindDestroyBuilding
	KindDestroyMovables
	KindStartWorking
	KindStopWorking
	KindConvert
	KindSetBuildingPriority
	KindSetMaterialDistributionSettings
	KindSetMaterialPriorities
	KindUpgradeSoldiers
	KindChangeTrading
	KindSetTradingWaypoint
	KindSetMaterialProduction
	KindChangeTowerSoldiers
	KindSetAcceptedStockMaterial
	KindSetDock
	KindOrderShip
	KindUnloadFerry
	KindChangeMovableSettings
	KindSetMovableLimitType
	KindClearConstructionMarks
	KindAbort
)

var kindNames = [...]string{
	KindUnknown:                         "unknown",
	KindSetWorkArea:                     "set_work_area",
	KindCastSpell:                       "cast_spell",
	KindBuild:                           "build",
	KindMoveTo:                          "move_to",
	KindQuickSave:                       "quick_save",
	KindDestroyBuilding:                 "destroy_building",
	KindDestroyMovables:                 "destroy_movables",
	KindStartWorking:                    "start_working",
	KindStopWorking:                     "stop_working",
	KindConvert:                         "convert",
	KindSetBuildingPriority:             "set_building_priority",
	KindSetMaterialDistributionSettings: "set_material_distribution_settings",
	KindSetMaterialPriorities:           "set_material_priorities",
	KindUpgradeSoldiers:                 "upgrade_soldiers",
	KindChangeTrading:                   "change_trading",
	KindSetTradingWaypoint:              "set_trading_waypoint",
	KindSetMaterialProduction:           "set_material_production",
	KindChangeTowerSoldiers:             "change_tower_soldiers",
	KindSetAcceptedStockMaterial:        "set_accepted_stock_material",
	KindSetDock:                         "set_dock",
	KindOrderShip:                       "order_ship",
	KindUnloadFerry:                     "unload_ferry",
	KindChangeMovableSettings:           "change_movable_settings",
	KindSetMovableLimitType:             "set_movable_limit_type",
	KindClearConstructionMarks:          "clear_construction_marks",
	KindAbort:                           "abort",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("command kind %d out of range", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown command kind %q", string(b))
}

// ProductionMode 材料生产请求的修改方式。
type ProductionMode uint8

const (
	ProductionIncrease ProductionMode = iota
	ProductionDecrease
	ProductionSetAbsolute
	ProductionSetRatio
)

// GarrisonMode 塔楼驻军调整方式。
type GarrisonMode uint8

const (
	// GarrisonFull 请求满编
	GarrisonFull GarrisonMode = iota
	// GarrisonMore 请求一名指定兵种
	GarrisonMore
	// GarrisonOne 释放到只剩一名
	GarrisonOne
	// GarrisonLess 释放一名指定兵种
	GarrisonLess
)

var (
	productionNames = []string{"increase", "decrease", "set_absolute", "set_ratio"}
	garrisonNames   = []string{"full", "more", "one", "less"}
)

func (m ProductionMode) String() string { return nameOf(productionNames, m) }
func (m GarrisonMode) String() string   { return nameOf(garrisonNames, m) }

func (m ProductionMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m GarrisonMode) MarshalText() ([]byte, error)   { return []byte(m.String()), nil }

func (m *ProductionMode) UnmarshalText(b []byte) error {
	return parseName(productionNames, "production mode", b, m)
}

func (m *GarrisonMode) UnmarshalText(b []byte) error {
	return parseName(garrisonNames, "garrison mode", b, m)
}

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "invalid"
}

func parseName[T ~uint8](names []string, typ string, b []byte, out *T) error {
	for i, n := range names {
		if n == string(b) {
			*out = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", typ, string(b))
}
