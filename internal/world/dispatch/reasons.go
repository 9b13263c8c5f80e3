package dispatch

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 指令被丢弃/成为空操作的原因，只用于日志归类。
	ReasonPlayerLost        = NewReason("PLAYER_LOST", "玩家已出局")
	ReasonBuildingNotFound  = NewReason("BUILDING_NOT_FOUND", "位置上没有建筑")
	ReasonWrongBuildingType = NewReason("WRONG_BUILDING_TYPE", "建筑类型不支持该操作")
	ReasonNoUnitResolved    = NewReason("NO_UNIT_RESOLVED", "选中单位都不存在")
	ReasonNotAMage          = NewReason("NOT_A_MAGE", "首个选中单位不是法师")
	ReasonBuildRejected     = NewReason("BUILD_REJECTED", "该位置不能建造")
	ReasonIllegalConversion = NewReason("ILLEGAL_CONVERSION", "单位不能转换为目标职业")
	ReasonNoPartition       = NewReason("NO_PARTITION", "位置不属于任何玩家领地")
	ReasonUnknownPlayer     = NewReason("UNKNOWN_PLAYER", "玩家不存在")
	ReasonUpgradeRejected   = NewReason("UPGRADE_REJECTED", "法力不足或已满级")
	ReasonNotAFerry         = NewReason("NOT_A_FERRY", "选中单位没有渡船")
	ReasonNoSaver           = NewReason("NO_SAVER", "未配置存档")
	ReasonUnknownMode       = NewReason("UNKNOWN_MODE", "未知的操作模式")
	ReasonSearchExhausted   = NewReason("SEARCH_EXHAUSTED", "部分单位找不到可到达的位置")
)

var (
	// 技术错误 reason。
	ReasonQuickSaveFail = NewReason("QUICK_SAVE_FAIL", "快速存档失败")
)
