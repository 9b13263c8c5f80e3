package dispatch

import (
	"context"

	"go.uber.org/zap"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/world/entity"
	"Settlers/internal/world/movement"
	"Settlers/modules/kit/errx"
	"Settlers/modules/kit/logx"
)

type CommandHandler struct{}

// 全局实例
var CH = &CommandHandler{}

// ---- 建筑 ----

func (h *CommandHandler) HandleSetWorkArea(ctx context.Context, d *Dispatcher, cmd command.SetWorkArea) {
	if b, ok := d.building(ctx, cmd, cmd.Building); ok {
		b.SetWorkAreaCenter(cmd.Center)
	}
}

func (h *CommandHandler) HandleBuild(ctx context.Context, d *Dispatcher, cmd command.Build) {
	if !d.world.ConstructBuildingAt(cmd.At, cmd.Type, cmd.Player()) {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonBuildRejected,
			zap.Stringer("at", cmd.At), zap.Stringer("building", cmd.Type))
	}
}

func (h *CommandHandler) HandleDestroyBuilding(ctx context.Context, d *Dispatcher, cmd command.DestroyBuilding) {
	if b, ok := d.building(ctx, cmd, cmd.Building); ok {
		b.Kill()
	}
}

func (h *CommandHandler) HandleSetBuildingPriority(ctx context.Context, d *Dispatcher, cmd command.SetBuildingPriority) {
	if b, ok := d.building(ctx, cmd, cmd.Building); ok {
		b.SetPriority(cmd.Priority)
	}
}

func (h *CommandHandler) HandleChangeTrading(ctx context.Context, d *Dispatcher, cmd command.ChangeTrading) {
	if t, ok := buildingAs[entity.Trading](ctx, d, cmd, cmd.Building); ok {
		t.ChangeRequestedMaterial(cmd.Material, cmd.Amount, cmd.Relative)
	}
}

func (h *CommandHandler) HandleSetTradingWaypoint(ctx context.Context, d *Dispatcher, cmd command.SetTradingWaypoint) {
	if t, ok := buildingAs[entity.Trading](ctx, d, cmd, cmd.Building); ok {
		t.SetWaypoint(cmd.Waypoint, cmd.At)
	}
}

// HandleChangeTowerSoldiers 位置上没有建筑或不是可驻军建筑时不做任何修改。
func (h *CommandHandler) HandleChangeTowerSoldiers(ctx context.Context, d *Dispatcher, cmd command.ChangeTowerSoldiers) {
	tower, ok := buildingAs[entity.Occupying](ctx, d, cmd, cmd.Building)
	if !ok {
		return
	}
	switch cmd.Mode {
	case command.GarrisonFull:
		tower.RequestFullSoldiers()
	case command.GarrisonMore:
		tower.RequestSoldier(cmd.Soldier)
	case command.GarrisonOne:
		tower.ReleaseSoldiers()
	case command.GarrisonLess:
		tower.ReleaseSoldier(cmd.Soldier)
	default:
		d.drop(ctx, cmd, errx.ErrMalformed, ReasonUnknownMode, zap.Stringer("mode", cmd.Mode))
	}
}

func (h *CommandHandler) HandleSetDock(ctx context.Context, d *Dispatcher, cmd command.SetDock) {
	if b, ok := buildingAs[entity.DockBuilding](ctx, d, cmd, cmd.Building); ok {
		b.SetDock(cmd.Dock)
	}
}

func (h *CommandHandler) HandleOrderShip(ctx context.Context, d *Dispatcher, cmd command.OrderShip) {
	if b, ok := buildingAs[entity.Dockyard](ctx, d, cmd, cmd.Building); ok {
		b.OrderShip(cmd.Ship)
	}
}

// ---- 单位 ----

func (h *CommandHandler) HandleMoveTo(ctx context.Context, d *Dispatcher, cmd command.MoveTo) {
	units := d.units(ctx, cmd, cmd.Selection)
	if len(units) == 0 {
		return
	}
	byID := make(map[domain.UnitID]entity.Movable, len(units))
	movers := make([]movement.Mover, len(units))
	for i, u := range units {
		byID[u.ID()] = u
		movers[i] = u
	}

	plan := d.assigner.Assign(cmd.At, cmd.Player(), movers)
	if plan.Ferry != nil {
		ferry, ok := d.world.Ferry(plan.Ferry.Ferry)
		if !ok {
			d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNotAFerry, zap.Int32("ferry", int32(plan.Ferry.Ferry)))
			return
		}
		for _, id := range plan.Boarders {
			if b, ok := byID[id].(entity.FerryBoarder); ok {
				b.MoveToFerry(ferry, plan.Ferry.Entrance)
			}
		}
		return
	}
	for _, a := range plan.Assignments {
		byID[a.Unit].MoveTo(a.Cell, cmd.Mode)
	}
	if len(plan.Unassigned) > 0 {
		d.drop(ctx, cmd, errx.ErrSearchExhausted, ReasonSearchExhausted,
			zap.Int("unassigned", len(plan.Unassigned)))
	}
}

// HandleCastSpell 只看选中的第一个单位，必须是法师。
func (h *CommandHandler) HandleCastSpell(ctx context.Context, d *Dispatcher, cmd command.CastSpell) {
	if len(cmd.Selection) == 0 {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNoUnitResolved)
		return
	}
	m, ok := d.world.Units().Get(cmd.Selection[0])
	if !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNoUnitResolved)
		return
	}
	mage, ok := m.(entity.Mage)
	if !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNotAMage, zap.Stringer("movable", m.Type()))
		return
	}
	mage.MoveToCast(cmd.At, cmd.Spell)
}

func (h *CommandHandler) HandleDestroyMovables(ctx context.Context, d *Dispatcher, cmd command.DestroyMovables) {
	for _, u := range d.units(ctx, cmd, cmd.Selection) {
		u.Kill()
	}
}

func (h *CommandHandler) HandleStartWorking(ctx context.Context, d *Dispatcher, cmd command.StartWorking) {
	for _, u := range d.units(ctx, cmd, cmd.Selection) {
		u.SetWorking(true)
	}
}

func (h *CommandHandler) HandleStopWorking(ctx context.Context, d *Dispatcher, cmd command.StopWorking) {
	for _, u := range d.units(ctx, cmd, cmd.Selection) {
		u.SetWorking(false)
	}
}

// HandleConvert 搬运工可以转为地质学家/先锋/小偷，先锋可以转回搬运工，其余组合都不合法。
func (h *CommandHandler) HandleConvert(ctx context.Context, d *Dispatcher, cmd command.Convert) {
	switch cmd.Target {
	case domain.MovableGeologist, domain.MovablePioneer, domain.MovableThief, domain.MovableBearer:
	default:
		d.log.WithContext(ctx).Warn("illegal conversion target",
			zap.String("err_type", "biz"),
			zap.String("error_code", errx.ErrIllegalConversion.CodeText()),
			zap.Int("player", int(cmd.Player())),
			zap.Stringer("target", cmd.Target),
		)
		return
	}
	for _, u := range d.units(ctx, cmd, cmd.Selection) {
		converted := false
		if cmd.Target == domain.MovableBearer {
			if p, ok := u.(entity.Pioneer); ok {
				p.ConvertToBearer()
				converted = true
			}
		} else if b, ok := u.(entity.Bearer); ok {
			converted = b.ConvertTo(cmd.Target)
		}
		if !converted {
			d.drop(ctx, cmd, errx.ErrIllegalConversion, ReasonIllegalConversion,
				zap.Int32("unit", int32(u.ID())), zap.Stringer("movable", u.Type()))
		}
	}
}

// HandleUnloadFerry 选中单位里存活的渡船全部卸客。
func (h *CommandHandler) HandleUnloadFerry(ctx context.Context, d *Dispatcher, cmd command.UnloadFerry) {
	found := false
	for _, u := range d.units(ctx, cmd, cmd.Selection) {
		if f, ok := u.(entity.Ferry); ok {
			f.Unload()
			found = true
		}
	}
	if !found {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNotAFerry)
	}
}

// ---- 分区设置 ----

func (h *CommandHandler) HandleSetMaterialDistributionSettings(ctx context.Context, d *Dispatcher, cmd command.SetMaterialDistributionSettings) {
	if s, ok := d.settingsAt(ctx, cmd, cmd.Manager); ok {
		s.SetDistribution(cmd.Material, cmd.Building, cmd.Ratio)
	}
}

func (h *CommandHandler) HandleSetMaterialPriorities(ctx context.Context, d *Dispatcher, cmd command.SetMaterialPriorities) {
	if s, ok := d.settingsAt(ctx, cmd, cmd.Manager); ok {
		s.SetPriorities(cmd.Priorities)
	}
}

func (h *CommandHandler) HandleSetMaterialProduction(ctx context.Context, d *Dispatcher, cmd command.SetMaterialProduction) {
	s, ok := d.settingsAt(ctx, cmd, cmd.At)
	if !ok {
		return
	}
	switch cmd.Mode {
	case command.ProductionIncrease:
		s.IncreaseAbsoluteProduction(cmd.Material)
	case command.ProductionDecrease:
		s.DecreaseAbsoluteProduction(cmd.Material)
	case command.ProductionSetAbsolute:
		s.SetAbsoluteProduction(cmd.Material, int(cmd.Ratio))
	case command.ProductionSetRatio:
		s.SetRelativeProduction(cmd.Material, cmd.Ratio)
	default:
		d.drop(ctx, cmd, errx.ErrMalformed, ReasonUnknownMode, zap.Stringer("mode", cmd.Mode))
	}
}

// HandleSetAcceptedStockMaterial Local 时修改该位置的仓库，否则修改所在分区的默认设置。
func (h *CommandHandler) HandleSetAcceptedStockMaterial(ctx context.Context, d *Dispatcher, cmd command.SetAcceptedStockMaterial) {
	if cmd.Local {
		if stock, ok := buildingAs[entity.Stock](ctx, d, cmd, cmd.At); ok {
			stock.SetAcceptedMaterial(cmd.Material, cmd.Accepted)
		}
		return
	}
	if s, ok := d.settingsAt(ctx, cmd, cmd.At); ok {
		s.SetAcceptedStockMaterial(cmd.Material, cmd.Accepted)
	}
}

func (h *CommandHandler) HandleChangeMovableSettings(ctx context.Context, d *Dispatcher, cmd command.ChangeMovableSettings) {
	if s, ok := d.settingsAt(ctx, cmd, cmd.At); ok {
		s.ChangeMovableSettings(cmd.Movable, cmd.Relative, cmd.Amount)
	}
}

func (h *CommandHandler) HandleSetMovableLimitType(ctx context.Context, d *Dispatcher, cmd command.SetMovableLimitType) {
	if s, ok := d.settingsAt(ctx, cmd, cmd.At); ok {
		s.SetMovableLimitType(cmd.Movable, cmd.Relative)
	}
}

// ---- 玩家 ----

func (h *CommandHandler) HandleUpgradeSoldiers(ctx context.Context, d *Dispatcher, cmd command.UpgradeSoldiers) {
	if _, ok := d.world.Player(cmd.Player()); !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonUnknownPlayer)
		return
	}
	if !d.world.UpgradeSoldiers(cmd.Player(), cmd.Soldier) {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonUpgradeRejected, zap.Stringer("soldier", cmd.Soldier))
	}
}

func (h *CommandHandler) HandleQuickSave(ctx context.Context, d *Dispatcher, cmd command.QuickSave) {
	if d.saver == nil {
		d.drop(ctx, cmd, errx.ErrUnavailable, ReasonNoSaver)
		return
	}
	if err := d.saver.QuickSave(ctx); err != nil {
		logx.ReportSysError(ctx, d.log, logx.NewSysLog("quick_save", errx.ErrJournal.WithReason(ReasonQuickSaveFail).WithCause(err)),
			zap.Int("player", int(cmd.Player())))
	}
}

// 构造标记和中止只影响客户端状态，世界里没有对应修改。
func (h *CommandHandler) HandleClearConstructionMarks(context.Context, *Dispatcher, command.ClearConstructionMarks) {
}

func (h *CommandHandler) HandleAbort(context.Context, *Dispatcher, command.Abort) {}
