package dispatch

import (
	"context"
	"reflect"

	"go.uber.org/zap"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/world/entity"
	"Settlers/internal/world/movement"
	"Settlers/modules/kit/errx"
	"Settlers/modules/kit/logx"
	"Settlers/modules/kit/tracex"
)

// World 指令执行需要的世界视图和修改入口。
type World interface {
	movement.Terrain
	movement.FerryLocator

	HasLost(id domain.PlayerID) bool
	MarkLost(id domain.PlayerID) bool
	Player(id domain.PlayerID) (*entity.Player, bool)
	UpgradeSoldiers(id domain.PlayerID, s domain.SoldierType) bool
	Units() *entity.MovableRegistry
	Ferry(id domain.UnitID) (entity.Ferry, bool)
	BuildingAt(p domain.Position) (entity.Building, bool)
	ConstructBuildingAt(p domain.Position, t domain.BuildingType, player domain.PlayerID) bool
	SettingsAt(p domain.Position) (*entity.PartitionSettings, bool)
	Settings(id domain.PlayerID) (*entity.PartitionSettings, bool)
}

// Saver 快速存档。失败只记录日志，不影响后续指令。
type Saver interface {
	QuickSave(ctx context.Context) error
}

type Dispatcher struct {
	world      World
	assigner   *movement.Assigner
	saver      Saver
	log        logx.Logger
	controlAll bool

	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

type Option func(*Dispatcher)

// WithSaver 配置 QuickSave 的落地方式；不配置时 QuickSave 只记录日志。
func WithSaver(s Saver) Option {
	return func(d *Dispatcher) { d.saver = s }
}

// WithControlAll 管理员模式：出局玩家的指令照常执行。
func WithControlAll(on bool) Option {
	return func(d *Dispatcher) { d.controlAll = on }
}

func NewDispatcher(world World, log logx.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = logx.Nop()
	}
	d := &Dispatcher{
		world:    world,
		assigner: movement.NewAssigner(world, world),
		log:      log,
		handlers: make(map[reflect.Type]Handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, CH.HandleSetWorkArea)
	register(d, CH.HandleCastSpell)
	register(d, CH.HandleBuild)
	register(d, CH.HandleMoveTo)
	register(d, CH.HandleQuickSave)
	register(d, CH.HandleDestroyBuilding)
	register(d, CH.HandleDestroyMovables)
	register(d, CH.HandleStartWorking)
	register(d, CH.HandleStopWorking)
	register(d, CH.HandleConvert)
	register(d, CH.HandleSetBuildingPriority)
	register(d, CH.HandleSetMaterialDistributionSettings)
	register(d, CH.HandleSetMaterialPriorities)
	register(d, CH.HandleUpgradeSoldiers)
	register(d, CH.HandleChangeTrading)
	register(d, CH.HandleSetTradingWaypoint)
	register(d, CH.HandleSetMaterialProduction)
	register(d, CH.HandleChangeTowerSoldiers)
	register(d, CH.HandleSetAcceptedStockMaterial)
	register(d, CH.HandleSetDock)
	register(d, CH.HandleOrderShip)
	register(d, CH.HandleUnloadFerry)
	register(d, CH.HandleChangeMovableSettings)
	register(d, CH.HandleSetMovableLimitType)
	register(d, CH.HandleClearConstructionMarks)
	register(d, CH.HandleAbort)
}

func register[Req command.Command](
	d *Dispatcher,
	fn func(ctx context.Context, d *Dispatcher, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) SetControlAll(on bool) { d.controlAll = on }
func (d *Dispatcher) ControlAll() bool      { return d.controlAll }
func (d *Dispatcher) World() World          { return d.world }

// Apply 同步执行一条指令。出局玩家、失效引用都只是空操作，不返回错误。
func (d *Dispatcher) Apply(ctx context.Context, cmd command.Command) {
	if cmd == nil {
		return
	}
	if d.world.HasLost(cmd.Player()) && !d.controlAll {
		d.drop(ctx, cmd, errx.ErrPlayerLost, ReasonPlayerLost)
		return
	}

	reqType := reflect.TypeOf(cmd)
	handler, ok := d.handlers[reqType]
	if !ok || reqType != handler.reqType {
		d.log.WithContext(ctx).DPanic("no handler for command", zap.Stringer("kind", cmd.Kind()))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(d),
		reflect.ValueOf(cmd),
	})
}

// ApplyBatch 按顺序执行一个 tick 的全部指令。
func (d *Dispatcher) ApplyBatch(ctx context.Context, batch command.Batch) {
	ctx = tracex.WithTick(ctx, batch.Tick)
	for _, cmd := range batch.Commands {
		d.Apply(ctx, cmd)
	}
}

// ApplyAdmin 执行一条管理操作，返回状态是否发生了变化。
func (d *Dispatcher) ApplyAdmin(a command.AdminAction) bool {
	switch a.Kind {
	case command.AdminMarkLost:
		return d.world.MarkLost(a.Player)
	case command.AdminControlAll:
		if d.controlAll == a.On {
			return false
		}
		d.controlAll = a.On
		return true
	}
	return false
}

// ApplyRecord 重放一条日志：先执行该 tick 的指令，再执行之后发生的管理操作。
func (d *Dispatcher) ApplyRecord(ctx context.Context, rec entity.TickRecord) {
	d.ApplyBatch(ctx, command.DecodeBatch(rec.Tick, rec.Commands))
	for _, a := range rec.Admin {
		d.ApplyAdmin(a)
	}
}

// drop 记录一条被丢弃或成为空操作的指令。
func (d *Dispatcher) drop(ctx context.Context, cmd command.Command, base *errx.Error, reason Reason, fields ...zap.Field) {
	fields = append(fields, zap.String("error_code", base.CodeText()))
	logx.ReportDropped(ctx, d.log, logx.DropLog{
		Kind:   cmd.Kind().String(),
		Player: int(cmd.Player()),
		Reason: reason.ReasonCode(),
	}, fields...)
}

// building 解析指令引用的建筑；不存在或已摧毁时记录并返回 false。
func (d *Dispatcher) building(ctx context.Context, cmd command.Command, at domain.Position) (entity.Building, bool) {
	b, ok := d.world.BuildingAt(at)
	if !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonBuildingNotFound, zap.Stringer("at", at))
		return nil, false
	}
	return b, true
}

// buildingAs 解析建筑并要求具备能力 T。
func buildingAs[T any](ctx context.Context, d *Dispatcher, cmd command.Command, at domain.Position) (T, bool) {
	var zero T
	b, ok := d.building(ctx, cmd, at)
	if !ok {
		return zero, false
	}
	v, ok := b.(T)
	if !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonWrongBuildingType,
			zap.Stringer("at", at), zap.Stringer("building", b.Type()))
		return zero, false
	}
	return v, true
}

// units 解析选中单位；全部无法解析时记录一次。
func (d *Dispatcher) units(ctx context.Context, cmd command.Command, sel domain.Selection) []entity.Movable {
	units := d.world.Units().Resolve(sel)
	if len(units) == 0 {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNoUnitResolved, zap.Int("selected", len(sel)))
	}
	return units
}

func (d *Dispatcher) settingsAt(ctx context.Context, cmd command.Command, at domain.Position) (*entity.PartitionSettings, bool) {
	s, ok := d.world.SettingsAt(at)
	if !ok {
		d.drop(ctx, cmd, errx.ErrStaleReference, ReasonNoPartition, zap.Stringer("at", at))
		return nil, false
	}
	return s, true
}
