package command

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"Settlers/internal/game/domain"
	"Settlers/internal/shared/logs"
	"Settlers/modules/kit/errx"
)

// Envelope 指令在网络/journal 上的形态：种类和发起者在外层，载荷是该种类结构体的 JSON。
type Envelope struct {
	Kind    Kind            `json:"kind" bson:"kind"`
	Player  domain.PlayerID `json:"player" bson:"player"`
	Payload json.RawMessage `json:"payload,omitempty" bson:"payload,omitempty"`
}

type decodeFunc func(player domain.PlayerID, raw []byte) (Command, error)

// decoders 按种类分配载荷结构体，载荷不可能按错误的种类解码。
var decoders = map[Kind]decodeFunc{
	KindSetWorkArea:                     decoderOf[SetWorkArea](),
	KindCastSpell:                       decoderOf[CastSpell](),
	KindBuild:                           decoderOf[Build](),
	KindMoveTo:                          decoderOf[MoveTo](),
	KindQuickSave:                       decoderOf[QuickSave](),
	KindDestroyBuilding:                 decoderOf[DestroyBuilding](),
	KindDestroyMovables:                 decoderOf[DestroyMovables](),
	KindStartWorking:                    decoderOf[StartWorking](),
	KindStopWorking:                     decoderOf[StopWorking](),
	KindConvert:                         decoderOf[Convert](),
	KindSetBuildingPriority:             decoderOf[SetBuildingPriority](),
	KindSetMaterialDistributionSettings: decoderOf[SetMaterialDistributionSettings](),
	KindSetMaterialPriorities:           decoderOf[SetMaterialPriorities](),
	KindUpgradeSoldiers:                 decoderOf[UpgradeSoldiers](),
	KindChangeTrading:                   decoderOf[ChangeTrading](),
	KindSetTradingWaypoint:              decoderOf[SetTradingWaypoint](),
	KindSetMaterialProduction:           decoderOf[SetMaterialProduction](),
	KindChangeTowerSoldiers:             decoderOf[ChangeTowerSoldiers](),
	KindSetAcceptedStockMaterial:        decoderOf[SetAcceptedStockMaterial](),
	KindSetDock:                         decoderOf[SetDock](),
	KindOrderShip:                       decoderOf[OrderShip](),
	KindUnloadFerry:                     decoderOf[UnloadFerry](),
	KindChangeMovableSettings:           decoderOf[ChangeMovableSettings](),
	KindSetMovableLimitType:             decoderOf[SetMovableLimitType](),
	KindClearConstructionMarks:          decoderOf[ClearConstructionMarks](),
	KindAbort:                           decoderOf[Abort](),
}

func decoderOf[T Command, P interface {
	*T
	setPlayer(domain.PlayerID)
}]() decodeFunc {
	return func(player domain.PlayerID, raw []byte) (Command, error) {
		var v T
		p := P(&v)
		if len(raw) != 0 && !bytes.Equal(raw, []byte("null")) {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(p); err != nil {
				return nil, err
			}
		}
		p.setPlayer(player)
		return v, nil
	}
}

// Encode 把指令编码为 Envelope。
func Encode(cmd Command) (Envelope, error) {
	if cmd == nil {
		return Envelope{}, errx.ErrMalformed.WithReason(reasonNilCommand)
	}
	raw, err := json.Marshal(cmd)
	if err != nil {
		return Envelope{}, errx.ErrMalformed.WithData("kind", cmd.Kind().String()).WithCause(err)
	}
	return Envelope{Kind: cmd.Kind(), Player: cmd.Player(), Payload: raw}, nil
}

// EncodeAll 编码整批指令，任一失败即返回错误。
func EncodeAll(cmds []Command) ([]Envelope, error) {
	out := make([]Envelope, 0, len(cmds))
	for _, c := range cmds {
		env, err := Encode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// Decode 按 Envelope.Kind 解码载荷。未知种类、载荷字段与种类不符都返回 COMMAND_MALFORMED。
func Decode(env Envelope) (Command, error) {
	dec, ok := decoders[env.Kind]
	if !ok {
		return nil, errx.ErrMalformed.WithReason(reasonUnknownKind).WithData("kind", env.Kind.String())
	}
	if int(env.Player) < 0 || int(env.Player) >= domain.MaxPlayers {
		return nil, errx.ErrMalformed.WithReason(reasonBadPlayer).WithPlayer(int(env.Player))
	}
	cmd, err := dec(env.Player, env.Payload)
	if err != nil {
		return nil, errx.ErrMalformed.WithReason(reasonBadPayload).
			WithData("kind", env.Kind.String()).
			WithCause(err)
	}
	return cmd, nil
}

// DecodeBatch 解码一个 tick 的指令。
// 解码失败是程序错误：开发模式下 DPanic 直接 panic，生产模式记录后跳过该条，其余指令照常执行。
func DecodeBatch(tick uint64, envs []Envelope) Batch {
	b := Batch{Tick: tick, Commands: make([]Command, 0, len(envs))}
	for i, env := range envs {
		cmd, err := Decode(env)
		if err != nil {
			logs.DPanic("malformed command skipped",
				zap.Uint64("tick", tick),
				zap.Int("index", i),
				zap.Stringer("kind", env.Kind),
				zap.Error(err),
			)
			continue
		}
		b.Commands = append(b.Commands, cmd)
	}
	return b
}

type reason string

func (r reason) ReasonCode() string { return string(r) }

const (
	reasonNilCommand  reason = "nil_command"
	reasonUnknownKind reason = "unknown_kind"
	reasonBadPlayer   reason = "player_out_of_range"
	reasonBadPayload  reason = "payload_mismatch"
)

// Equal 种类、发起者和载荷字节都相同。
func (e Envelope) Equal(o Envelope) bool {
	return e.Kind == o.Kind && e.Player == o.Player && bytes.Equal(e.Payload, o.Payload)
}

func (e Envelope) String() string {
	return fmt.Sprintf("%s/p%d", e.Kind, e.Player)
}
