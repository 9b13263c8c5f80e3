package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/game/domain"
	"Settlers/modules/kit/errx"
)

func TestEncode_玩家放在外层载荷不含header(t *testing.T) {
	env, err := Encode(Build{Header: By(3), Type: domain.BuildingCoalMine, At: domain.Pos(4, 5)})
	require.NoError(t, err)

	assert.Equal(t, KindBuild, env.Kind)
	assert.Equal(t, domain.PlayerID(3), env.Player)
	assert.JSONEq(t, `{"type":"coal_mine","at":{"x":4,"y":5}}`, string(env.Payload))
}

func TestDecode_按种类分配载荷(t *testing.T) {
	env, err := Encode(MoveTo{
		Header:    By(1),
		Selection: domain.Selection{7, 8, 7},
		At:        domain.Pos(10, 2),
		Mode:      domain.MoveToForced,
	})
	require.NoError(t, err)

	cmd, err := Decode(env)
	require.NoError(t, err)
	mv, ok := cmd.(MoveTo)
	require.True(t, ok)
	assert.Equal(t, domain.PlayerID(1), mv.Player())
	assert.Equal(t, domain.Selection{7, 8, 7}, mv.Selection)
	assert.Equal(t, domain.MoveToForced, mv.Mode)
}

func TestDecode_载荷与种类不符视为格式错误(t *testing.T) {
	env, err := Encode(Build{Header: By(0), Type: domain.BuildingTower, At: domain.Pos(1, 1)})
	require.NoError(t, err)
	env.Kind = KindMoveTo

	_, err = Decode(env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrMalformed))
}

func TestDecode_未知种类(t *testing.T) {
	_, err := Decode(Envelope{Kind: Kind(200), Player: 0})
	assert.True(t, errors.Is(err, errx.ErrMalformed))
}

func TestDecode_玩家越界(t *testing.T) {
	_, err := Decode(Envelope{Kind: KindAbort, Player: domain.MaxPlayers})
	assert.True(t, errors.Is(err, errx.ErrMalformed))
}

func TestDecode_无载荷指令(t *testing.T) {
	cmd, err := Decode(Envelope{Kind: KindQuickSave, Player: 2})
	require.NoError(t, err)
	assert.Equal(t, QuickSave{Header: By(2)}, cmd)
}

func TestDecodeBatch_跳过坏指令保留顺序(t *testing.T) {
	good1, _ := Encode(StartWorking{Header: By(0), Selection: domain.Selection{1}})
	good2, _ := Encode(ChangeTowerSoldiers{Header: By(1), Building: domain.Pos(3, 3), Mode: GarrisonMore, Soldier: domain.SoldierBow})
	bad := Envelope{Kind: KindBuild, Player: 0, Payload: []byte(`{"selection":[1]}`)}

	b := DecodeBatch(12, []Envelope{good1, bad, good2})
	assert.Equal(t, uint64(12), b.Tick)
	require.Len(t, b.Commands, 2)
	assert.Equal(t, KindStartWorking, b.Commands[0].Kind())
	assert.Equal(t, KindChangeTowerSoldiers, b.Commands[1].Kind())
	assert.Equal(t, GarrisonMore, b.Commands[1].(ChangeTowerSoldiers).Mode)
}

func TestKind_文本编码(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("set_material_production")))
	assert.Equal(t, KindSetMaterialProduction, k)
	assert.Error(t, k.UnmarshalText([]byte("launch_rocket")))
}
