package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/ai/target"
	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/scenario"
	"Settlers/internal/shared/transport"
	"Settlers/internal/world/actors"
	"Settlers/internal/world/entity"
	"Settlers/internal/world/infra/persistence/memory"
)

type loaderFunc func(ctx context.Context, sessionID string) (*entity.World, error)

func (f loaderFunc) LoadWorld(ctx context.Context, sessionID string) (*entity.World, error) {
	return f(ctx, sessionID)
}

const twoPlayers = "../../../configs/scenarios/two_players.yml"

func smallWorld(context.Context, string) (*entity.World, error) {
	w := entity.NewWorld(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			w.SetOwner(domain.Pos(x, y), 0)
		}
	}
	w.Grid().RecomputePartitions()
	w.AddPlayer(entity.NewPlayer(0, domain.CivRoman, 20))
	w.AddPlayer(entity.NewPlayer(1, domain.CivAmazon, 20))
	w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))
	return w, nil
}

func newTestRuntime(t *testing.T, repo *memory.JournalRepository) *Runtime {
	t.Helper()
	return NewRuntime("s-test", actors.SessionDeps{
		Journal:    repo,
		Worlds:     loaderFunc(smallWorld),
		FlushEvery: time.Hour,
	}, time.Second)
}

func mustEncode(t *testing.T, cmds ...command.Command) []command.Envelope {
	t.Helper()
	envs, err := command.EncodeAll(cmds)
	require.NoError(t, err)
	return envs
}

func TestRuntime_执行tick并返回校验和(t *testing.T) {
	r := newTestRuntime(t, memory.NewJournalRepository())
	defer r.Shutdown()
	ctx := context.Background()

	res, err := r.ApplyTick(ctx, 1, mustEncode(t,
		command.Build{Header: command.By(0), Type: domain.BuildingTower, At: domain.Pos(4, 4)},
		command.StartWorking{Header: command.By(0), Selection: domain.Selection{1}},
	))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Tick)
	assert.Equal(t, 2, res.Applied)
	assert.Zero(t, res.Skipped)

	d, err := r.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Digest, d.Digest)
	assert.Equal(t, uint64(1), d.Tick)
}

func TestRuntime_重复tick被拒绝(t *testing.T) {
	r := newTestRuntime(t, memory.NewJournalRepository())
	defer r.Shutdown()
	ctx := context.Background()

	_, err := r.ApplyTick(ctx, 3, nil)
	require.NoError(t, err)
	_, err = r.ApplyTick(ctx, 3, mustEncode(t, command.QuickSave{Header: command.By(0)}))
	require.Error(t, err)
	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, transport.StaleTick, re.Code)
	assert.Equal(t, transport.StaleTick, CodeFromError(err))

	_, err = r.ApplyTick(ctx, 2, nil)
	assert.Equal(t, transport.StaleTick, CodeFromError(err))
}

func TestRuntime_重发最新tick只确认不重复执行(t *testing.T) {
	repo := memory.NewJournalRepository()
	r := newTestRuntime(t, repo)
	defer r.Shutdown()
	ctx := context.Background()

	envs := mustEncode(t, command.Build{Header: command.By(0), Type: domain.BuildingTower, At: domain.Pos(4, 4)})
	first, err := r.ApplyTick(ctx, 1, envs)
	require.NoError(t, err)
	again, err := r.ApplyTick(ctx, 1, envs)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	d, err := r.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.Tick)
	assert.Equal(t, first.Digest, d.Digest)
	r.Shutdown()

	records, err := repo.Load(ctx, "s-test")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRuntime_出局与管理员模式(t *testing.T) {
	r := newTestRuntime(t, memory.NewJournalRepository())
	defer r.Shutdown()
	ctx := context.Background()

	changed, err := r.MarkLost(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = r.MarkLost(ctx, 1)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, r.SetControlAll(ctx, true))
	d, err := r.Digest(ctx)
	require.NoError(t, err)
	assert.True(t, d.ControlAll)
	assert.Equal(t, []int{1}, d.Lost)

	_, err = r.MarkLost(ctx, 99)
	assert.Equal(t, transport.InvalidParam, CodeFromError(err))
}

func TestRuntime_重启后重放日志(t *testing.T) {
	repo := memory.NewJournalRepository()
	ctx := context.Background()

	r := newTestRuntime(t, repo)
	_, err := r.ApplyTick(ctx, 1, mustEncode(t,
		command.Build{Header: command.By(0), Type: domain.BuildingCastle, At: domain.Pos(5, 5)},
	))
	require.NoError(t, err)
	last, err := r.ApplyTick(ctx, 2, mustEncode(t,
		command.ChangeTowerSoldiers{Header: command.By(0), Building: domain.Pos(5, 5), Mode: command.GarrisonFull},
		command.MoveTo{Header: command.By(0), Selection: domain.Selection{1}, At: domain.Pos(7, 7)},
	))
	require.NoError(t, err)
	r.Shutdown()

	records, err := repo.Load(ctx, "s-test")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, last.Digest, records[1].Digest)

	again := newTestRuntime(t, repo)
	defer again.Shutdown()
	d, err := again.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.Tick)
	assert.Equal(t, last.Digest, d.Digest)
}

func TestRuntime_管理操作写进日志重启后保持(t *testing.T) {
	repo := memory.NewJournalRepository()
	ctx := context.Background()

	r := newTestRuntime(t, repo)
	changed, err := r.MarkLost(ctx, 0)
	require.NoError(t, err)
	require.True(t, changed)
	// 出局玩家的指令被丢弃
	res, err := r.ApplyTick(ctx, 1, mustEncode(t,
		command.Build{Header: command.By(0), Type: domain.BuildingTower, At: domain.Pos(4, 4)},
	))
	require.NoError(t, err)
	first := res.Digest
	require.NoError(t, r.SetControlAll(ctx, true))
	// 管理员模式下照常执行
	last, err := r.ApplyTick(ctx, 2, mustEncode(t,
		command.Build{Header: command.By(0), Type: domain.BuildingTower, At: domain.Pos(7, 7)},
	))
	require.NoError(t, err)
	assert.NotEqual(t, first, last.Digest)
	r.Shutdown()

	records, err := repo.Load(ctx, "s-test")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint64(0), records[0].Tick)
	assert.Equal(t, []command.AdminAction{command.MarkLost(0)}, records[0].Admin)
	assert.Equal(t, []command.AdminAction{command.ControlAll(true)}, records[1].Admin)

	again := newTestRuntime(t, repo)
	defer again.Shutdown()
	d, err := again.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.Tick)
	assert.Equal(t, last.Digest, d.Digest)
	assert.Equal(t, []int{0}, d.Lost)
	// 配置里的管理员模式优先于日志
	assert.False(t, d.ControlAll)
}

func TestRuntime_矿区选址(t *testing.T) {
	filters, err := target.CompileFilters(map[string]string{"coal": "ResourceAmount >= 4"})
	require.NoError(t, err)
	r := NewRuntime("s-mine", actors.SessionDeps{
		Journal: memory.NewJournalRepository(),
		Worlds:  scenario.NewLoader(twoPlayers),
		Filters: filters,
	}, time.Second)
	defer r.Shutdown()
	ctx := context.Background()

	res, err := r.FindMineTarget(ctx, 0, domain.BuildingCoalMine)
	require.NoError(t, err)
	require.True(t, res.Found)
	// 选址只读，用一份独立构建的世界查归属
	w, err := scenario.NewLoader(twoPlayers).LoadWorld(ctx, "")
	require.NoError(t, err)
	owner, ok := w.OwnerAt(res.At)
	require.True(t, ok)
	assert.Equal(t, domain.PlayerID(0), owner)

	// 对岸没有无主煤矿可达
	res, err = r.FindMineTarget(ctx, 1, domain.BuildingCoalMine)
	require.NoError(t, err)
	assert.False(t, res.Found)

	_, err = r.FindMineTarget(ctx, 0, domain.BuildingSawmill)
	assert.Equal(t, transport.InvalidParam, CodeFromError(err))
}

