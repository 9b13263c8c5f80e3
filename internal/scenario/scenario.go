package scenario

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/world/entity"
	"Settlers/modules/kit/errx"
)

// Scenario 一局对局的初始地图和可选的指令脚本，用于重放测试和会话启动。
type Scenario struct {
	Name      string      `yaml:"name"`
	Width     int         `yaml:"width"`
	Height    int         `yaml:"height"`
	Blocked   []Area      `yaml:"blocked"`
	Water     []Area      `yaml:"water"`
	Resources []Resource  `yaml:"resources"`
	Territory []Territory `yaml:"territory"`
	Players   []Player    `yaml:"players"`
	Buildings []Building  `yaml:"buildings"`
	Units     []Unit      `yaml:"units"`
	Script    []Tick      `yaml:"script"`
}

// Area 闭区间矩形，To 省略时只包含 From 一格。
type Area struct {
	From domain.Position  `yaml:"from"`
	To   *domain.Position `yaml:"to"`
}

type Resource struct {
	Area   `yaml:",inline"`
	Type   domain.ResourceType `yaml:"type"`
	Amount uint8               `yaml:"amount"`
}

type Territory struct {
	Area   `yaml:",inline"`
	Player domain.PlayerID `yaml:"player"`
}

type Player struct {
	ID    domain.PlayerID     `yaml:"id"`
	Civ   domain.Civilisation `yaml:"civ"`
	Manna int                 `yaml:"manna"`
	Lost  bool                `yaml:"lost"`
	Home  *domain.Position    `yaml:"home"`
}

type Building struct {
	Type   domain.BuildingType `yaml:"type"`
	At     domain.Position     `yaml:"at"`
	Player domain.PlayerID     `yaml:"player"`
}

// Unit ID 为 0 时按出现顺序自动分配。
type Unit struct {
	ID     domain.UnitID      `yaml:"id"`
	Type   domain.MovableType `yaml:"type"`
	At     domain.Position    `yaml:"at"`
	Player domain.PlayerID    `yaml:"player"`
}

type Tick struct {
	Tick     uint64    `yaml:"tick"`
	Commands []Command `yaml:"commands"`
}

// Command 脚本里的一条指令，payload 按该种类的 JSON 字段书写。
type Command struct {
	Kind    command.Kind    `yaml:"kind"`
	Player  domain.PlayerID `yaml:"player"`
	Payload map[string]any  `yaml:"payload"`
}

// Parse 解析并校验场景。
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errx.ErrScenario.WithCause(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errx.ErrScenario.WithData("path", path).WithCause(err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return invalid("map size must be positive, got %dx%d", s.Width, s.Height)
	}
	seen := make(map[domain.PlayerID]bool, len(s.Players))
	for _, p := range s.Players {
		if p.ID < 0 || int(p.ID) >= domain.MaxPlayers {
			return invalid("player id %d out of range", p.ID)
		}
		if seen[p.ID] {
			return invalid("duplicate player %d", p.ID)
		}
		seen[p.ID] = true
		if p.Home != nil && !s.inBounds(*p.Home) {
			return invalid("home of player %d out of bounds: %v", p.ID, *p.Home)
		}
	}
	for _, t := range s.Territory {
		if !seen[t.Player] {
			return invalid("territory of unknown player %d", t.Player)
		}
	}
	for _, b := range s.Buildings {
		if !s.inBounds(b.At) {
			return invalid("building %s out of bounds: %v", b.Type, b.At)
		}
		if !seen[b.Player] {
			return invalid("building %s of unknown player %d", b.Type, b.Player)
		}
	}
	for _, u := range s.Units {
		if !s.inBounds(u.At) {
			return invalid("unit %s out of bounds: %v", u.Type, u.At)
		}
		if !seen[u.Player] {
			return invalid("unit %s of unknown player %d", u.Type, u.Player)
		}
	}
	var last uint64
	for _, t := range s.Script {
		if t.Tick <= last {
			return invalid("script ticks must increase, got %d after %d", t.Tick, last)
		}
		last = t.Tick
	}
	return nil
}

// Build 按场景构建一个全新的世界，多次调用得到互不相干但完全一致的世界。
func (s *Scenario) Build() (*entity.World, error) {
	w := entity.NewWorld(s.Width, s.Height)
	g := w.Grid()
	for _, a := range s.Blocked {
		a.each(func(p domain.Position) { g.Update(p, func(c *entity.Cell) { c.Blocked = true }) })
	}
	for _, a := range s.Water {
		a.each(func(p domain.Position) { g.Update(p, func(c *entity.Cell) { c.Water = true }) })
	}
	for _, r := range s.Resources {
		r.each(func(p domain.Position) {
			g.Update(p, func(c *entity.Cell) {
				c.Resource = r.Type
				c.Amount = r.Amount
			})
		})
	}
	for _, t := range s.Territory {
		t.each(func(p domain.Position) { w.SetOwner(p, t.Player) })
	}
	g.RecomputePartitions()

	for _, p := range s.Players {
		pl := entity.NewPlayer(p.ID, p.Civ, p.Manna)
		pl.Lost = p.Lost
		if p.Home != nil {
			home := *p.Home
			pl.Home = &home
		}
		w.AddPlayer(pl)
	}
	for _, b := range s.Buildings {
		if _, err := w.PlaceBuilding(b.Type, b.At, b.Player); err != nil {
			return nil, errx.ErrScenario.WithCause(err)
		}
	}
	for _, u := range s.Units {
		if u.ID == 0 {
			w.Units().Spawn(u.Type, u.Player, u.At)
			continue
		}
		if _, err := w.Units().Insert(u.ID, u.Type, u.Player, u.At); err != nil {
			return nil, errx.ErrScenario.WithCause(err)
		}
	}
	w.ClearDirty()
	return w, nil
}

// Ticks 把脚本编码成每个 tick 的指令包。
func (s *Scenario) Ticks() ([]TickEnvelopes, error) {
	out := make([]TickEnvelopes, 0, len(s.Script))
	for _, t := range s.Script {
		envs := make([]command.Envelope, 0, len(t.Commands))
		for i, c := range t.Commands {
			env := command.Envelope{Kind: c.Kind, Player: c.Player}
			if len(c.Payload) > 0 {
				raw, err := json.Marshal(c.Payload)
				if err != nil {
					return nil, errx.ErrScenario.WithTick(t.Tick).WithData("index", i).WithCause(err)
				}
				env.Payload = raw
			}
			envs = append(envs, env)
		}
		out = append(out, TickEnvelopes{Tick: t.Tick, Commands: envs})
	}
	return out, nil
}

// TickEnvelopes 一个 tick 的编码后指令。
type TickEnvelopes struct {
	Tick     uint64
	Commands []command.Envelope
}

// Batches 解码整个脚本，解码失败的指令按会话的规则跳过。
func (s *Scenario) Batches() ([]command.Batch, error) {
	ticks, err := s.Ticks()
	if err != nil {
		return nil, err
	}
	out := make([]command.Batch, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, command.DecodeBatch(t.Tick, t.Commands))
	}
	return out, nil
}

func (s *Scenario) inBounds(p domain.Position) bool {
	return p.InBounds(s.Width, s.Height)
}

func (a Area) each(fn func(p domain.Position)) {
	to := a.From
	if a.To != nil {
		to = *a.To
	}
	x0, x1 := min(a.From.X, to.X), max(a.From.X, to.X)
	y0, y1 := min(a.From.Y, to.Y), max(a.From.Y, to.Y)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(domain.Position{X: x, Y: y})
		}
	}
}

func invalid(format string, args ...any) error {
	return errx.ErrScenario.WithCause(fmt.Errorf(format, args...))
}
