package system

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/prefabs"
)

// EventProcess is dispatched to every scripted entity once per tick,
// before its physics events.
const EventProcess = "process"

var handlerPattern = regexp.MustCompile(`(?m)^\s*on_([a-z0-9_]+)\s*:?=\s*func`)

// ScriptSystem drains the world event queue and runs the on_<event>
// handlers of each addressed entity's tengo script. Handlers only set
// intents through the engine map; they cannot move anything.
type ScriptSystem struct {
	sim *Sim

	// Load reads a script by path. It defaults to the embedded scripts.
	Load func(path string) ([]byte, error)
	// OnEvent, when set, sees every drained event.
	OnEvent func(ecs.Event)

	cache map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	handlers map[string]bool
}

func NewScriptSystem(s *Sim) *ScriptSystem {
	return &ScriptSystem{sim: s, Load: prefabs.LoadScript, cache: map[ecs.Entity]*scriptRuntime{}}
}

// Forget drops compiled scripts loaded from path so the next event
// recompiles them. An empty path drops every script.
func (ss *ScriptSystem) Forget(path string) {
	for e, rt := range ss.cache {
		if path == "" || rt.path == path {
			delete(ss.cache, e)
		}
	}
}

func (ss *ScriptSystem) Update(w *ecs.World) {
	if ss == nil || ss.sim == nil || w == nil {
		return
	}
	for e := range ss.cache {
		if !ecs.IsAlive(w, e) {
			delete(ss.cache, e)
		}
	}

	ecs.ForEach(w, component.ScriptComponent, func(e ecs.Entity, sc *component.Script) {
		ss.dispatch(e, sc, ecs.Event{Type: EventProcess, Entity: e})
	})

	for _, evt := range w.Events().Drain() {
		if ss.OnEvent != nil {
			ss.OnEvent(evt)
		}
		if !ecs.IsAlive(w, evt.Entity) {
			continue
		}
		if sc, ok := ecs.Get(w, evt.Entity, component.ScriptComponent); ok {
			ss.dispatch(evt.Entity, sc, evt)
		}
	}
}

func (ss *ScriptSystem) dispatch(e ecs.Entity, sc *component.Script, evt ecs.Event) {
	log := ss.sim.Log
	rt, err := ss.runtime(e, sc.Path)
	if err != nil {
		log.Warn("script load failed", "entity", e, "script", sc.Path, "err", err)
		return
	}
	if !rt.handlers[evt.Type] {
		return
	}
	if err := rt.run(evt, ss.engine(e)); err != nil {
		log.Warn("script handler failed", "entity", e, "event", evt.Type, "err", err)
	}
}

func (ss *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if rt, ok := ss.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("script: empty path")
	}
	src, err := ss.Load(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	rt, err := compileScript(path, src)
	if err != nil {
		return nil, err
	}
	ss.cache[e] = rt
	return rt, nil
}

// compileScript appends a dispatcher calling each on_<event> function the
// source defines.
func compileScript(path string, src []byte) (*scriptRuntime, error) {
	handlers := map[string]bool{}
	for _, m := range handlerPattern.FindAllSubmatch(src, -1) {
		handlers[string(m[1])] = true
	}
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.Write(src)
	b.WriteString("\n")
	for _, name := range names {
		fmt.Fprintf(&b, "if __event.type == %q { on_%s(__engine, __event, __state) }\n", name, name)
	}

	script := tengo.NewScript([]byte(b.String()))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__event", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	return &scriptRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		handlers: handlers,
	}, nil
}

func (rt *scriptRuntime) run(evt ecs.Event, engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__event", eventObject(evt)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func eventObject(evt ecs.Event) *tengo.ImmutableMap {
	v := map[string]tengo.Object{
		"type":   &tengo.String{Value: evt.Type},
		"entity": &tengo.Int{Value: int64(evt.Entity.ID())},
	}
	if data, ok := evt.Data.(CollisionEvent); ok {
		v["collide_with"] = &tengo.Int{Value: int64(data.CollideWith.ID())}
		v["area"] = &tengo.String{Value: data.Area}
		v["collide_with_area"] = &tengo.String{Value: data.CollideWithArea}
		v["friction"] = &tengo.Int{Value: int64(data.Friction)}
		v["traction"] = &tengo.Int{Value: int64(data.Traction)}
		v["surface_damage"] = &tengo.Int{Value: int64(data.Damage)}
		v["surface_info"] = &tengo.String{Value: data.SurfaceInfo}
		v["index"] = &tengo.Int{Value: int64(data.Index)}
		v["jumped_on_by"] = &tengo.Int{Value: int64(data.JumpedOnBy.ID())}
	}
	return &tengo.ImmutableMap{Value: v}
}

func intArg(args []tengo.Object, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	return tengo.ToInt(args[i])
}

// engine exposes the intents a handler may set on its entity.
func (ss *ScriptSystem) engine(e ecs.Entity) *tengo.ImmutableMap {
	s := ss.sim
	w := s.World
	values := map[string]tengo.Object{}

	values["set_walk_stairs"] = &tengo.UserFunction{Name: "set_walk_stairs", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, ok := intArg(args, 0)
		if !ok {
			return tengo.FalseValue, nil
		}
		st, err := ensure(w, e, component.MovementStateComponent)
		if err != nil {
			return nil, err
		}
		st.WalkStairs = n
		return tengo.TrueValue, nil
	}}

	values["fall_through"] = &tengo.UserFunction{Name: "fall_through", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, ok := intArg(args, 0)
		if !ok || n < 0 {
			return tengo.FalseValue, nil
		}
		st, err := ensure(w, e, component.MovementStateComponent)
		if err != nil {
			return nil, err
		}
		st.FallThrough = n
		return tengo.TrueValue, nil
	}}

	values["set_underwater"] = &tengo.UserFunction{Name: "set_underwater", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		st, err := ensure(w, e, component.MovementStateComponent)
		if err != nil {
			return nil, err
		}
		st.Underwater = !args[0].IsFalsy()
		return tengo.TrueValue, nil
	}}

	values["set_accel"] = &tengo.UserFunction{Name: "set_accel", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, okX := intArg(args, 0)
		y, okY := intArg(args, 1)
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		acc, err := ensure(w, e, component.AccelerationComponent)
		if err != nil {
			return nil, err
		}
		acc.X, acc.Y = x, y
		return tengo.TrueValue, nil
	}}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, err := ensure(w, e, component.VelocityComponent)
		if err != nil {
			return nil, err
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Int{Value: int64(v.X)}, &tengo.Int{Value: int64(v.Y)}}}, nil
	}}

	values["standing"] = &tengo.UserFunction{Name: "standing", Value: func(args ...tengo.Object) (tengo.Object, error) {
		st, _ := IsStanding(s, e)
		return &tengo.String{Value: st.String()}, nil
	}}

	values["set_solid_dimensions"] = &tengo.UserFunction{Name: "set_solid_dimensions", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var names []string
		for _, arg := range args {
			if name, ok := tengo.ToString(arg); ok {
				names = append(names, name)
			}
		}
		ok, err := SetSolidDimensions(s, e, names)
		if err != nil {
			return nil, err
		}
		if !ok {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			str, _ := tengo.ToString(arg)
			parts = append(parts, str)
		}
		s.Log.Info(strings.Join(parts, " "), "entity", e)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
