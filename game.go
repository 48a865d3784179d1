package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/ecs/system"
	"github.com/milk9111/tilephys/prefabs"
	"github.com/milk9111/tilephys/scene"
	"golang.design/x/clipboard"
)

const (
	defaultLevel = "playground"

	nudgeSpeed = 60
	jumpSpeed  = 700
)

var background = color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff}

type Game struct {
	frames int

	scene    *scene.Scene
	lib      *prefabs.Library
	cfg      config.Physics
	log      *slog.Logger
	overlay  *system.DebugOverlay
	settings *settingsStore
	watchers []*prefabs.Watcher
	ui       *ebitenui.UI

	paused   bool
	step     bool
	selected ecs.Entity

	clipboardOK bool
	status      string
	statusUntil time.Time
}

// NewGame loads a level. An empty name resumes the last level viewed.
func NewGame(levelName string, lib *prefabs.Library, cfg config.Physics, log *slog.Logger) (*Game, error) {
	g := &Game{
		lib:      lib,
		cfg:      cfg,
		log:      log,
		overlay:  system.NewDebugOverlay(),
		settings: openSettings(),
	}
	if saved, ok := g.settings.load(); ok {
		saved.apply(g.overlay)
		if levelName == "" {
			levelName = saved.Level
		}
	}
	if levelName == "" {
		levelName = defaultLevel
	}

	sc, err := scene.Load(levelName, lib, cfg, log)
	if err != nil {
		return nil, err
	}
	g.scene = sc
	sc.Sim.Fatal = func(msg string) {
		g.paused = true
		g.setStatus("halted: " + msg)
		log.Error("simulation halted", "reason", msg)
	}

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboardOK = true
	}

	g.ui = NewPanelUI(g)
	return g, nil
}

// Watch starts reloading from the given directories. Directories that do
// not exist on disk are skipped.
func (g *Game) Watch(dirs ...string) {
	for _, dir := range dirs {
		w, err := prefabs.NewWatcher(dir)
		if err != nil {
			g.log.Debug("not watching", "dir", dir, "err", err)
			continue
		}
		g.watchers = append(g.watchers, w)
	}
}

func (g *Game) Close() {
	for _, w := range g.watchers {
		if err := w.Close(); err != nil {
			g.log.Warn("closing watcher", "err", err)
		}
	}
	g.settings.save(settingsFrom(g.scene.Name, g.overlay))
}

func (g *Game) Update() error {
	g.frames++
	g.ui.Update()
	g.drainWatchers()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.settings.save(settingsFrom(g.scene.Name, g.overlay))
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.stepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.selectNext()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyDump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reloadLevel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.overlay.Zoom *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.overlay.Zoom > 0.25 {
		g.overlay.Zoom /= 2
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx < common.BaseWidth-panelWidth {
			x := int(float64(mx)/g.overlay.Zoom + g.overlay.CamX)
			y := int(float64(my)/g.overlay.Zoom + g.overlay.CamY)
			if e, ok := g.scene.EntityAt(x, y); ok {
				g.selected = e
			}
		}
	}
	g.controlSelected()
	g.follow()

	if !g.paused || g.step {
		g.scene.Tick()
		g.step = false
	}
	return nil
}

func (g *Game) drainWatchers() {
	for _, w := range g.watchers {
	drain:
		for {
			select {
			case name, ok := <-w.Events:
				if !ok {
					break drain
				}
				if err := g.scene.HandleFileChange(name); err != nil {
					g.log.Warn("reload failed", "file", name, "err", err)
					g.setStatus("reload failed: " + err.Error())
				}
			case err, ok := <-w.Errors:
				if !ok {
					break drain
				}
				g.log.Warn("watch error", "err", err)
			default:
				break drain
			}
		}
	}
}

// controlSelected lets the arrow keys and space drive the selected entity.
func (g *Game) controlSelected() {
	w := g.scene.Sim.World
	if !g.selected.Valid() || !ecs.IsAlive(w, g.selected) {
		g.selected = 0
		return
	}
	vel, ok := ecs.Get(w, g.selected, component.VelocityComponent)
	if !ok {
		return
	}
	tr, _ := ecs.Get(w, g.selected, component.TransformComponent)
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		vel.X -= nudgeSpeed
		if tr != nil {
			tr.FaceLeft = true
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		vel.X += nudgeSpeed
		if tr != nil {
			tr.FaceLeft = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if st, _ := system.IsStanding(g.scene.Sim, g.selected); st != system.NotStanding {
			vel.Y = -jumpSpeed
		}
	}
}

// follow centers the camera on the selection.
func (g *Game) follow() {
	if !g.selected.Valid() {
		return
	}
	tr, ok := ecs.Get(g.scene.Sim.World, g.selected, component.TransformComponent)
	if !ok {
		return
	}
	viewW := float64(common.BaseWidth-panelWidth) / g.overlay.Zoom
	viewH := float64(common.BaseHeight) / g.overlay.Zoom
	g.overlay.CamX = float64(tr.PixelX()) - viewW/2
	g.overlay.CamY = float64(tr.PixelY()) - viewH/2
}

func (g *Game) togglePause() {
	g.paused = !g.paused
}

func (g *Game) stepOnce() {
	g.paused = true
	g.step = true
}

func (g *Game) selectNext() {
	ents := g.scene.Entities()
	if len(ents) == 0 {
		g.selected = 0
		return
	}
	next := ents[0]
	for i, e := range ents {
		if e == g.selected && i+1 < len(ents) {
			next = ents[i+1]
			break
		}
	}
	g.selected = next
}

func (g *Game) copyDump() {
	if !g.selected.Valid() {
		g.setStatus("nothing selected")
		return
	}
	dump := system.DebugSolidityDump(g.scene.Sim, g.selected)
	if !g.clipboardOK {
		g.log.Info("solidity dump", "dump", dump)
		g.setStatus("clipboard unavailable; dump logged")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(dump))
	g.setStatus("solidity dump copied")
}

func (g *Game) reloadLevel() {
	sc, err := scene.Load(g.scene.Name, g.lib, g.cfg, g.log)
	if err != nil {
		g.setStatus("reload failed: " + err.Error())
		return
	}
	sc.Sim.Fatal = g.scene.Sim.Fatal
	g.scene = sc
	g.selected = 0
	g.setStatus("level reloaded")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(3 * time.Second)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.overlay.Draw(g.scene.Sim, screen)

	line := fmt.Sprintf("%s  tick %d  FPS %.1f", g.scene.Name, g.scene.Ticks, ebiten.ActualFPS())
	if g.paused {
		line += "  [paused]"
	}
	if g.selected.Valid() {
		st, _ := system.IsStanding(g.scene.Sim, g.selected)
		line += fmt.Sprintf("\nselected %v: %s", g.selected, st)
	}
	if g.status != "" && time.Now().Before(g.statusUntil) {
		line += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, line)

	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

