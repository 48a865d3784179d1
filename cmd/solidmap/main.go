// Command solidmap shows a level's solidity in the terminal. Each cell
// covers a square of pixels: '#' holds a solid pixel, '=' only stand-only
// pixels, and letters mark objects by type.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/ecs/system"
	"github.com/milk9111/tilephys/prefabs"
	"github.com/milk9111/tilephys/scene"
)

var (
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleSolid  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStand  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleObject = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCursor = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

type inspector struct {
	screen  tcell.Screen
	scene   *scene.Scene
	cell    int
	camX    int
	camY    int
	curX    int
	curY    int
	playing bool
	dump    []string
}

func main() {
	levelName := flag.String("level", "playground", "level name or .tmx path")
	configPath := flag.String("config", "tilephys.yaml", "physics config file")
	cell := flag.Int("cell", 8, "pixels per terminal cell")
	logPath := flag.String("log", "", "write the simulation log to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	// The terminal belongs to tcell, so logs go to a file or nowhere.
	logOut, err := openLog(*logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logOut.Close()

	lib, err := prefabs.LoadLibrary(nil)
	if err != nil {
		log.Fatal(err)
	}
	sc, err := scene.Load(*levelName, lib, cfg, cfg.NewLogger(logOut))
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	in := &inspector{screen: screen, scene: sc, cell: max(*cell, 1)}
	in.run()
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.Open(os.DevNull)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func (in *inspector) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := in.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	in.draw()
	for {
		select {
		case ev := <-events:
			if !in.handle(ev) {
				return
			}
			in.draw()
		case <-ticker.C:
			if in.playing {
				in.scene.Tick()
				in.draw()
			}
		}
	}
}

func (in *inspector) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			in.curX--
		case tcell.KeyRight:
			in.curX++
		case tcell.KeyUp:
			in.curY--
		case tcell.KeyDown:
			in.curY++
		case tcell.KeyEnter:
			in.inspect()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				in.playing = !in.playing
			case 'n':
				in.playing = false
				in.scene.Tick()
			case 'h':
				in.camX -= in.cell * 4
			case 'l':
				in.camX += in.cell * 4
			case 'k':
				in.camY -= in.cell * 4
			case 'j':
				in.camY += in.cell * 4
			}
		}
	case *tcell.EventResize:
		in.screen.Sync()
	}
	return true
}

// inspect dumps the object under the cursor, or the solidity of the
// pixel there when no object covers it.
func (in *inspector) inspect() {
	x, y := in.camX+in.curX*in.cell, in.camY+in.curY*in.cell
	if e, ok := in.scene.EntityAt(x, y); ok {
		in.dump = strings.Split(strings.TrimRight(system.DebugSolidityDump(in.scene.Sim, e), "\n"), "\n")
		return
	}
	solid, surf := in.scene.Sim.Level.SolidAt(x, y)
	line := "empty"
	if solid {
		line = "solid"
		if surf != nil {
			line += fmt.Sprintf(" %+v", *surf)
		}
	} else if ok, _ := in.scene.Sim.Level.StandableAt(x, y); ok {
		line = "stand-only"
	}
	in.dump = []string{line}
}

func (in *inspector) draw() {
	in.screen.Clear()
	w, h := in.screen.Size()
	mapRows := max(h-len(in.dump)-1, 1)
	rows := render(in.scene, in.camX, in.camY, w, mapRows, in.cell)
	for y, row := range rows {
		for x, r := range []rune(row) {
			in.screen.SetContent(x, y, r, nil, styleFor(r))
		}
	}
	in.curX = min(max(in.curX, 0), w-1)
	in.curY = min(max(in.curY, 0), mapRows-1)
	r, _, _, _ := in.screen.GetContent(in.curX, in.curY)
	in.screen.SetContent(in.curX, in.curY, r, nil, styleCursor)

	status := in.scene.Name + "  tick " + strconv.Itoa(in.scene.Ticks) + "  [space] play [n] step [enter] inspect [hjkl] pan [q] quit"
	in.text(0, mapRows, status)
	for i, line := range in.dump {
		in.text(0, mapRows+1+i, line)
	}
	in.screen.Show()
}

func (in *inspector) text(x, y int, s string) {
	for i, r := range []rune(s) {
		in.screen.SetContent(x+i, y, r, nil, styleText)
	}
}

func styleFor(r rune) tcell.Style {
	switch r {
	case '#':
		return styleSolid
	case '=':
		return styleStand
	case '.':
		return styleEmpty
	}
	return styleObject
}

// render returns rows of cells starting at pixel (x0, y0).
func render(sc *scene.Scene, x0, y0, cols, rows, cell int) []string {
	out := make([][]rune, rows)
	for cy := range out {
		out[cy] = make([]rune, cols)
		for cx := range out[cy] {
			out[cy][cx] = cellRune(sc, x0+cx*cell, y0+cy*cell, cell)
		}
	}
	ecs.ForEach2(sc.Sim.World, component.TransformComponent, component.AnimationComponent, func(e ecs.Entity, t *component.Transform, anim *component.Animation) {
		f := anim.Frame()
		if f == nil {
			return
		}
		mark := 'o'
		if anim.Type != "" {
			mark = []rune(anim.Type)[0]
		}
		x1 := common.FloorDiv(t.PixelX()-x0, cell)
		y1 := common.FloorDiv(t.PixelY()-y0, cell)
		x2 := common.FloorDiv(t.PixelX()+f.Width-1-x0, cell)
		y2 := common.FloorDiv(t.PixelY()+f.Height-1-y0, cell)
		for cy := max(y1, 0); cy <= min(y2, rows-1); cy++ {
			for cx := max(x1, 0); cx <= min(x2, cols-1); cx++ {
				out[cy][cx] = mark
			}
		}
	})
	lines := make([]string, rows)
	for i, r := range out {
		lines[i] = string(r)
	}
	return lines
}

func cellRune(sc *scene.Scene, x, y, cell int) rune {
	stand := false
	for py := y; py < y+cell; py++ {
		for px := x; px < x+cell; px++ {
			if ok, _ := sc.Sim.Level.SolidAt(px, py); ok {
				return '#'
			}
			if !stand {
				stand, _ = sc.Sim.Level.StandableAt(px, py)
			}
		}
	}
	if stand {
		return '='
	}
	return '.'
}
