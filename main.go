package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/prefabs"
)

func main() {
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional) or a .tmx path")
	configPath := flag.String("config", "tilephys.yaml", "physics config file")
	editor := flag.Bool("editor", false, "freeze colliding entities instead of failing")
	watch := flag.Bool("watch", true, "reload prefabs, scripts and levels when they change on disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *editor {
		cfg.Editor = true
	}
	logger := cfg.NewLogger(os.Stderr)

	lib, err := prefabs.LoadLibrary(nil)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("tilephys")

	game, err := NewGame(*levelName, lib, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if *watch {
		game.Watch("prefabs", "prefabs/scripts", "levels")
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
