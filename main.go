package main

import (
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/cellfill/config"
	"github.com/milk9111/cellfill/project"
	"github.com/milk9111/cellfill/script"
)

func main() {
	projectPath := flag.String("project", "", "project file to open; defaults to the embedded sample")
	imagePath := flag.String("image", "", "create a new project by converting this image")
	maxDim := flag.Int("max-dim", 120, "longest side of a converted grid, in cells")
	maxColors := flag.Int("max-colors", 24, "palette size cap for a converted image")
	configPath := flag.String("config", "cellfill.yaml", "config file (hot-reloaded)")
	scriptPath := flag.String("script", "", "tengo replay script to run")
	dataDir := flag.String("data", defaultDataDir(), "directory for saved projects")
	debug := flag.Bool("debug", false, "show FPS and gesture state")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	proj, err := openProject(*projectPath, *imagePath, *maxDim, *maxColors)
	if err != nil {
		log.Fatalf("project: %v", err)
	}

	var player *script.Player
	if *scriptPath != "" {
		player, err = script.Load(*scriptPath)
		if err != nil {
			log.Fatalf("script %s: %v", *scriptPath, err)
		}
	}

	store := project.NewStore(*dataDir, time.Duration(cfg.DebounceMS)*time.Millisecond)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("cellfill")

	game := NewGame(cfg, *configPath, proj, store, player, *debug)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// openProject resolves the startup project: an explicit file, a saved
// project for a converted image, or the embedded sample.
func openProject(projectPath, imagePath string, maxDim, maxColors int) (*project.Project, error) {
	switch {
	case projectPath != "":
		return project.Load(projectPath)
	case imagePath != "":
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		return project.FromImage(name, img, maxDim, maxColors)
	default:
		return project.LoadSample("rings")
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "projects"
	}
	return filepath.Join(dir, "cellfill", "projects")
}
