package main

import (
	"flag"
	"log"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/demo"
	ebitenrender "chosenoffset.com/lumen2d/internal/render/ebiten"
	"chosenoffset.com/lumen2d/internal/scene"
)

func main() {
	scenePath := flag.String("scene", "data/room.json", "Scene file to load")
	configPath := flag.String("config", "data/lighting.json", "Lighting config file")
	flag.Parse()

	screenWidth := 1280
	screenHeight := 800

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.InstallLogger()

	log.Printf("Loading scene %s...", *scenePath)
	s, err := scene.Load(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	viewer := demo.New(renderer, inputMgr, s, cfg.Settings(), screenWidth, screenHeight)

	// Set up the window
	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("lumen2d - " + s.Name)
	engine.SetWindowResizable(true)

	log.Println("Starting demo...")
	if err := engine.RunGame(viewer); err != nil && err != demo.ErrQuit {
		log.Fatal(err)
	}
}
