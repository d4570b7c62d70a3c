package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"seehuhn.de/go/geom/matrix"

	"chosenoffset.com/lumen2d/internal/config"
	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render/lighting"
	"chosenoffset.com/lumen2d/internal/render/raster"
	"chosenoffset.com/lumen2d/internal/scene"
)

func main() {
	var (
		scenePath  = flag.String("scene", "data/room.json", "scene file")
		configPath = flag.String("config", "data/lighting.json", "lighting config file")
		output     = flag.String("output", "lightmap.png", "output file")
		shadowOut  = flag.String("shadowmap", "", "optional output file for the shadow map")
		scale      = flag.Float64("scale", 1, "pixels per world unit")
	)
	flag.Parse()

	if err := run(*scenePath, *configPath, *output, *shadowOut, *scale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scenePath, configPath, output, shadowOut string, scale float64) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.InstallLogger()

	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}

	log.Printf("Scene %s: %d lights, %d occluders", s.Name, s.Registry.Len(), len(s.Collector.Occluders()))

	pass := lighting.NewPass(cfg.Settings(), s.Registry, s.Collector)
	pass.Run(s.Camera)

	size := s.Camera.Max.Sub(s.Camera.Min).Mul(scale)
	canvas := raster.NewCanvas(int(size.X), int(size.Y))
	canvas.View = matrix.Matrix{scale, 0, 0, scale, -s.Camera.Min.X * scale, -s.Camera.Min.Y * scale}

	ambient := uint8(255 * s.Registry.AmbientLight())
	canvas.Fill(color.RGBA{ambient, ambient, ambient, 255})

	if sm := pass.ShadowMap(); sm != nil {
		var vol shadows.LightVolume
		for slot, l := range pass.Assigned() {
			sm.RowVolume(slot, l, &vol)
			canvas.FillVolume(&vol, l)
		}
	} else {
		for _, l := range s.Registry.Lights() {
			if vol := pass.Volume(l); vol != nil {
				canvas.FillVolume(vol, l)
			}
		}
	}
	canvas.StrokeEdges(pass.Edges(), 1, color.RGBA{90, 200, 255, 255})

	if err := raster.SavePNG(canvas.Image(), output); err != nil {
		return err
	}
	log.Printf("Wrote %s (%dx%d)", output, int(size.X), int(size.Y))

	for slot, l := range pass.Assigned() {
		log.Printf("slot %2d: %-12s %-6s id=%s", slot, l.Name, l.Kind, l.ID)
	}

	if sm := pass.ShadowMap(); sm != nil && shadowOut != "" {
		if err := raster.SavePNG(raster.ShadowMapImage(sm), shadowOut); err != nil {
			return err
		}
		log.Printf("Wrote %s", shadowOut)
	}
	return nil
}
