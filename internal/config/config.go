// Package config provides the light pass configuration. It is loaded from
// a JSON file so each scene can tune its own shadow budget.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"chosenoffset.com/lumen2d/internal/logging"
	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// Config holds the lighting settings of a run
type Config struct {
	Technique           string `json:"technique"`             // mesh_generation, pipeline or lightmapping
	ShadowMapResolution int    `json:"shadow_map_resolution"` // texels per shadow map row
	MaxShadowLights     int    `json:"max_shadow_lights"`     // shadow map rows
	MinRayCount         int    `json:"min_ray_count"`         // base rays per light volume
	Backend             string `json:"backend"`               // decides the shadow map v-axis convention
	LogLevel            string `json:"log_level"`             // debug, info, warn or error
}

const (
	minResolution     = 16
	maxResolution     = 4096
	minRayCount       = 3
	maxPipelineLights = 31
	maxLightmapLights = 64
)

// DefaultConfig returns sensible defaults for a small top-down scene
func DefaultConfig() *Config {
	return &Config{
		Technique:           lighting.TechniqueMeshGeneration.String(),
		ShadowMapResolution: 512,
		MaxShadowLights:     16,
		MinRayCount:         32,
		Backend:             "opengl",
		LogLevel:            "info",
	}
}

// LoadConfig loads the config from a JSON file. A missing file yields the
// defaults; fields absent from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(err, "failed to read lighting config")
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse lighting config %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid lighting config %s", path)
	}
	return config, nil
}

// Validate rejects unknown names and clamps numeric settings to what the
// technique supports. Clamped values are logged.
func (c *Config) Validate() error {
	technique, ok := lighting.ParseTechnique(c.Technique)
	if !ok {
		return errors.Errorf("unknown technique %q", c.Technique)
	}
	if _, ok := conventions[strings.ToLower(c.Backend)]; !ok {
		return errors.Errorf("unknown backend %q", c.Backend)
	}

	res := clampPow2(c.ShadowMapResolution, minResolution, maxResolution)
	c.ShadowMapResolution = c.clamped("shadow_map_resolution", c.ShadowMapResolution, res)

	maxLights := maxLightmapLights
	if technique == lighting.TechniquePipeline {
		maxLights = min(maxPipelineLights, lighting.MaxVisibleLights)
	}
	c.MaxShadowLights = c.clamped("max_shadow_lights", c.MaxShadowLights,
		max(1, min(maxLights, c.MaxShadowLights)))
	c.MinRayCount = c.clamped("min_ray_count", c.MinRayCount, max(minRayCount, c.MinRayCount))
	return nil
}

func (c *Config) clamped(field string, was, now int) int {
	if was != now {
		logging.Logger().Warn("config value clamped", "field", field, "was", was, "now", now)
	}
	return now
}

// clampPow2 rounds n up to a power of two within [lo, hi].
func clampPow2(n, lo, hi int) int {
	p := lo
	for p < n && p < hi {
		p <<= 1
	}
	return p
}

var conventions = map[string]lighting.Convention{
	"opengl":  lighting.ConventionVAxisMatchesClip,
	"directx": lighting.ConventionVInverted,
	"metal":   lighting.ConventionVInverted,
	"vulkan":  lighting.ConventionVInverted,
	"ebiten":  lighting.ConventionVInverted,
}

// Settings converts the config to light pass settings. Call Validate
// first; unknown names fall back to the defaults.
func (c *Config) Settings() lighting.Settings {
	s := lighting.DefaultSettings()
	if t, ok := lighting.ParseTechnique(c.Technique); ok {
		s.Technique = t
	}
	if conv, ok := conventions[strings.ToLower(c.Backend)]; ok {
		s.Convention = conv
	}
	s.ShadowMapResolution = c.ShadowMapResolution
	s.MaxShadowLights = c.MaxShadowLights
	s.MinRayCount = c.MinRayCount
	return s
}

// InstallLogger points the library logger at a text handler on stderr
// with the configured level.
func (c *Config) InstallLogger() {
	logging.SetLogger(logging.NewTextLogger(os.Stderr, logging.ParseLevel(c.LogLevel)))
}
