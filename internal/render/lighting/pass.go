package lighting

import (
	"context"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/logging"
)

// Settings configure a Pass.
type Settings struct {
	Technique           Technique
	ShadowMapResolution int // texels per shadow map row
	MaxShadowLights     int
	MinRayCount         int
	Convention          Convention
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Technique:           TechniqueMeshGeneration,
		ShadowMapResolution: 512,
		MaxShadowLights:     16,
		MinRayCount:         32,
		Convention:          ConventionVAxisMatchesClip,
	}
}

type volumeEntry struct {
	volume shadows.LightVolume
	frame  uint64
}

// Pass runs the per-frame light work: edge collection, culling, slot
// packing and then either light volumes or shader parameters with the
// shadow map. A Pass is single-writer; run one per camera at a time.
type Pass struct {
	settings  Settings
	registry  *Registry
	collector *shadows.Collector

	static  *shadows.EdgePool
	dynamic *shadows.EdgePool

	staticValid bool
	frame       uint64

	culling *CullingGroup
	slots   *SlotAllocator
	caster  *shadows.Caster

	volumes   map[*Light]*volumeEntry
	params    FrameParams
	shadowMap *ShadowMap
}

// NewPass creates a pass over registry and collector. Registered lights are
// validated for the configured technique.
func NewPass(settings Settings, registry *Registry, collector *shadows.Collector) *Pass {
	maxSlots := MaxSlots(settings.MaxShadowLights, settings.MaxShadowLights)
	if settings.Technique == TechniquePipeline {
		maxSlots = min(maxSlots, MaxVisibleLights)
	}

	registry.Validate(settings.Technique)

	p := &Pass{
		settings:  settings,
		registry:  registry,
		collector: collector,
		static:    shadows.NewEdgePool(256),
		dynamic:   shadows.NewEdgePool(512),
		culling:   NewCullingGroup(),
		slots:     NewSlotAllocator(maxSlots),
		caster:    shadows.NewCaster(),
		volumes:   make(map[*Light]*volumeEntry),
	}
	if settings.Technique != TechniqueMeshGeneration {
		p.shadowMap = NewShadowMap(settings.ShadowMapResolution, maxSlots)
	}

	logging.Logger().Info("light pass configured",
		"technique", settings.Technique.String(),
		"resolution", settings.ShadowMapResolution,
		"slots", maxSlots,
		"min_rays", settings.MinRayCount)
	return p
}

// Settings returns the settings the pass was created with.
func (p *Pass) Settings() Settings {
	return p.settings
}

// InvalidateStatic forces the static edge pool to be rebuilt on the next
// run, e.g. after static geometry was edited.
func (p *Pass) InvalidateStatic() {
	p.staticValid = false
}

// Run executes one frame for camera.
func (p *Pass) Run(camera Camera) {
	p.refreshStatic()
	p.collector.CollectDynamic(p.dynamic, p.static)
	p.render(camera)
}

// RunParallel is Run with edge collection spread over goroutines. The
// result is identical to Run.
func (p *Pass) RunParallel(ctx context.Context, camera Camera) error {
	p.refreshStatic()
	if err := p.collector.CollectDynamicParallel(ctx, p.dynamic, p.static); err != nil {
		return err
	}
	p.render(camera)
	return nil
}

func (p *Pass) refreshStatic() {
	if p.staticValid {
		return
	}
	p.collector.CollectStatic(p.static)
	p.staticValid = true
}

func (p *Pass) render(camera Camera) {
	p.frame++
	lights := p.registry.Lights()

	// Lights may be added or edited between frames.
	p.registry.Validate(p.settings.Technique)

	p.culling.Setup(camera, lights)
	assigned := p.slots.Pack(lights, p.culling)

	if p.settings.Technique == TechniqueMeshGeneration {
		p.buildVolumes(lights)
	} else {
		p.buildShadows(assigned)
	}

	logging.Logger().Debug("light pass complete",
		"frame", p.frame,
		"lights", len(lights),
		"culled", p.culling.Count(),
		"slotted", len(assigned),
		"edges", p.dynamic.Len())
}

func (p *Pass) buildVolumes(lights []*Light) {
	edges := p.dynamic.Edges()
	for _, l := range lights {
		if !p.culling.LightVisible(l) {
			continue
		}
		e, ok := p.volumes[l]
		if !ok {
			e = &volumeEntry{}
			p.volumes[l] = e
		}
		p.caster.Build(volumeParams(l, p.settings.MinRayCount), edges, &e.volume)
		e.frame = p.frame
	}

	for l, e := range p.volumes {
		if e.frame != p.frame && !p.registry.contains(l) {
			delete(p.volumes, l)
		}
	}
}

func (p *Pass) buildShadows(assigned []*Light) {
	p.params.reset(p.registry.AmbientLight())
	p.shadowMap.Clear()

	edges := p.dynamic.Edges()
	maxSlots := p.slots.MaxSlots()
	for slot, l := range assigned {
		p.params.Lights = append(p.params.Lights,
			ComputeParams(l, slot, maxSlots, p.settings.Technique, p.settings.Convention))
		p.shadowMap.WriteRow(slot, l, edges)
	}
	p.params.VisibleCount = len(assigned)
}

// Volume returns the light volume built for l this frame, or nil when l
// was not visible or the technique does not build volumes.
func (p *Pass) Volume(l *Light) *shadows.LightVolume {
	e, ok := p.volumes[l]
	if !ok || e.frame != p.frame {
		return nil
	}
	return &e.volume
}

// Params returns the shader parameters of the last frame.
func (p *Pass) Params() *FrameParams {
	return &p.params
}

// ShadowMap returns the slot-packed shadow map, or nil for mesh
// generation.
func (p *Pass) ShadowMap() *ShadowMap {
	return p.shadowMap
}

// Assigned returns the slotted lights of the last frame, indexed by slot.
func (p *Pass) Assigned() []*Light {
	return p.slots.Assigned()
}

// Culling returns the culling group of the last frame.
func (p *Pass) Culling() *CullingGroup {
	return p.culling
}

// Edges returns the dynamic edge pool of the last frame.
func (p *Pass) Edges() []shadows.Edge {
	return p.dynamic.Edges()
}
