package scene

import (
	"scene-editor/core"
	"scene-editor/math"
)

// Renderable is anything the pipeline can visit. Objects that also
// implement MeshProvider get drawn; everything else (cameras, lights) is
// silently skipped.
type Renderable interface {
	// ID is stable for the object's lifetime; the renderer keys GPU
	// resources on it.
	ID() uint64
	Transform() core.Transform
	// Component returns a named component ("material") or nil.
	Component(name string) any
}

// MeshProvider supplies geometry for a renderable.
type MeshProvider interface {
	MeshData() *MeshData
	EdgeData() *EdgeData
}

// Entity is a scene object: a transform plus optional mesh geometry and a
// material component.
type Entity struct {
	Name     string
	Visible  bool
	Local    core.Transform
	Mesh     *MeshData
	Material *Material
	DirLight *Light

	id    uint64
	edges *EdgeData
}

var entityIDCounter uint64

func NewEntity(name string) *Entity {
	entityIDCounter++
	return &Entity{
		Name:    name,
		Visible: true,
		Local:   core.NewTransform(),
		id:      entityIDCounter,
	}
}

func (e *Entity) ID() uint64 { return e.id }

func (e *Entity) Transform() core.Transform { return e.Local }

func (e *Entity) Component(name string) any {
	if name == "material" && e.Material != nil {
		return e.Material
	}
	return nil
}

func (e *Entity) MeshData() *MeshData { return e.Mesh }

// EdgeData lazily extracts unique triangle edges on first request.
func (e *Entity) EdgeData() *EdgeData {
	if e.Mesh == nil {
		return nil
	}
	if e.edges == nil {
		e.edges = ExtractEdges(e.Mesh)
	}
	return e.edges
}

// Scene holds the entity list, the active camera, and lighting. It is the
// renderable source and the light aggregator the pipeline consumes.
type Scene struct {
	Entities []*Entity
	Camera   *Camera
	Ambient  core.Color
	SkyColor core.Color
}

func NewScene() *Scene {
	return &Scene{
		Ambient:  core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1.0},
		SkyColor: core.Color{R: 0.16, G: 0.17, B: 0.2, A: 1.0},
	}
}

func (s *Scene) AddEntity(e *Entity) {
	s.Entities = append(s.Entities, e)
}

func (s *Scene) RemoveEntity(e *Entity) {
	for i, ent := range s.Entities {
		if ent == e {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return
		}
	}
}

// Renderables returns all visible entities in insertion order.
func (s *Scene) Renderables() []Renderable {
	out := make([]Renderable, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// ActiveLights returns the enabled directional lights, in entity order.
// Directions were normalized when the lights were configured.
func (s *Scene) ActiveLights() []Light {
	var lights []Light
	for _, e := range s.Entities {
		if e.DirLight != nil && e.DirLight.Enabled {
			lights = append(lights, *e.DirLight)
		}
	}
	return lights
}

func (s *Scene) AmbientColor() core.Color {
	return s.Ambient
}

// AddDirectionalLight adds a light entity pointing along the direction
// derived from the given Euler rotation in degrees.
func (s *Scene) AddDirectionalLight(name string, rotationDeg math.Vec3, color core.Color) *Entity {
	e := NewEntity(name)
	e.Local.Rotation = rotationDeg
	e.DirLight = &Light{
		Direction: LightDirection(rotationDeg),
		Color:     color,
		Enabled:   true,
	}
	s.AddEntity(e)
	return e
}
