// Package shadered is the shader-editing service: it owns custom shader
// assets, compiles them against the live graphics context, and hands the
// renderer compiled programs with cached locations. It also keeps the
// registry of named materials the editor assigns to objects.
package shadered

import (
	"fmt"
	"log/slog"
	"sort"

	"scene-editor/gfx"
	"scene-editor/scene"
)

// Asset is one custom shader: sources plus the uniforms it declares for
// material editing. The declared defaults apply when a material supplies
// no value of the matching type.
type Asset struct {
	Name        string
	VertexSrc   string
	FragmentSrc string
	Uniforms    []scene.UniformDecl
}

type compiled struct {
	asset    Asset
	program  gfx.Program
	uniforms map[string]int32
	attribs  map[string]int32
}

// Service compiles and caches custom shader assets. Not thread-safe; it
// lives on the render thread with the context it compiles against.
type Service struct {
	ctx       gfx.Context
	log       *slog.Logger
	assets    map[string]*compiled
	materials map[string]*scene.Material
}

func NewService(ctx gfx.Context) *Service {
	return &Service{
		ctx:       ctx,
		log:       slog.Default(),
		assets:    make(map[string]*compiled),
		materials: make(map[string]*scene.Material),
	}
}

// Define compiles the asset and makes it available under its name. On a
// recompile of an existing name, the previous program stays live until the
// new one links; a failed edit keeps the last good program and returns the
// driver log in the error.
func (s *Service) Define(a Asset) error {
	if a.Name == "" {
		return fmt.Errorf("shader asset needs a name")
	}
	prog, err := s.ctx.CompileProgram(a.VertexSrc, a.FragmentSrc)
	if err != nil {
		s.log.Warn("shader asset failed to compile", "asset", a.Name, "err", err)
		return fmt.Errorf("shader %q: %w", a.Name, err)
	}

	if old, ok := s.assets[a.Name]; ok {
		s.ctx.DeleteProgram(old.program)
	}
	s.assets[a.Name] = &compiled{
		asset:    a,
		program:  prog,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}
	s.log.Info("shader asset compiled", "asset", a.Name, "uniforms", len(a.Uniforms))
	return nil
}

// Remove deletes an asset and its GPU program. Unknown names are a no-op.
func (s *Service) Remove(name string) {
	c, ok := s.assets[name]
	if !ok {
		return
	}
	s.ctx.DeleteProgram(c.program)
	delete(s.assets, name)
}

// Assets lists the defined asset names, sorted.
func (s *Service) Assets() []string {
	names := make([]string, 0, len(s.assets))
	for n := range s.assets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Asset returns the stored definition for name.
func (s *Service) Asset(name string) (Asset, bool) {
	c, ok := s.assets[name]
	if !ok {
		return Asset{}, false
	}
	return c.asset, true
}

// Program returns the compiled program for an asset.
func (s *Service) Program(name string) (gfx.Program, bool) {
	c, ok := s.assets[name]
	if !ok {
		return 0, false
	}
	return c.program, true
}

// UniformLocation returns the location of a uniform in the asset's
// program, querying the driver once per name and caching the result.
// Unknown assets and undeclared names resolve to -1.
func (s *Service) UniformLocation(asset, name string) int32 {
	c, ok := s.assets[asset]
	if !ok {
		return -1
	}
	if loc, ok := c.uniforms[name]; ok {
		return loc
	}
	loc := s.ctx.UniformLocation(c.program, name)
	c.uniforms[name] = loc
	return loc
}

// AttribLocation is the attribute counterpart of UniformLocation.
func (s *Service) AttribLocation(asset, name string) int32 {
	c, ok := s.assets[asset]
	if !ok {
		return -1
	}
	if loc, ok := c.attribs[name]; ok {
		return loc
	}
	loc := s.ctx.AttribLocation(c.program, name)
	c.attribs[name] = loc
	return loc
}

// DeclaredUniforms lists the uniforms the asset declares, in declaration
// order. Nil for unknown assets.
func (s *Service) DeclaredUniforms(asset string) []scene.UniformDecl {
	c, ok := s.assets[asset]
	if !ok {
		return nil
	}
	return c.asset.Uniforms
}

// RegisterMaterial stores a named material. Re-registering a name replaces
// the previous material.
func (s *Service) RegisterMaterial(m *scene.Material) {
	if m == nil || m.Name == "" {
		return
	}
	s.materials[m.Name] = m
}

// Material returns a registered material by name.
func (s *Service) Material(name string) (*scene.Material, bool) {
	m, ok := s.materials[name]
	return m, ok
}

// Materials lists registered material names, sorted.
func (s *Service) Materials() []string {
	names := make([]string, 0, len(s.materials))
	for n := range s.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispose deletes every compiled program and drops the assets. The
// material registry survives; materials hold no GPU state.
func (s *Service) Dispose() {
	for name, c := range s.assets {
		s.ctx.DeleteProgram(c.program)
		delete(s.assets, name)
	}
}
