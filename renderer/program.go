package renderer

import (
	"fmt"

	"scene-editor/gfx"
	"scene-editor/math"
)

// Attribute names the mesh cache binds by; programs that do not declare an
// attribute simply skip it.
const (
	attrPosition = "aPosition"
	attrNormal   = "aNormal"
	attrTexCoord = "aTexCoord"
)

// builtinUniforms is every uniform either built-in program may declare.
// Locations are resolved once at compile; names a program does not declare
// resolve to -1 and uploads to them are dropped.
var builtinUniforms = []string{
	"uViewProj",
	"uModel",
	"uNormalMat",
	"uCameraPos",
	"uLightDirs[0]",
	"uLightColors[0]",
	"uLightCount",
	"uAmbient",
	"uBaseColor",
	"uMetallic",
	"uRoughness",
	"uEmission",
	"uEmissionStrength",
}

// AttribLocator resolves vertex attribute locations by name. The mesh
// caches use it when wiring buffers, so built-in and custom programs share
// one upload path.
type AttribLocator interface {
	AttribLoc(name string) int32
}

// uniformSink is the named-uniform upload surface shared by the built-in
// Program type and the adapter over custom shader assets. Every setter
// drops the write when the target does not declare the name.
type uniformSink interface {
	AttribLocator
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, x, y float32)
	SetVec3(name string, x, y, z float32)
	SetVec4(name string, x, y, z, w float32)
	SetVec3Array(name string, count int32, data []float32)
	SetMat3Raw(name string, m [9]float32)
	SetMat4Raw(name string, m [16]float32)
}

// Program is a compiled+linked GPU program with its uniform and attribute
// locations cached at compile time; locations are never re-queried per draw.
type Program struct {
	ctx      gfx.Context
	name     string
	handle   gfx.Program
	uniforms map[string]int32
	attribs  map[string]int32
}

// newProgram compiles and links the given sources and resolves the location
// of every name in uniformNames. A compile or link failure is fatal for
// this program only; the returned error carries the driver log.
func newProgram(ctx gfx.Context, name, vertSrc, fragSrc string, uniformNames []string) (*Program, error) {
	handle, err := ctx.CompileProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}

	p := &Program{
		ctx:      ctx,
		name:     name,
		handle:   handle,
		uniforms: make(map[string]int32, len(uniformNames)),
		attribs:  make(map[string]int32, 3),
	}
	for _, u := range uniformNames {
		p.uniforms[u] = ctx.UniformLocation(handle, u)
	}
	for _, a := range []string{attrPosition, attrNormal, attrTexCoord} {
		p.attribs[a] = ctx.AttribLocation(handle, a)
	}
	return p, nil
}

// NewDefaultProgram compiles the built-in Lambertian program.
func NewDefaultProgram(ctx gfx.Context) (*Program, error) {
	return newProgram(ctx, "default", builtinVertSrc, defaultFragSrc, builtinUniforms)
}

// NewPBRProgram compiles the built-in Cook-Torrance program.
func NewPBRProgram(ctx gfx.Context) (*Program, error) {
	return newProgram(ctx, "pbr", builtinVertSrc, pbrFragSrc, builtinUniforms)
}

func (p *Program) Name() string        { return p.name }
func (p *Program) Handle() gfx.Program { return p.handle }

// Ready reports whether the program compiled and has not been disposed.
func (p *Program) Ready() bool { return p != nil && p.handle != 0 }

func (p *Program) Use() {
	if p.handle != 0 {
		p.ctx.UseProgram(p.handle)
	}
}

// Dispose deletes the GPU program. Idempotent.
func (p *Program) Dispose() {
	if p.handle != 0 {
		p.ctx.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// UniformLoc returns the cached location for name, or -1.
func (p *Program) UniformLoc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// AttribLoc returns the cached attribute location for name, or -1.
func (p *Program) AttribLoc(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

// Typed upload helpers. All of them drop the write when the program does
// not declare the uniform.

func (p *Program) SetInt(name string, v int32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, x, y float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform2f(loc, x, y)
	}
}

func (p *Program) SetVec3(name string, x, y, z float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform3f(loc, x, y, z)
	}
}

func (p *Program) SetVec4(name string, x, y, z, w float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform4f(loc, x, y, z, w)
	}
}

func (p *Program) SetVec3Array(name string, count int32, data []float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.Uniform3fv(loc, count, data)
	}
}

func (p *Program) SetMat3(name string, m math.Mat3) {
	p.SetMat3Raw(name, m.Flatten())
}

func (p *Program) SetMat4(name string, m math.Mat4) {
	p.SetMat4Raw(name, m.Flatten())
}

func (p *Program) SetMat3Raw(name string, m [9]float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.UniformMatrix3(loc, m)
	}
}

func (p *Program) SetMat4Raw(name string, m [16]float32) {
	if loc := p.UniformLoc(name); loc >= 0 {
		p.ctx.UniformMatrix4(loc, m)
	}
}
