package renderer

import (
	"fmt"
	"log/slog"

	"scene-editor/core"
	"scene-editor/gfx"
	"scene-editor/math"
	"scene-editor/scene"
)

// LightSource supplies the per-frame lighting state.
type LightSource interface {
	ActiveLights() []scene.Light
	AmbientColor() core.Color
}

// Scene is what the pipeline renders: an ordered renderable list plus the
// frame's lights. scene.Scene satisfies it.
type Scene interface {
	LightSource
	Renderables() []scene.Renderable
}

// Camera supplies the view transform for a frame.
type Camera interface {
	ViewProjectionMatrix() math.Mat4
	Position() math.Vec3
}

// ShaderService resolves custom shader assets by name. The shader editor
// owns compilation; the pipeline only binds the results and uploads values
// through the service's cached locations.
type ShaderService interface {
	// Program returns the compiled program for a shader asset, or false
	// when the asset does not exist or failed to compile.
	Program(asset string) (gfx.Program, bool)
	// UniformLocation and AttribLocation return the cached location of
	// name within the asset's program, or -1.
	UniformLocation(asset, name string) int32
	AttribLocation(asset, name string) int32
	// DeclaredUniforms lists the asset's declared uniforms with defaults.
	DeclaredUniforms(asset string) []scene.UniformDecl
}

// DrawStats counts the work of the last rendered frame.
type DrawStats struct {
	DrawCalls       int
	ProgramSwitches int
	Triangles       int
	EdgeSegments    int
	Skipped         int
}

// bound program state. The pipeline switches programs only when the next
// object resolves to a different one.
type boundKind int

const (
	boundNone boundKind = iota
	boundDefault
	boundPBR
	boundCustom
)

// Pipeline is the forward renderer: two built-in programs, GPU mesh caches
// keyed by object ID, and a per-frame light block. All methods must run on
// the thread that owns the GL context.
type Pipeline struct {
	ctx gfx.Context
	log *slog.Logger

	defaultProg *Program
	pbrProg     *Program
	shaders     ShaderService

	meshes *MeshCache
	edges  *EdgeCache

	clearColor  core.Color
	edgeOverlay bool
	edgeColor   core.Color

	inFrame  bool
	disposed bool
	camera   Camera
	viewProj math.Mat4
	ambient  core.Color
	lights   lightBlock

	bound      boundKind
	boundAsset string

	defaultMat *scene.Material
	stats      DrawStats
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithShaderService wires in custom shader resolution. Materials naming a
// shader asset render with it; without a service they fall back to the
// built-in programs.
func WithShaderService(s ShaderService) Option {
	return func(p *Pipeline) { p.shaders = s }
}

func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithClearColor sets the frame clear color.
func WithClearColor(c core.Color) Option {
	return func(p *Pipeline) { p.clearColor = c }
}

// WithEdgeOverlay draws each mesh's unique edges as lines after the solid
// pass, in the given color.
func WithEdgeOverlay(c core.Color) Option {
	return func(p *Pipeline) {
		p.edgeOverlay = true
		p.edgeColor = c
	}
}

// New compiles the built-in programs and sets up the caches. A compile or
// link failure of either built-in is fatal.
func New(ctx gfx.Context, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		ctx:        ctx,
		log:        slog.Default(),
		clearColor: core.Color{R: 0.16, G: 0.17, B: 0.2, A: 1},
		edgeColor:  core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		defaultMat: scene.DefaultMaterial(),
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.defaultProg, err = NewDefaultProgram(ctx); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if p.pbrProg, err = NewPBRProgram(ctx); err != nil {
		p.defaultProg.Dispose()
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p.meshes = NewMeshCache(ctx)
	p.edges = NewEdgeCache(ctx)

	p.log.Info("render pipeline ready",
		"default", p.defaultProg.Handle(),
		"pbr", p.pbrProg.Handle(),
	)
	return p, nil
}

// Stats returns the draw statistics of the frame being rendered, or of the
// last finished frame.
func (p *Pipeline) Stats() DrawStats { return p.stats }

// DefaultProgram and PBRProgram expose the built-in program handles, for
// editor tooling that inspects GPU state.
func (p *Pipeline) DefaultProgram() gfx.Program { return p.defaultProg.Handle() }
func (p *Pipeline) PBRProgram() gfx.Program     { return p.pbrProg.Handle() }

// Resize updates the viewport to the new drawable size.
func (p *Pipeline) Resize(width, height int32) {
	if p.disposed {
		return
	}
	p.ctx.Viewport(0, 0, width, height)
}

// SetClearColor changes the frame clear color.
func (p *Pipeline) SetClearColor(c core.Color) { p.clearColor = c }

// DisposeMesh drops the GPU resources cached for an object ID, forcing a
// re-upload on the next frame. Call it when an object's geometry changes
// or the object is deleted.
func (p *Pipeline) DisposeMesh(id uint64) {
	if p.disposed {
		return
	}
	p.meshes.Dispose(id)
	p.edges.Dispose(id)
}

// BeginFrame starts a frame: enables depth testing and backface culling,
// clears the targets, and latches the camera. No-op after Dispose.
func (p *Pipeline) BeginFrame(cam Camera) {
	if p.disposed || cam == nil {
		return
	}
	p.inFrame = true
	p.camera = cam
	p.viewProj = cam.ViewProjectionMatrix()
	p.bound = boundNone
	p.boundAsset = ""
	p.stats = DrawStats{}

	p.ctx.EnableDepthTest()
	p.ctx.EnableBackfaceCulling()
	p.ctx.ClearColor(p.clearColor.R, p.clearColor.G, p.clearColor.B, p.clearColor.A)
	p.ctx.Clear()
}

// EndFrame closes the frame. Render calls outside a BeginFrame/EndFrame
// pair are no-ops.
func (p *Pipeline) EndFrame() {
	p.inFrame = false
	p.camera = nil
}

// Dispose frees every GPU resource the pipeline owns. Idempotent; the
// pipeline is inert afterwards.
func (p *Pipeline) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.inFrame = false
	p.meshes.DisposeAll()
	p.edges.DisposeAll()
	p.defaultProg.Dispose()
	p.pbrProg.Dispose()
}

// Render draws the scene's renderables in order. The default program is
// bound first regardless of the first object's material; after that the
// pipeline switches programs only when an object resolves differently from
// the previous one, re-uploading per-frame uniforms on each switch. Objects
// whose resources fail to upload are skipped, never the frame.
func (p *Pipeline) Render(sc Scene) {
	if p.disposed || !p.inFrame || sc == nil {
		return
	}

	p.ambient = sc.AmbientColor()
	p.lights.pack(sc.ActiveLights())

	p.bindBuiltin(boundDefault)

	for _, r := range sc.Renderables() {
		mp, ok := r.(scene.MeshProvider)
		if !ok {
			continue
		}
		data := mp.MeshData()
		if data == nil {
			continue
		}

		mat := p.materialOf(r)
		kind, asset := p.resolve(mat)

		var sink uniformSink
		if kind == boundCustom {
			p.bindCustom(asset)
			sink = customSink{ctx: p.ctx, svc: p.shaders, asset: asset}
		} else {
			p.bindBuiltin(kind)
			if kind == boundPBR {
				sink = p.pbrProg
			} else {
				sink = p.defaultProg
			}
		}

		res, err := p.meshes.GetOrCreate(r.ID(), data, sink)
		if err != nil {
			p.log.Debug("skipping object", "id", r.ID(), "err", err)
			p.stats.Skipped++
			continue
		}

		model := r.Transform().Matrix()
		sink.SetMat4Raw("uModel", model.Flatten())
		sink.SetMat3Raw("uNormalMat", math.NormalMatrix(model).Flatten())

		if kind == boundCustom {
			p.uploadCustomUniforms(sink, mat, asset)
		} else {
			p.uploadMaterial(sink, mat)
		}

		p.ctx.BindVertexArray(res.VAO)
		p.ctx.DrawIndexed(gfx.Triangles, res.IndexCount)
		p.ctx.BindVertexArray(0)
		p.stats.DrawCalls++
		p.stats.Triangles += int(res.IndexCount / 3)
	}

	if p.edgeOverlay {
		p.renderEdges(sc)
	}
}

// renderEdges draws each mesh's unique edge list as lines with the default
// program, lighting disabled via a zero light count and full ambient.
func (p *Pipeline) renderEdges(sc Scene) {
	p.bindBuiltin(boundDefault)
	p.defaultProg.SetInt("uLightCount", 0)
	p.defaultProg.SetVec3("uAmbient", 1, 1, 1)
	p.defaultProg.SetVec4("uBaseColor", p.edgeColor.R, p.edgeColor.G, p.edgeColor.B, p.edgeColor.A)

	for _, r := range sc.Renderables() {
		mp, ok := r.(scene.MeshProvider)
		if !ok {
			continue
		}
		ed := mp.EdgeData()
		if ed == nil {
			continue
		}
		res, err := p.edges.GetOrCreate(r.ID(), ed, p.defaultProg)
		if err != nil {
			p.stats.Skipped++
			continue
		}
		p.defaultProg.SetMat4("uModel", r.Transform().Matrix())
		p.ctx.BindVertexArray(res.VAO)
		p.ctx.DrawArrays(gfx.Lines, 0, res.VertexCount)
		p.ctx.BindVertexArray(0)
		p.stats.DrawCalls++
		p.stats.EdgeSegments += int(res.VertexCount / 2)
	}

	// The overlay clobbered the default program's frame uniforms; force a
	// fresh bind and re-upload on the next draw.
	p.bound = boundNone
	p.boundAsset = ""
}

func (p *Pipeline) materialOf(r scene.Renderable) *scene.Material {
	if m, ok := r.Component("material").(*scene.Material); ok && m != nil {
		return m
	}
	return p.defaultMat
}

// resolve picks the program for a material: a resolvable custom asset wins
// over the built-in selection, and anything unrecognized falls back to the
// default program.
func (p *Pipeline) resolve(mat *scene.Material) (boundKind, string) {
	if mat.ShaderAsset != "" && p.shaders != nil {
		if _, ok := p.shaders.Program(mat.ShaderAsset); ok {
			return boundCustom, mat.ShaderAsset
		}
		p.log.Debug("custom shader unavailable, falling back", "asset", mat.ShaderAsset)
	}
	if mat.Shader == scene.ShaderPBR && p.pbrProg.Ready() {
		return boundPBR, ""
	}
	return boundDefault, ""
}

// bindBuiltin switches to a built-in program if it is not already bound,
// re-uploading the per-frame uniforms on a switch.
func (p *Pipeline) bindBuiltin(kind boundKind) {
	if p.bound == kind {
		return
	}
	prog := p.defaultProg
	if kind == boundPBR {
		prog = p.pbrProg
	}
	prog.Use()
	p.bound = kind
	p.boundAsset = ""
	p.stats.ProgramSwitches++
	p.uploadPerFrame(prog)
}

func (p *Pipeline) bindCustom(asset string) {
	if p.bound == boundCustom && p.boundAsset == asset {
		return
	}
	prog, _ := p.shaders.Program(asset)
	p.ctx.UseProgram(prog)
	p.bound = boundCustom
	p.boundAsset = asset
	p.stats.ProgramSwitches++
	p.uploadPerFrame(customSink{ctx: p.ctx, svc: p.shaders, asset: asset})
}

// uploadPerFrame writes the camera and light state shared by every object
// drawn with the bound program.
func (p *Pipeline) uploadPerFrame(sink uniformSink) {
	sink.SetMat4Raw("uViewProj", p.viewProj.Flatten())
	pos := p.camera.Position()
	sink.SetVec3("uCameraPos", pos.X, pos.Y, pos.Z)
	sink.SetVec3("uAmbient", p.ambient.R, p.ambient.G, p.ambient.B)
	p.lights.upload(sink)
}

// uploadMaterial writes the built-in material uniforms. The default program
// declares only uBaseColor; the PBR uniforms resolve to -1 there and are
// dropped by the sink.
func (p *Pipeline) uploadMaterial(sink uniformSink, mat *scene.Material) {
	sink.SetVec4("uBaseColor", mat.BaseColor.R, mat.BaseColor.G, mat.BaseColor.B, mat.BaseColor.A)
	sink.SetFloat("uMetallic", mat.Metallic)
	sink.SetFloat("uRoughness", mat.Roughness)
	sink.SetVec3("uEmission", mat.Emission.R, mat.Emission.G, mat.Emission.B)
	sink.SetFloat("uEmissionStrength", mat.EmissionStrength)
}

// uploadCustomUniforms writes the asset's declared uniforms, taking each
// value from the material's params and falling back to the declared
// default. Param entries whose type disagrees with the declaration are
// ignored in favor of the default.
func (p *Pipeline) uploadCustomUniforms(sink uniformSink, mat *scene.Material, asset string) {
	for _, decl := range p.shaders.DeclaredUniforms(asset) {
		v := decl.Default
		if pv, ok := mat.Params[decl.Name]; ok && pv.Type == decl.Type {
			v = pv
		}
		uploadValue(sink, decl.Name, v)
	}
}

// uploadValue dispatches a type-tagged value to the matching setter.
// Unknown types are silently skipped.
func uploadValue(sink uniformSink, name string, v scene.UniformValue) {
	d := v.Data
	switch v.Type {
	case scene.UniformFloat:
		sink.SetFloat(name, d[0])
	case scene.UniformInt:
		sink.SetInt(name, int32(d[0]))
	case scene.UniformBool:
		b := int32(0)
		if d[0] != 0 {
			b = 1
		}
		sink.SetInt(name, b)
	case scene.UniformVec2:
		sink.SetVec2(name, d[0], d[1])
	case scene.UniformVec3:
		sink.SetVec3(name, d[0], d[1], d[2])
	case scene.UniformVec4:
		sink.SetVec4(name, d[0], d[1], d[2], d[3])
	case scene.UniformMat3:
		var m [9]float32
		copy(m[:], d[:9])
		sink.SetMat3Raw(name, m)
	case scene.UniformMat4:
		sink.SetMat4Raw(name, d)
	}
}

// customSink adapts a shader asset in the ShaderService to the uniformSink
// surface, using the service's cached locations.
type customSink struct {
	ctx   gfx.Context
	svc   ShaderService
	asset string
}

func (s customSink) loc(name string) int32 {
	return s.svc.UniformLocation(s.asset, name)
}

func (s customSink) AttribLoc(name string) int32 {
	return s.svc.AttribLocation(s.asset, name)
}

func (s customSink) SetInt(name string, v int32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform1i(loc, v)
	}
}

func (s customSink) SetFloat(name string, v float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform1f(loc, v)
	}
}

func (s customSink) SetVec2(name string, x, y float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform2f(loc, x, y)
	}
}

func (s customSink) SetVec3(name string, x, y, z float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform3f(loc, x, y, z)
	}
}

func (s customSink) SetVec4(name string, x, y, z, w float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform4f(loc, x, y, z, w)
	}
}

func (s customSink) SetVec3Array(name string, count int32, data []float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.Uniform3fv(loc, count, data)
	}
}

func (s customSink) SetMat3Raw(name string, m [9]float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.UniformMatrix3(loc, m)
	}
}

func (s customSink) SetMat4Raw(name string, m [16]float32) {
	if loc := s.loc(name); loc >= 0 {
		s.ctx.UniformMatrix4(loc, m)
	}
}
