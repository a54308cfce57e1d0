package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/core"
	"scene-editor/gfx"
	"scene-editor/gfx/gfxtest"
	"scene-editor/math"
	"scene-editor/scene"
	"scene-editor/shadered"
)

func testCamera() *scene.Camera {
	cam := scene.NewCamera(math.DegToRad(60), 16.0/9.0, 0.1, 100)
	cam.SetPosition(math.Vec3{X: 0, Y: 2, Z: 5})
	cam.LookAt(math.Vec3Zero)
	return cam
}

func testScene(entities ...*scene.Entity) *scene.Scene {
	s := scene.NewScene()
	s.Camera = testCamera()
	for _, e := range entities {
		s.AddEntity(e)
	}
	s.AddDirectionalLight("sun", math.Vec3{X: -45}, core.ColorWhite)
	return s
}

func defaultCube(name string) *scene.Entity {
	e := scene.NewEntity(name)
	e.Mesh = scene.CreateCube(1)
	e.Material = scene.DefaultMaterial()
	return e
}

func pbrSphere(name string) *scene.Entity {
	e := scene.NewEntity(name)
	e.Mesh = scene.CreateSphere(1, 8, 4)
	e.Material = scene.NewPBRMaterial(name, core.ColorWhite, 0.8, 0.3)
	return e
}

func renderOnce(p *Pipeline, s *scene.Scene) {
	p.BeginFrame(s.Camera)
	p.Render(s)
	p.EndFrame()
}

func TestNewCompilesBothBuiltins(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)
	defer p.Dispose()

	assert.Equal(t, 2, rec.ProgramsCompiled)
	assert.NotEqual(t, p.DefaultProgram(), p.PBRProgram())
}

func TestNewFailsOnCompileError(t *testing.T) {
	rec := gfxtest.New()
	rec.CompileErr = errors.New("0:12: syntax error")

	_, err := New(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestRenderBindsDefaultFirst(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	// Even when the only object is PBR, the default program is bound first.
	renderOnce(p, testScene(pbrSphere("ball")))

	require.GreaterOrEqual(t, len(rec.UseCalls), 2)
	assert.Equal(t, p.DefaultProgram(), rec.UseCalls[0])
	assert.Equal(t, p.PBRProgram(), rec.UseCalls[1])

	require.Len(t, rec.DrawCalls, 1)
	assert.Equal(t, p.PBRProgram(), rec.DrawCalls[0].Program)
}

func TestConsecutiveDefaultObjectsBindOnce(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	renderOnce(p, testScene(defaultCube("a"), defaultCube("b")))

	assert.Equal(t, 1, rec.UseCount(p.DefaultProgram()))
	assert.Equal(t, 0, rec.UseCount(p.PBRProgram()))
	assert.Len(t, rec.DrawCalls, 2)
	assert.Equal(t, 1, p.Stats().ProgramSwitches)
}

func TestProgramSwitchPerMaterialChange(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	// default, pbr, default: three switches including the initial bind.
	renderOnce(p, testScene(defaultCube("a"), pbrSphere("b"), defaultCube("c")))

	assert.Equal(t, 3, p.Stats().ProgramSwitches)
	assert.Equal(t, 2, rec.UseCount(p.DefaultProgram()))
	assert.Equal(t, 1, rec.UseCount(p.PBRProgram()))
	assert.Len(t, rec.DrawCalls, 3)
}

func TestPerFrameUniformsUploaded(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	s := testScene(defaultCube("a"))
	renderOnce(p, s)

	vp, ok := rec.Uniform(p.DefaultProgram(), "uViewProj")
	require.True(t, ok)
	want := s.Camera.ViewProjectionMatrix().Flatten()
	assert.Equal(t, want[:], vp.Floats)

	pos, ok := rec.Uniform(p.DefaultProgram(), "uCameraPos")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 2, 5}, pos.Floats)

	count, ok := rec.Uniform(p.DefaultProgram(), "uLightCount")
	require.True(t, ok)
	assert.Equal(t, []int32{1}, count.Ints)

	amb, ok := rec.Uniform(p.DefaultProgram(), "uAmbient")
	require.True(t, ok)
	assert.Equal(t, []float32{0.2, 0.2, 0.2}, amb.Floats)
}

func TestPerFrameUniformsReuploadedOnSwitch(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	renderOnce(p, testScene(defaultCube("a"), pbrSphere("b")))

	// The PBR program got its own copy of the frame state on the switch.
	count, ok := rec.Uniform(p.PBRProgram(), "uLightCount")
	require.True(t, ok)
	assert.Equal(t, []int32{1}, count.Ints)
	_, ok = rec.Uniform(p.PBRProgram(), "uViewProj")
	assert.True(t, ok)
}

func TestLightUniformValues(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	s := scene.NewScene()
	s.Camera = testCamera()
	e := defaultCube("a")
	s.AddEntity(e)
	sun := scene.NewEntity("sun")
	sun.DirLight = scene.NewDirectionalLight(math.Vec3{Y: -1})
	s.AddEntity(sun)

	renderOnce(p, s)

	dirs, ok := rec.Uniform(p.DefaultProgram(), "uLightDirs[0]")
	require.True(t, ok)
	require.Len(t, dirs.Floats, MaxLights*3)
	assert.Equal(t, []float32{0, -1, 0}, dirs.Floats[0:3])
	for i := 3; i < MaxLights*3; i++ {
		assert.Zero(t, dirs.Floats[i])
	}
}

func TestZeroLights(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	s := scene.NewScene()
	s.Camera = testCamera()
	s.AddEntity(defaultCube("a"))
	renderOnce(p, s)

	count, ok := rec.Uniform(p.DefaultProgram(), "uLightCount")
	require.True(t, ok)
	assert.Equal(t, []int32{0}, count.Ints)
	assert.Len(t, rec.DrawCalls, 1)
}

func TestMaterialUniformsUploaded(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	e := pbrSphere("ball")
	e.Material.BaseColor = core.Color{R: 0.9, G: 0.2, B: 0.1, A: 1}
	renderOnce(p, testScene(e))

	base, ok := rec.Uniform(p.PBRProgram(), "uBaseColor")
	require.True(t, ok)
	assert.Equal(t, []float32{0.9, 0.2, 0.1, 1}, base.Floats)

	metallic, ok := rec.Uniform(p.PBRProgram(), "uMetallic")
	require.True(t, ok)
	assert.Equal(t, []float32{0.8}, metallic.Floats)

	rough, ok := rec.Uniform(p.PBRProgram(), "uRoughness")
	require.True(t, ok)
	assert.Equal(t, []float32{0.3}, rough.Floats)
}

func TestObjectWithoutMaterialUsesDefault(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	e := scene.NewEntity("bare")
	e.Mesh = scene.CreateCube(1)
	renderOnce(p, testScene(e))

	require.Len(t, rec.DrawCalls, 1)
	assert.Equal(t, p.DefaultProgram(), rec.DrawCalls[0].Program)
	base, ok := rec.Uniform(p.DefaultProgram(), "uBaseColor")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1, 1, 1}, base.Floats)
}

func TestModelMatrixPerObject(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	e := defaultCube("a")
	e.Local.Position = math.Vec3{X: 3, Y: 1, Z: -2}
	renderOnce(p, testScene(e))

	model, ok := rec.Uniform(p.DefaultProgram(), "uModel")
	require.True(t, ok)
	want := e.Local.Matrix().Flatten()
	assert.Equal(t, want[:], model.Floats)

	normal, ok := rec.Uniform(p.DefaultProgram(), "uNormalMat")
	require.True(t, ok)
	wantN := e.Local.NormalMatrix().Flatten()
	assert.Equal(t, wantN[:], normal.Floats)
}

func TestRenderWithoutBeginFrameIsNoop(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	p.Render(testScene(defaultCube("a")))
	assert.Empty(t, rec.DrawCalls)
	assert.Zero(t, rec.VAOsCreated)
}

func TestRenderAfterEndFrameIsNoop(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	s := testScene(defaultCube("a"))
	renderOnce(p, s)
	before := len(rec.DrawCalls)

	p.Render(s)
	assert.Len(t, rec.DrawCalls, before)
}

func TestDisposeReleasesEverything(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	renderOnce(p, testScene(defaultCube("a"), pbrSphere("b")))
	p.Dispose()

	assert.Equal(t, rec.VAOsCreated, rec.VAOsDeleted)
	assert.Equal(t, rec.BuffersCreated, rec.BuffersDeleted)
	assert.Equal(t, 2, rec.ProgramsDeleted)

	// Idempotent, and rendering afterwards is a no-op.
	p.Dispose()
	assert.Equal(t, 2, rec.ProgramsDeleted)

	draws := len(rec.DrawCalls)
	p.BeginFrame(testCamera())
	p.Render(testScene(defaultCube("c")))
	p.EndFrame()
	assert.Len(t, rec.DrawCalls, draws)
}

func TestMeshUploadFailureSkipsObjectNotFrame(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	good := defaultCube("good")
	s := testScene(good)
	renderOnce(p, s) // uploads good's mesh

	rec.FailVertexArrays = true
	bad := defaultCube("bad")
	s.AddEntity(bad)

	renderOnce(p, s)
	// The cached object still draws; only the new one is skipped.
	assert.Equal(t, 1, p.Stats().Skipped)
	assert.Equal(t, 1, p.Stats().DrawCalls)
}

func TestCacheHitAcrossFrames(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	s := testScene(defaultCube("a"))
	renderOnce(p, s)
	allocsAfterFirst := rec.VAOsCreated + rec.BuffersCreated

	for i := 0; i < 3; i++ {
		renderOnce(p, s)
	}
	assert.Equal(t, allocsAfterFirst, rec.VAOsCreated+rec.BuffersCreated)
}

func TestDisposeMeshForcesReupload(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	e := defaultCube("a")
	s := testScene(e)
	renderOnce(p, s)
	assert.Equal(t, 1, rec.VAOsCreated)

	p.DisposeMesh(e.ID())
	renderOnce(p, s)
	assert.Equal(t, 2, rec.VAOsCreated)
	assert.Equal(t, 1, rec.VAOsDeleted)
}

func TestBeginFrameClearsTargets(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	p.BeginFrame(testCamera())
	p.EndFrame()
	assert.Equal(t, 1, rec.ClearCalls)
}

func TestResizeSetsViewport(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	p.Resize(800, 600)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, rec.ViewportRect)
}

func TestEdgeOverlayDrawsLines(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec, WithEdgeOverlay(core.ColorBlack))
	require.NoError(t, err)

	renderOnce(p, testScene(defaultCube("a")))

	require.Len(t, rec.DrawCalls, 2)
	solid, lines := rec.DrawCalls[0], rec.DrawCalls[1]
	assert.Equal(t, gfx.Triangles, solid.Mode)
	assert.Equal(t, gfx.Lines, lines.Mode)
	// A cube has 30 unique edges.
	assert.Equal(t, int32(60), lines.Count)
	assert.Equal(t, 30, p.Stats().EdgeSegments)
}

func TestEdgeOverlayRestoresFrameStateForNextPass(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec, WithEdgeOverlay(core.ColorBlack))
	require.NoError(t, err)

	s := testScene(defaultCube("a"))
	p.BeginFrame(s.Camera)
	p.Render(s)
	usesAfterFirst := rec.UseCount(p.DefaultProgram())
	// A second pass in the same frame must rebind the default program and
	// re-upload frame uniforms; the overlay left lighting disabled on it.
	p.Render(s)
	p.EndFrame()

	assert.Equal(t, usesAfterFirst+1, rec.UseCount(p.DefaultProgram()))
	require.Len(t, rec.DrawCalls, 4)
	assert.Equal(t, gfx.Triangles, rec.DrawCalls[2].Mode)
}

func TestDrawStats(t *testing.T) {
	rec := gfxtest.New()
	p, err := New(rec)
	require.NoError(t, err)

	renderOnce(p, testScene(defaultCube("a"), pbrSphere("b")))
	st := p.Stats()
	assert.Equal(t, 2, st.DrawCalls)
	assert.Equal(t, 12+8*4*2, st.Triangles)
	assert.Equal(t, 2, st.ProgramSwitches)
}

// ── custom shader assets ─────────────────────────────────────────────────────

const (
	testVertSrc = `#version 410 core
in vec3 aPosition;
uniform mat4 uViewProj;
uniform mat4 uModel;
void main() { gl_Position = uViewProj * uModel * vec4(aPosition, 1.0); }
`
	testFragSrc = `#version 410 core
uniform float uGlow;
uniform vec3 uTint;
out vec4 outColor;
void main() { outColor = vec4(uTint * uGlow, 1.0); }
`
)

func newCustomSetup(t *testing.T) (*gfxtest.Recorder, *Pipeline, *shadered.Service) {
	t.Helper()
	rec := gfxtest.New()
	svc := shadered.NewService(rec)
	p, err := New(rec, WithShaderService(svc))
	require.NoError(t, err)

	err = svc.Define(shadered.Asset{
		Name:        "glow",
		VertexSrc:   testVertSrc,
		FragmentSrc: testFragSrc,
		Uniforms: []scene.UniformDecl{
			{Name: "uGlow", Type: scene.UniformFloat, Default: scene.FloatValue(2)},
			{Name: "uTint", Type: scene.UniformVec3, Default: scene.Vec3Value(1, 1, 1)},
		},
	})
	require.NoError(t, err)
	return rec, p, svc
}

func customEntity(asset string, params map[string]scene.UniformValue) *scene.Entity {
	e := scene.NewEntity("custom")
	e.Mesh = scene.CreateCube(1)
	e.Material = &scene.Material{
		Name:        "custom",
		BaseColor:   core.ColorWhite,
		ShaderAsset: asset,
		Params:      params,
	}
	return e
}

func TestCustomShaderWinsOverBuiltins(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	e := customEntity("glow", nil)
	e.Material.Shader = scene.ShaderPBR // custom asset still takes priority
	renderOnce(p, testScene(e))

	prog, ok := svc.Program("glow")
	require.True(t, ok)
	require.Len(t, rec.DrawCalls, 1)
	assert.Equal(t, prog, rec.DrawCalls[0].Program)
	assert.Equal(t, 0, rec.UseCount(p.PBRProgram()))
}

func TestCustomShaderDeclaredDefaultApplied(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	renderOnce(p, testScene(customEntity("glow", nil)))

	prog, _ := svc.Program("glow")
	glow, ok := rec.Uniform(prog, "uGlow")
	require.True(t, ok)
	assert.Equal(t, []float32{2}, glow.Floats)
}

func TestCustomShaderParamOverridesDefault(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	params := map[string]scene.UniformValue{
		"uGlow": scene.FloatValue(3.5),
	}
	renderOnce(p, testScene(customEntity("glow", params)))

	prog, _ := svc.Program("glow")
	glow, ok := rec.Uniform(prog, "uGlow")
	require.True(t, ok)
	assert.Equal(t, []float32{3.5}, glow.Floats)
}

func TestCustomShaderParamTypeMismatchIgnored(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	params := map[string]scene.UniformValue{
		"uGlow": scene.Vec3Value(9, 9, 9), // declared float, supplied vec3
	}
	renderOnce(p, testScene(customEntity("glow", params)))

	prog, _ := svc.Program("glow")
	glow, ok := rec.Uniform(prog, "uGlow")
	require.True(t, ok)
	assert.Equal(t, []float32{2}, glow.Floats)
}

func TestCustomShaderGetsPerFrameUniforms(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	s := testScene(customEntity("glow", nil))
	renderOnce(p, s)

	prog, _ := svc.Program("glow")
	vp, ok := rec.Uniform(prog, "uViewProj")
	require.True(t, ok)
	want := s.Camera.ViewProjectionMatrix().Flatten()
	assert.Equal(t, want[:], vp.Floats)
}

func TestMissingCustomAssetFallsBack(t *testing.T) {
	rec, p, _ := newCustomSetup(t)

	e := customEntity("nonexistent", nil)
	e.Material.Shader = scene.ShaderPBR
	renderOnce(p, testScene(e))

	require.Len(t, rec.DrawCalls, 1)
	assert.Equal(t, p.PBRProgram(), rec.DrawCalls[0].Program)
}

func TestConsecutiveCustomObjectsBindOnce(t *testing.T) {
	rec, p, svc := newCustomSetup(t)

	renderOnce(p, testScene(customEntity("glow", nil), customEntity("glow", nil)))

	prog, _ := svc.Program("glow")
	assert.Equal(t, 1, rec.UseCount(prog))
	assert.Len(t, rec.DrawCalls, 2)
}
