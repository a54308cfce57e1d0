package shadered

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/gfx/gfxtest"
	"scene-editor/scene"
)

const (
	vertSrc = `#version 410 core
in vec3 aPosition;
uniform mat4 uViewProj;
uniform mat4 uModel;
void main() { gl_Position = uViewProj * uModel * vec4(aPosition, 1.0); }
`
	fragSrc = `#version 410 core
uniform vec3 uTint;
out vec4 outColor;
void main() { outColor = vec4(uTint, 1.0); }
`
)

func tintAsset(name string) Asset {
	return Asset{
		Name:        name,
		VertexSrc:   vertSrc,
		FragmentSrc: fragSrc,
		Uniforms: []scene.UniformDecl{
			{Name: "uTint", Type: scene.UniformVec3, Default: scene.Vec3Value(1, 1, 1)},
		},
	}
}

func TestDefineCompilesAndRegisters(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)

	require.NoError(t, svc.Define(tintAsset("tint")))
	assert.Equal(t, 1, rec.ProgramsCompiled)

	prog, ok := svc.Program("tint")
	require.True(t, ok)
	assert.NotZero(t, prog)

	decls := svc.DeclaredUniforms("tint")
	require.Len(t, decls, 1)
	assert.Equal(t, "uTint", decls[0].Name)
	assert.Equal(t, []string{"tint"}, svc.Assets())
}

func TestDefineRejectsUnnamedAsset(t *testing.T) {
	svc := NewService(gfxtest.New())
	assert.Error(t, svc.Define(Asset{VertexSrc: vertSrc, FragmentSrc: fragSrc}))
}

func TestDefineFailureKeepsPreviousProgram(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)
	require.NoError(t, svc.Define(tintAsset("tint")))
	before, _ := svc.Program("tint")

	rec.CompileErr = errors.New("0:4: undeclared identifier")
	err := svc.Define(tintAsset("tint"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared identifier")

	after, ok := svc.Program("tint")
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Zero(t, rec.ProgramsDeleted)
}

func TestRedefineReplacesProgram(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)
	require.NoError(t, svc.Define(tintAsset("tint")))
	first, _ := svc.Program("tint")

	require.NoError(t, svc.Define(tintAsset("tint")))
	second, _ := svc.Program("tint")

	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, rec.ProgramsDeleted)
}

func TestUniformLocationCachesDriverQuery(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)
	require.NoError(t, svc.Define(tintAsset("tint")))

	loc1 := svc.UniformLocation("tint", "uTint")
	loc2 := svc.UniformLocation("tint", "uTint")
	assert.GreaterOrEqual(t, loc1, int32(0))
	assert.Equal(t, loc1, loc2)

	assert.Equal(t, int32(-1), svc.UniformLocation("missing", "uTint"))
}

func TestRemoveDeletesProgram(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)
	require.NoError(t, svc.Define(tintAsset("tint")))

	svc.Remove("tint")
	assert.Equal(t, 1, rec.ProgramsDeleted)
	_, ok := svc.Program("tint")
	assert.False(t, ok)

	svc.Remove("tint")
	assert.Equal(t, 1, rec.ProgramsDeleted)
}

func TestDisposeDeletesAllPrograms(t *testing.T) {
	rec := gfxtest.New()
	svc := NewService(rec)
	require.NoError(t, svc.Define(tintAsset("a")))
	require.NoError(t, svc.Define(tintAsset("b")))

	svc.Dispose()
	assert.Equal(t, 2, rec.ProgramsDeleted)
	assert.Empty(t, svc.Assets())
}

func TestMaterialRegistry(t *testing.T) {
	svc := NewService(gfxtest.New())

	svc.RegisterMaterial(scene.NewPBRMaterial("gold", scene.DefaultMaterial().BaseColor, 1, 0.3))
	svc.RegisterMaterial(scene.DefaultMaterial()) // named "Default"
	svc.RegisterMaterial(nil)

	m, ok := svc.Material("gold")
	require.True(t, ok)
	assert.Equal(t, float32(1), m.Metallic)
	assert.Equal(t, []string{"Default", "gold"}, svc.Materials())
}
