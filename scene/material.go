package scene

import "scene-editor/core"

// Built-in shader names selectable via Material.Shader.
const (
	ShaderDefault = "default"
	ShaderPBR     = "pbr"
)

// Material describes surface appearance. Shader selects a built-in shading
// model; ShaderAsset, when non-empty, refers to a custom shader asset owned
// by the shader-editing service and takes priority over Shader.
type Material struct {
	Name      string
	BaseColor core.Color

	// PBR parameters (used when Shader == ShaderPBR)
	Metallic         float32
	Roughness        float32
	Emission         core.Color
	EmissionStrength float32

	// Shader is "default" or "pbr". Empty means default.
	Shader string

	// ShaderAsset names a custom shader asset; Params supplies values for
	// its declared uniforms, keyed by uniform name. Missing entries fall
	// back to the declared defaults.
	ShaderAsset string
	Params      map[string]UniformValue
}

// DefaultMaterial returns a plain white Lambertian material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		BaseColor: core.ColorWhite,
		Roughness: 0.5,
	}
}

// NewPBRMaterial creates a Cook-Torrance material.
func NewPBRMaterial(name string, baseColor core.Color, metallic, roughness float32) *Material {
	return &Material{
		Name:      name,
		BaseColor: baseColor,
		Metallic:  metallic,
		Roughness: roughness,
		Shader:    ShaderPBR,
	}
}

// UniformType tags the declared type of a custom shader uniform.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformInt
	UniformBool
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat3
	UniformMat4
)

// UniformValue is a type-tagged uniform value. Data holds up to 16 floats
// depending on Type; ints and bools are encoded in Data[0].
type UniformValue struct {
	Type UniformType
	Data [16]float32
}

func FloatValue(v float32) UniformValue {
	return UniformValue{Type: UniformFloat, Data: [16]float32{v}}
}

func IntValue(v int32) UniformValue {
	return UniformValue{Type: UniformInt, Data: [16]float32{float32(v)}}
}

func BoolValue(v bool) UniformValue {
	u := UniformValue{Type: UniformBool}
	if v {
		u.Data[0] = 1
	}
	return u
}

func Vec2Value(x, y float32) UniformValue {
	return UniformValue{Type: UniformVec2, Data: [16]float32{x, y}}
}

func Vec3Value(x, y, z float32) UniformValue {
	return UniformValue{Type: UniformVec3, Data: [16]float32{x, y, z}}
}

func Vec4Value(x, y, z, w float32) UniformValue {
	return UniformValue{Type: UniformVec4, Data: [16]float32{x, y, z, w}}
}

func Mat3Value(m [9]float32) UniformValue {
	u := UniformValue{Type: UniformMat3}
	copy(u.Data[:9], m[:])
	return u
}

func Mat4Value(m [16]float32) UniformValue {
	return UniformValue{Type: UniformMat4, Data: m}
}

// UniformDecl is one uniform a custom shader asset declares: its name, its
// type, and the default used when a material supplies no value.
type UniformDecl struct {
	Name    string
	Type    UniformType
	Default UniformValue
}
