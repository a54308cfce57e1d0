// Package asset imports external geometry into scene entities.
package asset

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-editor/core"
	"scene-editor/math"
	"scene-editor/scene"
)

// LoadGLTF opens a .glb or .gltf file and returns flat entities, one per
// mesh primitive, with node transforms baked down to world space. Textures
// are not imported; materials carry the PBR factors only.
func LoadGLTF(path string) ([]*scene.Entity, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	mats := make([]*scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mats[i] = importMaterial(gm)
	}

	meshPrims := make([][]*primitive, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			data, err := importPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("gltf mesh %d primitive %d: %w", mi, pi, err)
			}
			p := &primitive{data: data}
			if prim.Material != nil && *prim.Material < len(mats) {
				p.material = mats[*prim.Material]
			}
			meshPrims[mi] = append(meshPrims[mi], p)
		}
	}

	var entities []*scene.Entity
	var visit func(idx int, parent math.Mat4)
	visit = func(idx int, parent math.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := nodeLocalMatrix(gn).Mul(parent)

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			name := gn.Name
			if name == "" {
				name = fmt.Sprintf("node_%d", idx)
			}
			for pi, p := range meshPrims[*gn.Mesh] {
				e := scene.NewEntity(fmt.Sprintf("%s_p%d", name, pi))
				e.Local = decompose(world)
				e.Mesh = p.data
				e.Material = p.material
				entities = append(entities, e)
			}
		}
		for _, child := range gn.Children {
			visit(child, world)
		}
	}

	for _, root := range rootNodes(doc) {
		visit(root, math.Mat4Identity())
	}
	return entities, nil
}

type primitive struct {
	data     *scene.MeshData
	material *scene.Material
}

func importMaterial(gm *gltf.Material) *scene.Material {
	mat := scene.DefaultMaterial()
	mat.Name = gm.Name
	mat.Shader = scene.ShaderPBR

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.BaseColor = core.Color{
			R: float32(cf[0]), G: float32(cf[1]),
			B: float32(cf[2]), A: float32(cf[3]),
		}
		mat.Metallic = float32(pbr.MetallicFactorOrDefault())
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
	}

	ef := gm.EmissiveFactor
	if ef[0] != 0 || ef[1] != 0 || ef[2] != 0 {
		mat.Emission = core.Color{
			R: float32(ef[0]), G: float32(ef[1]), B: float32(ef[2]), A: 1,
		}
		mat.EmissionStrength = 1
	}
	return mat
}

func importPrimitive(doc *gltf.Document, prim gltf.Primitive) (*scene.MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	data := &scene.MeshData{
		Positions: make([]float32, 0, len(positions)*3),
		Normals:   make([]float32, 0, len(positions)*3),
	}
	if len(uvs) == len(positions) {
		data.UVs = make([]float32, 0, len(positions)*2)
	}
	for i, p := range positions {
		data.Positions = append(data.Positions, p[0], p[1], p[2])
		if i < len(normals) {
			n := normals[i]
			data.Normals = append(data.Normals, n[0], n[1], n[2])
		} else {
			data.Normals = append(data.Normals, 0, 1, 0)
		}
		if data.UVs != nil {
			data.UVs = append(data.UVs, uvs[i][0], uvs[i][1])
		}
	}

	if prim.Indices != nil {
		data.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		data.Indices = make([]uint32, len(positions))
		for i := range data.Indices {
			data.Indices[i] = uint32(i)
		}
	}
	return data, nil
}

func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeLocalMatrix builds the node's local transform from its TRS, with the
// quaternion rotation converted to a matrix directly.
func nodeLocalMatrix(gn *gltf.Node) math.Mat4 {
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // [x y z w]

	rot := quatMatrix(
		float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]),
	)
	return math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}).
		Mul(rot).
		Mul(math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}))
}

func quatMatrix(x, y, z, w float32) math.Mat4 {
	m := math.Mat4Identity()
	// column-major storage: m[col][row]
	m[0][0] = 1 - 2*(y*y+z*z)
	m[0][1] = 2 * (x*y + w*z)
	m[0][2] = 2 * (x*z - w*y)
	m[1][0] = 2 * (x*y - w*z)
	m[1][1] = 1 - 2*(x*x+z*z)
	m[1][2] = 2 * (y*z + w*x)
	m[2][0] = 2 * (x*z + w*y)
	m[2][1] = 2 * (y*z - w*x)
	m[2][2] = 1 - 2*(x*x+y*y)
	return m
}

// decompose extracts position, Euler rotation in degrees, and scale from a
// TRS matrix. The rotation solve matches the Rz*Ry*Rx composition order
// used everywhere else, so re-composing the result reproduces the matrix.
func decompose(m math.Mat4) core.Transform {
	t := core.NewTransform()
	t.Position = math.Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}

	sx := math.Vec3{X: m[0][0], Y: m[0][1], Z: m[0][2]}.Length()
	sy := math.Vec3{X: m[1][0], Y: m[1][1], Z: m[1][2]}.Length()
	sz := math.Vec3{X: m[2][0], Y: m[2][1], Z: m[2][2]}.Length()
	t.Scale = math.Vec3{X: sx, Y: sy, Z: sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return t
	}

	// Rotation matrix entries r[row][col] after dividing out scale.
	r00 := m[0][0] / sx
	r10 := m[0][1] / sx
	r20 := m[0][2] / sx
	r21 := m[1][2] / sy
	r22 := m[2][2] / sz

	pitch := math32.Asin(clamp(-r20, -1, 1))
	var roll, yaw float32
	if math32.Abs(r20) < 0.9999 {
		roll = math32.Atan2(r21, r22)
		yaw = math32.Atan2(r10, r00)
	} else {
		// Gimbal lock: fold everything into roll.
		roll = math32.Atan2(-m[2][1]/sz, m[1][1]/sy)
	}

	deg := float32(180) / math32.Pi
	t.Rotation = math.Vec3{X: roll * deg, Y: pitch * deg, Z: yaw * deg}
	return t
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
