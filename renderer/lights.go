package renderer

import (
	"scene-editor/scene"
)

// lightBlock is the packed per-frame light state uploaded to the built-in
// programs. Unused slots are zeroed so a shorter frame never inherits stale
// directions from a longer one.
type lightBlock struct {
	dirs   [MaxLights * 3]float32
	colors [MaxLights * 3]float32
	count  int32
}

// pack snapshots up to MaxLights lights into the block. Lights beyond the
// cap are dropped in order.
func (b *lightBlock) pack(lights []scene.Light) {
	n := len(lights)
	if n > MaxLights {
		n = MaxLights
	}
	for i := 0; i < n; i++ {
		l := lights[i]
		b.dirs[i*3+0] = l.Direction.X
		b.dirs[i*3+1] = l.Direction.Y
		b.dirs[i*3+2] = l.Direction.Z
		b.colors[i*3+0] = l.Color.R
		b.colors[i*3+1] = l.Color.G
		b.colors[i*3+2] = l.Color.B
	}
	for i := n * 3; i < MaxLights*3; i++ {
		b.dirs[i] = 0
		b.colors[i] = 0
	}
	b.count = int32(n)
}

// upload writes the block into the currently bound program.
func (b *lightBlock) upload(p uniformSink) {
	p.SetVec3Array("uLightDirs[0]", MaxLights, b.dirs[:])
	p.SetVec3Array("uLightColors[0]", MaxLights, b.colors[:])
	p.SetInt("uLightCount", b.count)
}
