package renderer

import (
	"fmt"

	"scene-editor/gfx"
	"scene-editor/scene"
)

// MeshResources holds the GPU objects for one uploaded mesh. A fresh value
// is allocated on every upload, so a pointer obtained before Dispose never
// aliases the resources of a later re-creation.
type MeshResources struct {
	VAO        gfx.VertexArray
	Positions  gfx.Buffer
	Normals    gfx.Buffer
	UVs        gfx.Buffer
	Indices    gfx.Buffer
	IndexCount int32
	HasUVs     bool
}

type meshSlot struct {
	key  uint64
	res  *MeshResources
	live bool
}

// MeshCache maps stable object IDs to uploaded GPU meshes. Slots live in a
// dense slice reused through a free list, with a map from key to slot
// index, so repeated create/dispose cycles do not grow the backing store.
type MeshCache struct {
	ctx   gfx.Context
	slots []meshSlot
	index map[uint64]int
	free  []int
}

func NewMeshCache(ctx gfx.Context) *MeshCache {
	return &MeshCache{
		ctx:   ctx,
		index: make(map[uint64]int),
	}
}

// Len reports the number of live cached meshes.
func (c *MeshCache) Len() int { return len(c.index) }

// GetOrCreate returns the cached resources for key, uploading data on a
// miss. On a hit the data and locator arguments are ignored entirely; the
// caller must Dispose the key first if the geometry changed.
func (c *MeshCache) GetOrCreate(key uint64, data *scene.MeshData, prog AttribLocator) (*MeshResources, error) {
	if i, ok := c.index[key]; ok {
		return c.slots[i].res, nil
	}
	if data == nil || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %d: no geometry", key)
	}

	res, err := c.upload(data, prog)
	if err != nil {
		return nil, fmt.Errorf("mesh %d: %w", key, err)
	}

	var i int
	if n := len(c.free); n > 0 {
		i = c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[i] = meshSlot{key: key, res: res, live: true}
	} else {
		i = len(c.slots)
		c.slots = append(c.slots, meshSlot{key: key, res: res, live: true})
	}
	c.index[key] = i
	return res, nil
}

func (c *MeshCache) upload(data *scene.MeshData, prog AttribLocator) (*MeshResources, error) {
	vao, err := c.ctx.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	res := &MeshResources{
		VAO:        vao,
		IndexCount: int32(len(data.Indices)),
		HasUVs:     data.HasUVs(),
	}
	c.ctx.BindVertexArray(vao)

	fail := func(err error) (*MeshResources, error) {
		c.release(res)
		return nil, err
	}

	if res.Positions, err = c.uploadFloats(data.Positions, prog.AttribLoc(attrPosition), 3); err != nil {
		return fail(err)
	}
	if res.Normals, err = c.uploadFloats(data.Normals, prog.AttribLoc(attrNormal), 3); err != nil {
		return fail(err)
	}
	if res.HasUVs {
		if res.UVs, err = c.uploadFloats(data.UVs, prog.AttribLoc(attrTexCoord), 2); err != nil {
			return fail(err)
		}
	}

	if res.Indices, err = c.ctx.CreateBuffer(); err != nil {
		return fail(err)
	}
	c.ctx.BindBuffer(gfx.ElementArrayBuffer, res.Indices)
	c.ctx.BufferDataUint(gfx.ElementArrayBuffer, data.Indices)

	return res, nil
}

// uploadFloats creates an array buffer, fills it, and wires it to the given
// attribute location. Locations of -1 (attribute not declared) still get
// the buffer uploaded, only the wiring is skipped.
func (c *MeshCache) uploadFloats(data []float32, loc int32, components int32) (gfx.Buffer, error) {
	buf, err := c.ctx.CreateBuffer()
	if err != nil {
		return 0, err
	}
	c.ctx.BindBuffer(gfx.ArrayBuffer, buf)
	c.ctx.BufferDataFloat(gfx.ArrayBuffer, data)
	if loc >= 0 {
		c.ctx.VertexAttrib(loc, components)
	}
	return buf, nil
}

// Dispose frees the GPU resources for key. Unknown keys are a no-op.
func (c *MeshCache) Dispose(key uint64) {
	i, ok := c.index[key]
	if !ok {
		return
	}
	c.release(c.slots[i].res)
	c.slots[i] = meshSlot{}
	c.free = append(c.free, i)
	delete(c.index, key)
}

// DisposeAll frees every cached mesh.
func (c *MeshCache) DisposeAll() {
	for key := range c.index {
		c.Dispose(key)
	}
}

func (c *MeshCache) release(res *MeshResources) {
	if res == nil {
		return
	}
	for _, b := range []gfx.Buffer{res.Positions, res.Normals, res.UVs, res.Indices} {
		if b != 0 {
			c.ctx.DeleteBuffer(b)
		}
	}
	if res.VAO != 0 {
		c.ctx.DeleteVertexArray(res.VAO)
	}
}

// EdgeResources holds the GPU objects for one uploaded edge line list.
type EdgeResources struct {
	VAO         gfx.VertexArray
	Positions   gfx.Buffer
	VertexCount int32
}

// EdgeCache is the line-list counterpart of MeshCache, used for wireframe
// overlays and reference grids.
type EdgeCache struct {
	ctx   gfx.Context
	edges map[uint64]*EdgeResources
}

func NewEdgeCache(ctx gfx.Context) *EdgeCache {
	return &EdgeCache{
		ctx:   ctx,
		edges: make(map[uint64]*EdgeResources),
	}
}

func (c *EdgeCache) Len() int { return len(c.edges) }

// GetOrCreate returns the cached edge resources for key, uploading data on
// a miss. Like MeshCache, a hit ignores the arguments.
func (c *EdgeCache) GetOrCreate(key uint64, data *scene.EdgeData, prog AttribLocator) (*EdgeResources, error) {
	if res, ok := c.edges[key]; ok {
		return res, nil
	}
	if data == nil || len(data.Positions) == 0 {
		return nil, fmt.Errorf("edges %d: no geometry", key)
	}

	vao, err := c.ctx.CreateVertexArray()
	if err != nil {
		return nil, fmt.Errorf("edges %d: %w", key, err)
	}
	res := &EdgeResources{
		VAO:         vao,
		VertexCount: int32(len(data.Positions) / 3),
	}
	c.ctx.BindVertexArray(vao)

	res.Positions, err = c.ctx.CreateBuffer()
	if err != nil {
		c.ctx.DeleteVertexArray(vao)
		return nil, fmt.Errorf("edges %d: %w", key, err)
	}
	c.ctx.BindBuffer(gfx.ArrayBuffer, res.Positions)
	c.ctx.BufferDataFloat(gfx.ArrayBuffer, data.Positions)
	if loc := prog.AttribLoc(attrPosition); loc >= 0 {
		c.ctx.VertexAttrib(loc, 3)
	}

	c.edges[key] = res
	return res, nil
}

func (c *EdgeCache) Dispose(key uint64) {
	res, ok := c.edges[key]
	if !ok {
		return
	}
	if res.Positions != 0 {
		c.ctx.DeleteBuffer(res.Positions)
	}
	if res.VAO != 0 {
		c.ctx.DeleteVertexArray(res.VAO)
	}
	delete(c.edges, key)
}

func (c *EdgeCache) DisposeAll() {
	for key := range c.edges {
		c.Dispose(key)
	}
}
