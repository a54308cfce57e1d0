// Package gfxtest provides a recording gfx.Context for renderer tests.
// It allocates fake handles, remembers every uniform upload and draw call,
// and can be told to fail allocations or compilation, so the pipeline's
// behavior is observable without a live GL context.
package gfxtest

import (
	"errors"
	"fmt"

	"scene-editor/gfx"
)

// Value is a recorded uniform upload.
type Value struct {
	Ints   []int32
	Floats []float32
}

// DrawCall records one DrawIndexed or DrawArrays invocation.
type DrawCall struct {
	Mode    gfx.Primitive
	Count   int32
	Program gfx.Program
}

// Recorder implements gfx.Context.
type Recorder struct {
	// Failure injection. CompileErr fails CompileProgram with the given
	// message; FailVertexArrays/FailBuffers make the next allocations fail.
	CompileErr       error
	FailVertexArrays bool
	FailBuffers      bool

	// Allocation and lifecycle counters.
	ProgramsCompiled int
	VAOsCreated      int
	BuffersCreated   int
	VAOsDeleted      int
	BuffersDeleted   int
	ProgramsDeleted  int
	ClearCalls       int
	ViewportRect     [4]int32

	// Call logs.
	UseCalls    []gfx.Program
	DrawCalls   []DrawCall
	BufferSizes map[gfx.Buffer]int

	nextProgram gfx.Program
	nextBuffer  gfx.Buffer
	nextVAO     gfx.VertexArray
	nextLoc     int32

	current   gfx.Program
	declared  map[gfx.Program]map[string]bool
	locs      map[gfx.Program]map[string]int32
	uniforms  map[int32]Value
	lastBound map[gfx.BufferTarget]gfx.Buffer
}

func New() *Recorder {
	return &Recorder{
		BufferSizes: make(map[gfx.Buffer]int),
		declared:    make(map[gfx.Program]map[string]bool),
		locs:        make(map[gfx.Program]map[string]int32),
		uniforms:    make(map[int32]Value),
		lastBound:   make(map[gfx.BufferTarget]gfx.Buffer),
	}
}

// Restrict limits program p to the given uniform/attribute names; lookups
// for any other name return -1. Without a restriction every name resolves.
func (r *Recorder) Restrict(p gfx.Program, names ...string) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	r.declared[p] = set
}

// Uniform returns the last value uploaded for the named uniform of p.
func (r *Recorder) Uniform(p gfx.Program, name string) (Value, bool) {
	locs, ok := r.locs[p]
	if !ok {
		return Value{}, false
	}
	loc, ok := locs[name]
	if !ok {
		return Value{}, false
	}
	v, ok := r.uniforms[loc]
	return v, ok
}

// UseCount reports how many times p was bound.
func (r *Recorder) UseCount(p gfx.Program) int {
	n := 0
	for _, u := range r.UseCalls {
		if u == p {
			n++
		}
	}
	return n
}

// CurrentProgram returns the most recently bound program.
func (r *Recorder) CurrentProgram() gfx.Program { return r.current }

func (r *Recorder) location(p gfx.Program, name string) int32 {
	if set, ok := r.declared[p]; ok && !set[name] {
		return -1
	}
	locs := r.locs[p]
	if locs == nil {
		locs = make(map[string]int32)
		r.locs[p] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	locs[name] = loc
	return loc
}

// ── gfx.Context ──────────────────────────────────────────────────────────────

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, errors.New("compile failed: empty shader source")
	}
	r.nextProgram++
	r.ProgramsCompiled++
	return r.nextProgram, nil
}

func (r *Recorder) UseProgram(p gfx.Program) {
	r.current = p
	r.UseCalls = append(r.UseCalls, p)
}

func (r *Recorder) DeleteProgram(p gfx.Program) { r.ProgramsDeleted++ }

func (r *Recorder) UniformLocation(p gfx.Program, name string) int32 {
	return r.location(p, name)
}

func (r *Recorder) AttribLocation(p gfx.Program, name string) int32 {
	return r.location(p, name)
}

func (r *Recorder) CreateVertexArray() (gfx.VertexArray, error) {
	if r.FailVertexArrays {
		return 0, fmt.Errorf("failed to allocate vertex array object")
	}
	r.nextVAO++
	r.VAOsCreated++
	return r.nextVAO, nil
}

func (r *Recorder) BindVertexArray(v gfx.VertexArray) {}

func (r *Recorder) DeleteVertexArray(v gfx.VertexArray) { r.VAOsDeleted++ }

func (r *Recorder) CreateBuffer() (gfx.Buffer, error) {
	if r.FailBuffers {
		return 0, fmt.Errorf("failed to allocate buffer object")
	}
	r.nextBuffer++
	r.BuffersCreated++
	return r.nextBuffer, nil
}

func (r *Recorder) BindBuffer(target gfx.BufferTarget, b gfx.Buffer) {
	r.lastBound[target] = b
}

func (r *Recorder) BufferDataFloat(target gfx.BufferTarget, data []float32) {
	r.BufferSizes[r.lastBound[target]] = len(data) * 4
}

func (r *Recorder) BufferDataUint(target gfx.BufferTarget, data []uint32) {
	r.BufferSizes[r.lastBound[target]] = len(data) * 4
}

func (r *Recorder) DeleteBuffer(b gfx.Buffer) { r.BuffersDeleted++ }

func (r *Recorder) VertexAttrib(location int32, components int32) {}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.store(location, Value{Ints: []int32{v}})
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.store(location, Value{Floats: []float32{v}})
}

func (r *Recorder) Uniform2f(location int32, x, y float32) {
	r.store(location, Value{Floats: []float32{x, y}})
}

func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.store(location, Value{Floats: []float32{x, y, z}})
}

func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) {
	r.store(location, Value{Floats: []float32{x, y, z, w}})
}

func (r *Recorder) Uniform3fv(location int32, count int32, data []float32) {
	v := make([]float32, count*3)
	copy(v, data)
	r.store(location, Value{Floats: v})
}

func (r *Recorder) UniformMatrix3(location int32, m [9]float32) {
	r.store(location, Value{Floats: m[:]})
}

func (r *Recorder) UniformMatrix4(location int32, m [16]float32) {
	r.store(location, Value{Floats: m[:]})
}

func (r *Recorder) store(location int32, v Value) {
	if location < 0 {
		return
	}
	r.uniforms[location] = v
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.ViewportRect = [4]int32{x, y, width, height}
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {}

func (r *Recorder) Clear() { r.ClearCalls++ }

func (r *Recorder) EnableDepthTest() {}

func (r *Recorder) EnableBackfaceCulling() {}

func (r *Recorder) DrawIndexed(mode gfx.Primitive, count int32) {
	r.DrawCalls = append(r.DrawCalls, DrawCall{Mode: mode, Count: count, Program: r.current})
}

func (r *Recorder) DrawArrays(mode gfx.Primitive, first, count int32) {
	r.DrawCalls = append(r.DrawCalls, DrawCall{Mode: mode, Count: count, Program: r.current})
}
