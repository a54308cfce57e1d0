// Package gfx is the narrow seam between the rendering core and the
// graphics API. The renderer issues every GPU call through Context, so the
// same pipeline runs on the real OpenGL backend and, in tests, on the
// recording fake in gfxtest.
package gfx

// Opaque GPU object handles. Zero is never a valid handle.
type (
	Program     uint32
	Buffer      uint32
	VertexArray uint32
)

// BufferTarget selects the binding point for buffer operations.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Primitive selects the draw primitive.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// Context is the set of graphics calls the rendering core needs. It is not
// thread-safe; all calls must come from the thread that owns the drawing
// surface.
type Context interface {
	// CompileProgram compiles and links a vertex+fragment program. On
	// failure the error contains the driver's compile or link log.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	UseProgram(p Program)
	DeleteProgram(p Program)
	// UniformLocation and AttribLocation return -1 when the program does
	// not declare the name.
	UniformLocation(p Program, name string) int32
	AttribLocation(p Program, name string) int32

	// CreateVertexArray and CreateBuffer fail when the driver cannot
	// allocate the object.
	CreateVertexArray() (VertexArray, error)
	BindVertexArray(v VertexArray)
	DeleteVertexArray(v VertexArray)
	CreateBuffer() (Buffer, error)
	BindBuffer(target BufferTarget, b Buffer)
	BufferDataFloat(target BufferTarget, data []float32)
	BufferDataUint(target BufferTarget, data []uint32)
	DeleteBuffer(b Buffer)
	// VertexAttrib wires the currently bound array buffer to a float
	// attribute of the given component count (tightly packed).
	VertexAttrib(location int32, components int32)

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	// Uniform3fv uploads count vec3 values from a flat array.
	Uniform3fv(location int32, count int32, data []float32)
	UniformMatrix3(location int32, m [9]float32)
	UniformMatrix4(location int32, m [16]float32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	EnableDepthTest()
	EnableBackfaceCulling()

	DrawIndexed(mode Primitive, count int32)
	DrawArrays(mode Primitive, first, count int32)
}
