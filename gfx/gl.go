package gfx

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// glContext implements Context on OpenGL 4.1 core.
type glContext struct{}

// NewGLContext initialises OpenGL and returns a Context backed by it.
// Must be called after the window's GL context is made current.
func NewGLContext() (Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return glContext{}, nil
}

// GLVersion returns the driver version string. Only valid after
// NewGLContext has succeeded.
func GLVersion() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func glBufferTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glPrimitive(p Primitive) uint32 {
	if p == Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func (glContext) CompileProgram(vertexSrc, fragmentSrc string) (Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return Program(prog), nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func (glContext) UseProgram(p Program)    { gl.UseProgram(uint32(p)) }
func (glContext) DeleteProgram(p Program) { gl.DeleteProgram(uint32(p)) }

func (glContext) UniformLocation(p Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (glContext) AttribLocation(p Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (glContext) CreateVertexArray() (VertexArray, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("failed to allocate vertex array object")
	}
	return VertexArray(vao), nil
}

func (glContext) BindVertexArray(v VertexArray) { gl.BindVertexArray(uint32(v)) }

func (glContext) DeleteVertexArray(v VertexArray) {
	vao := uint32(v)
	gl.DeleteVertexArrays(1, &vao)
}

func (glContext) CreateBuffer() (Buffer, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("failed to allocate buffer object")
	}
	return Buffer(buf), nil
}

func (glContext) BindBuffer(target BufferTarget, b Buffer) {
	gl.BindBuffer(glBufferTarget(target), uint32(b))
}

func (glContext) BufferDataFloat(target BufferTarget, data []float32) {
	gl.BufferData(glBufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (glContext) BufferDataUint(target BufferTarget, data []uint32) {
	gl.BufferData(glBufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (glContext) DeleteBuffer(b Buffer) {
	buf := uint32(b)
	gl.DeleteBuffers(1, &buf)
}

func (glContext) VertexAttrib(location int32, components int32) {
	gl.EnableVertexAttribArray(uint32(location))
	gl.VertexAttribPointer(uint32(location), components, gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (glContext) Uniform1i(location int32, v int32)       { gl.Uniform1i(location, v) }
func (glContext) Uniform1f(location int32, v float32)     { gl.Uniform1f(location, v) }
func (glContext) Uniform2f(location int32, x, y float32)  { gl.Uniform2f(location, x, y) }
func (glContext) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}
func (glContext) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (glContext) Uniform3fv(location int32, count int32, data []float32) {
	gl.Uniform3fv(location, count, &data[0])
}

func (glContext) UniformMatrix3(location int32, m [9]float32) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (glContext) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (glContext) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (glContext) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (glContext) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (glContext) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

func (glContext) EnableBackfaceCulling() {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (glContext) DrawIndexed(mode Primitive, count int32) {
	gl.DrawElements(glPrimitive(mode), count, gl.UNSIGNED_INT, nil)
}

func (glContext) DrawArrays(mode Primitive, first, count int32) {
	gl.DrawArrays(glPrimitive(mode), first, count)
}
