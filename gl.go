package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/keymap"
)

func init() {
	runtime.LockOSThread()
}

// glFrontend renders to an OpenGL window. It must be used from the main
// thread.
type glFrontend struct {
	window *glfw.Window
	vertex []uint32
}

func resizeHandler(w *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// keyHandler forwards presses and releases of the keys in layout to the
// keypad. Escape closes the window.
func keyHandler(kp *chip8.Keypad, layout *keymap.Layout) glfw.KeyCallback {
	return func(
		window *glfw.Window, key glfw.Key, scancode int,
		action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			window.SetShouldClose(true)
			return
		}
		if action == glfw.Repeat {
			return
		}
		// printable glfw keys have the value of their upper case ASCII
		// character
		if key < glfw.KeySpace || key > glfw.KeyGraveAccent {
			return
		}
		k, ok := layout.Lookup(rune(key))
		if !ok {
			return
		}
		if err := kp.Set(k, action == glfw.Press); err != nil {
			log.Warningf("%s", err.Error())
		}
	}
}

func fillVerticesToDraw(fb *chip8.Framebuffer, vertex []uint32) int {
	h := chip8.DisplayHeight + 1
	n := 0
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				// Corners of quad
				q1 := uint32(x*h + y)
				q2 := uint32(x*h + y + 1)
				q3 := uint32((x+1)*h + y)
				q4 := uint32((x+1)*h + y + 1)
				vertex[n+0] = q1
				vertex[n+1] = q2
				vertex[n+2] = q3
				vertex[n+3] = q2
				vertex[n+4] = q3
				vertex[n+5] = q4
				n += 6
			}
		}
	}
	return n // Number of vertices
}

var (
	vertexShaderGlsl = `
	  #version 410 core
	  in vec2 pos;
	  void main() {
	   gl_Position = vec4(pos, 0.0, 1.0);
	  }`
	fragmentShaderGlsl = `
	  #version 410 core
	  out vec4 color;
	  void main() {
	    color = vec4(0.85, 0.85, 0.85, 1.0);
	  }`
)

func checkShaderError(shader uint32) error {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
		return errors.New(log)
	}
	return nil
}

func compileShader(kind uint32, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(shader, 1, csrc, nil)
	gl.CompileShader(shader)
	return shader, checkShaderError(shader)
}

func glSetup() (vertex []uint32, err error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	// Generate quad vertices.
	//
	// The vertices are numbered starting from the top left and going down,
	// proceeding right after the last row is reached. The vertex at position
	// (x,y) is numbered 33*x+y:
	//   - (0,0) is vertex 0
	//   - (0,1) is vertex 1
	//   - (1,0) is vertex 33
	//   - etc.
	//
	//      x  0 1     ...      64
	//      --->
	//  y |
	//    |  +---------------------+
	//  0 v  | . . . . . . . . . . |
	//  1    | . . . . . . . . . . |
	// ...   | . . . . . . . . . . |
	// 32    | . . . . . . . . . . |
	//       +---------------------+
	w, h := chip8.DisplayWidth+1, chip8.DisplayHeight+1
	ncoords := w * h * 2 // 2 coordinates for each vertex
	buf := make([]float32, ncoords)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := 2 * (x*h + y)
			buf[i] = -1 + float32(x)/float32(chip8.DisplayWidth/2)
			buf[i+1] = 1 - float32(y)/float32(chip8.DisplayHeight/2)
		}
	}

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)

	// 65*33 quads, each quad needs 6 vertices
	vertex = make([]uint32, ncoords*3)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(
		gl.ELEMENT_ARRAY_BUFFER, len(vertex)*4, gl.Ptr(vertex), gl.DYNAMIC_DRAW)

	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("Vertex shader error: %v", err)
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("Fragment shader error: %v", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.BindFragDataLocation(program, 0, gl.Str("color\x00"))
	gl.LinkProgram(program)
	gl.UseProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		return nil, fmt.Errorf("Program link error: %s", log)
	}

	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	if err := gl.GetError(); err != gl.NO_ERROR {
		return nil, fmt.Errorf("GL error: 0x%x", err)
	}

	return vertex, nil
}

func newGLFrontend(kp *chip8.Keypad, layout *keymap.Layout, scale int) (*glFrontend, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width := chip8.DisplayWidth * scale
	height := chip8.DisplayHeight * scale
	window, err := glfw.CreateWindow(width, height, "Chip-8", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()

	vertex, err := glSetup()
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	window.SetKeyCallback(keyHandler(kp, layout))
	window.SetSizeCallback(resizeHandler)
	gl.ClearColor(.1, .1, .1, 0)

	log.Debugf("opened %dx%d window, keys %s", width, height, layout)
	return &glFrontend{window: window, vertex: vertex}, nil
}

func (fe *glFrontend) Render(fb chip8.Framebuffer) error {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	n := fillVerticesToDraw(&fb, fe.vertex)
	if n > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(fe.vertex))
		gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	fe.window.SwapBuffers()
	return nil
}

func (fe *glFrontend) Sound(active bool) {
	if active {
		fmt.Fprint(os.Stderr, "\a")
	}
}

func (fe *glFrontend) Poll() (bool, error) {
	glfw.PollEvents()
	return fe.window.ShouldClose(), nil
}

func (fe *glFrontend) Close() {
	glfw.Terminate()
}
