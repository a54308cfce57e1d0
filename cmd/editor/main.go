package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"

	"scene-editor/asset"
	"scene-editor/core"
	"scene-editor/gfx"
	"scene-editor/math"
	"scene-editor/renderer"
	"scene-editor/scene"
	"scene-editor/shadered"
)

func main() {
	settingsPath := flag.String("settings", "editor.toml", "settings file")
	gltfPath := flag.String("gltf", "", "optional .glb/.gltf file to import")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := run(*settingsPath, *gltfPath, log); err != nil {
		log.Error("editor exited", "err", err)
		os.Exit(1)
	}
}

func run(settingsPath, gltfPath string, log *slog.Logger) error {
	settings, err := core.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	windowCfg := core.WindowConfig{
		Width:     settings.Window.Width,
		Height:    settings.Window.Height,
		Title:     settings.Window.Title,
		Resizable: settings.Window.Resizable,
		VSync:     settings.Window.VSync,
	}
	window, err := core.NewWindow(windowCfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	ctx, err := gfx.NewGLContext()
	if err != nil {
		return err
	}
	log.Info("opengl ready", "version", gfx.GLVersion())

	shaders := shadered.NewService(ctx)
	defer shaders.Dispose()

	opts := []renderer.Option{
		renderer.WithLogger(log),
		renderer.WithShaderService(shaders),
		renderer.WithClearColor(settings.Render.Clear()),
	}
	if settings.Render.EdgeOverlay {
		opts = append(opts, renderer.WithEdgeOverlay(core.Color{R: 0.05, G: 0.05, B: 0.05, A: 1}))
	}
	pipeline, err := renderer.New(ctx, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Dispose()

	s := buildDemoScene(settings, shaders)

	if gltfPath != "" {
		entities, err := asset.LoadGLTF(gltfPath)
		if err != nil {
			return err
		}
		for _, e := range entities {
			s.AddEntity(e)
		}
		log.Info("imported gltf", "path", gltfPath, "entities", len(entities))
	}

	fbW, fbH := window.GetFramebufferSize()
	pipeline.Resize(int32(fbW), int32(fbH))
	s.Camera.UpdateAspectRatio(float32(fbW), float32(fbH))

	window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		pipeline.Resize(int32(width), int32(height))
		s.Camera.UpdateAspectRatio(float32(width), float32(height))
	})

	last := time.Now()
	elapsed := float32(0)
	statTimer := time.Now()
	mouseWasDown := false

	for !window.ShouldClose() {
		window.PollEvents()

		// Click to select: pick the entity under the cursor.
		mouseDown := window.IsMouseButtonPressed(glfw.MouseButtonLeft)
		if mouseDown && !mouseWasDown {
			mx, my := window.GetCursorPos()
			ray := s.Camera.ScreenRay(
				float32(mx), float32(my),
				float32(window.Width), float32(window.Height),
			)
			if hit, ok := s.Pick(ray); ok {
				log.Info("selected", "entity", hit.Entity.Name, "distance", hit.Distance)
			}
		}
		mouseWasDown = mouseDown

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		elapsed += dt

		animateDemoScene(s, elapsed)

		pipeline.BeginFrame(s.Camera)
		pipeline.Render(s)
		pipeline.EndFrame()

		if time.Since(statTimer) >= time.Second {
			st := pipeline.Stats()
			window.SetTitle(fmt.Sprintf("%s | draws=%d switches=%d tris=%d",
				settings.Window.Title, st.DrawCalls, st.ProgramSwitches, st.Triangles))
			statTimer = time.Now()
		}

		window.SwapBuffers()
	}
	return nil
}

// buildDemoScene assembles a small showcase: a ground plane, one object per
// built-in shading model, one object on a custom shader, and two lights.
func buildDemoScene(settings core.Settings, shaders *shadered.Service) *scene.Scene {
	s := scene.NewScene()
	s.SkyColor = settings.Render.Clear()

	camera := scene.NewCamera(
		math.DegToRad(settings.Render.FOV),
		float32(settings.Window.Width)/float32(settings.Window.Height),
		settings.Render.NearPlane,
		settings.Render.FarPlane,
	)
	camera.SetPosition(math.Vec3{X: 5, Y: 4, Z: 8})
	camera.LookAt(math.Vec3{X: 0, Y: 0.5, Z: 0})
	s.Camera = camera

	ground := scene.NewEntity("Ground")
	ground.Mesh = scene.CreatePlane(20, 20)
	ground.Material = scene.DefaultMaterial()
	ground.Material.BaseColor = core.Color{R: 0.55, G: 0.55, B: 0.5, A: 1}
	s.AddEntity(ground)

	cube := scene.NewEntity("Cube")
	cube.Mesh = scene.CreateCube(1)
	cube.Local.Position = math.Vec3{X: -2, Y: 0.5, Z: 0}
	cube.Material = scene.DefaultMaterial()
	cube.Material.BaseColor = core.Color{R: 0.8, G: 0.3, B: 0.25, A: 1}
	s.AddEntity(cube)

	sphere := scene.NewEntity("Sphere")
	sphere.Mesh = scene.CreateSphere(0.7, 32, 16)
	sphere.Local.Position = math.Vec3{X: 0, Y: 0.7, Z: 0}
	sphere.Material = scene.NewPBRMaterial("Gold",
		core.Color{R: 1.0, G: 0.77, B: 0.34, A: 1}, 1.0, 0.25)
	s.AddEntity(sphere)

	registerPulseShader(shaders)
	pulse := scene.NewEntity("Pulse")
	pulse.Mesh = scene.CreateCube(1)
	pulse.Local.Position = math.Vec3{X: 2, Y: 0.5, Z: 0}
	pulse.Material = &scene.Material{
		Name:        "Pulse",
		BaseColor:   core.ColorWhite,
		ShaderAsset: "pulse",
		Params: map[string]scene.UniformValue{
			"uTint": scene.Vec3Value(0.2, 0.9, 0.6),
		},
	}
	s.AddEntity(pulse)

	s.AddDirectionalLight("Sun",
		math.Vec3{X: -50, Y: 30, Z: 0},
		core.Color{R: 1.0, G: 0.96, B: 0.9, A: 1})
	s.AddDirectionalLight("Fill",
		math.Vec3{X: -20, Y: -120, Z: 0},
		core.Color{R: 0.25, G: 0.28, B: 0.35, A: 1})

	return s
}

// registerPulseShader defines a small custom shader so the custom program
// path is exercised out of the box. A compile failure only disables the
// asset; the entity then falls back to the default program.
func registerPulseShader(shaders *shadered.Service) {
	err := shaders.Define(shadered.Asset{
		Name: "pulse",
		VertexSrc: `
#version 410 core
in vec3 aPosition;
in vec3 aNormal;
uniform mat4 uViewProj;
uniform mat4 uModel;
uniform mat3 uNormalMat;
out vec3 vNormal;
void main() {
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
    vNormal = uNormalMat * aNormal;
}
`,
		FragmentSrc: `
#version 410 core
in vec3 vNormal;
out vec4 outColor;
uniform vec3  uTint;
uniform float uPulse;
void main() {
    float shade = 0.5 + 0.5 * normalize(vNormal).y;
    outColor = vec4(uTint * shade * (0.6 + 0.4 * uPulse), 1.0);
}
`,
		Uniforms: []scene.UniformDecl{
			{Name: "uTint", Type: scene.UniformVec3, Default: scene.Vec3Value(1, 1, 1)},
			{Name: "uPulse", Type: scene.UniformFloat, Default: scene.FloatValue(1)},
		},
	})
	if err != nil {
		slog.Warn("pulse shader disabled", "err", err)
	}
}

// animateDemoScene spins the cubes and drives the custom shader's pulse
// parameter.
func animateDemoScene(s *scene.Scene, elapsed float32) {
	for _, e := range s.Entities {
		switch e.Name {
		case "Cube":
			e.Local.Rotation.Y = elapsed * 40
		case "Pulse":
			e.Local.Rotation.Y = -elapsed * 25
			if e.Material != nil {
				pulse := 0.5 + 0.5*math32.Sin(elapsed*2)
				e.Material.Params["uPulse"] = scene.FloatValue(pulse)
			}
		}
	}
}
