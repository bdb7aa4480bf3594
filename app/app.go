// Package app wires the window, the wgpu device, and the scene into a
// frame loop.
package app

import (
	"math/rand"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow"
	"github.com/meadow3d/meadow/core"
	"github.com/meadow3d/meadow/gpu"
	"github.com/meadow3d/meadow/lsystem"
	"github.com/meadow3d/meadow/scene"
)

const (
	// groundNoiseScale maps world units onto the noise texture, matching
	// the 0.1 coordinate scale the ground shading uses.
	groundNoiseScale = 0.1

	// hueDriftRate slowly cycles the palette, degrees per second.
	hueDriftRate = 4.0

	panSpeed = 2.0
)

var cameraPosition = mgl32.Vec3{-9.5, 10, -9.5}
var cameraDirection = mgl32.Vec3{1, -1, 1}.Normalize()

type Options struct {
	LutPath   string
	PlantPath string
	Seed      int64
	Debug     bool
}

type App struct {
	Log    meadow.Logger
	Window *glfw.Window

	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Manager    *gpu.Manager
	Scene      *scene.Scene
	Camera     core.Camera
	RenderData core.RenderData
	Lut        *core.ColorLut

	opts     Options
	pan      mgl32.Vec3
	lastTime float64
}

func NewApp(window *glfw.Window, opts Options) *App {
	return &App{
		Log:        meadow.NewDefaultLogger("meadow", opts.Debug),
		Window:     window,
		RenderData: core.DefaultRenderData(),
		opts:       opts,
	}
}

func (a *App) Init() error {
	t := meadow.StartTimer(a.Log, "app init")
	defer t.Done()

	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Manager, err = gpu.NewManager(a.Device, format)
	if err != nil {
		return err
	}
	if err := a.Manager.Resize(uint32(width), uint32(height)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(a.opts.Seed))

	noiseImg := GenerateNoise(rng)
	noiseTex := core.NewTextureFromImage(noiseImg, core.AddressRepeat)
	if err := a.Manager.SetNoiseTexture(noiseTex); err != nil {
		return err
	}

	a.Lut, err = loadLut(a.opts.LutPath)
	if err != nil {
		return err
	}
	if err := a.Manager.SetLutTextures(a.Lut.Texture(), a.Lut.TextureLinear()); err != nil {
		return err
	}

	plantConfig, err := loadPlantConfig(a.opts.PlantPath)
	if err != nil {
		return err
	}

	heightmap := scene.NewHeightmap(noiseImg, groundNoiseScale)
	a.Scene = scene.NewScene(heightmap, plantConfig, rng)
	a.Log.Infof("scene ready: %d grass blades, %d dust motes",
		len(a.Scene.Grass.Transforms), len(a.Scene.Dust.Transforms))

	a.Camera = core.LookCamera(cameraPosition, cameraDirection, a.aspect())
	a.lastTime = glfw.GetTime()
	return nil
}

func loadLut(path string) (*core.ColorLut, error) {
	if path == "" {
		return core.DefaultColorLut(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return core.ParseColorLut(data)
}

func loadPlantConfig(path string) (*lsystem.Config, error) {
	if path == "" {
		return lsystem.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return lsystem.ParseConfig(data)
}

func (a *App) aspect() float32 {
	if a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.Manager.Resize(uint32(w), uint32(h)); err != nil {
		a.Log.Errorf("resize: %v", err)
	}
	a.Camera = core.LookCamera(cameraPosition.Add(a.pan), cameraDirection, a.aspect())
}

func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(now - a.lastTime)
	a.lastTime = now

	a.handleInput(dt)
	a.RenderData.Advance(float32(now))
	a.Scene.Advance(dt, &a.Camera)

	a.Lut.RotateHue(dt * hueDriftRate)
	if err := a.Manager.SetLutTextures(a.Lut.Texture(), a.Lut.TextureLinear()); err != nil {
		a.Log.Errorf("lut upload: %v", err)
	}

	a.Manager.UpdateCamera(a.Camera)
	a.Manager.UpdateRenderData(a.RenderData)
	a.Manager.SyncBatches(a.Scene.Batches())
}

// handleInput pans the camera on the ground plane. The view direction is
// fixed isometric, so panning moves along the projected axes.
func (a *App) handleInput(dt float32) {
	move := mgl32.Vec3{}
	forward := mgl32.Vec3{cameraDirection.X(), 0, cameraDirection.Z()}.Normalize()
	right := mgl32.Vec3{-forward.Z(), 0, forward.X()}

	if a.Window.GetKey(glfw.KeyW) == glfw.Press || a.Window.GetKey(glfw.KeyUp) == glfw.Press {
		move = move.Add(forward)
	}
	if a.Window.GetKey(glfw.KeyS) == glfw.Press || a.Window.GetKey(glfw.KeyDown) == glfw.Press {
		move = move.Sub(forward)
	}
	if a.Window.GetKey(glfw.KeyD) == glfw.Press || a.Window.GetKey(glfw.KeyRight) == glfw.Press {
		move = move.Add(right)
	}
	if a.Window.GetKey(glfw.KeyA) == glfw.Press || a.Window.GetKey(glfw.KeyLeft) == glfw.Press {
		move = move.Sub(right)
	}
	if move.Len() == 0 {
		return
	}

	a.pan = a.pan.Add(move.Normalize().Mul(panSpeed * dt))
	a.Camera = core.LookCamera(cameraPosition.Add(a.pan), cameraDirection, a.aspect())
}

func (a *App) Render() {
	texture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("get current texture: %v", err)
		return
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("create view: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("create encoder: %v", err)
		return
	}

	if err := a.Manager.Render(encoder, view, a.Scene.Batches()); err != nil {
		a.Log.Errorf("render pass: %v", err)
		return
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder finish: %v", err)
		return
	}
	a.Manager.Queue.Submit(cmd)
	a.Surface.Present()
}
