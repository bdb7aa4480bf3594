package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/meadow3d/meadow/app"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	lutPath := flag.String("lut", "", "Path to a color LUT config (JSON)")
	plantPath := flag.String("plant", "", "Path to a plant rule config (JSON)")
	seed := flag.Int64("seed", 0, "World seed (0 picks one from the clock)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Meadow", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, app.Options{
		LutPath:   *lutPath,
		PlantPath: *plantPath,
		Seed:      *seed,
		Debug:     *debug,
	})
	if err := application.Init(); err != nil {
		panic(err)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}
