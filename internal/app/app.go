// Package app runs the editor: window, frame loop, hotkeys and scene file handling.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/config"
	"github.com/Faultbox/scened/internal/editor"
	"github.com/Faultbox/scened/internal/engine/camera"
	"github.com/Faultbox/scened/internal/engine/debug"
	"github.com/Faultbox/scened/internal/engine/device"
	"github.com/Faultbox/scened/internal/engine/input"
	"github.com/Faultbox/scened/internal/engine/matrixstack"
	"github.com/Faultbox/scened/internal/engine/picking"
	"github.com/Faultbox/scened/internal/engine/primitive"
	"github.com/Faultbox/scened/internal/engine/shader"
	"github.com/Faultbox/scened/internal/engine/window"
	"github.com/Faultbox/scened/internal/logger"
	"github.com/Faultbox/scened/internal/scene"
	"github.com/Faultbox/scened/pkg/math"
)

// selfSaveQuiet is how long watcher events are ignored after the editor saves.
const selfSaveQuiet = time.Second

// App is the editor instance.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window  *window.Window
	device  *device.GL
	input   *input.Input
	factory *primitive.Factory
	shader  device.Shader

	scene  *scene.Scene
	editor *editor.Controller
	camera *camera.OrbitCamera
	stack  *matrixstack.Stack

	watcher     *sceneWatcher
	screenshots *debug.Screenshots
	loaded      bool

	// Set by the screenshot hotkey; the capture happens after the next render.
	captureNext bool

	// Color slot edited by the R, G and B keys.
	colorSlot editor.ColorSlot

	// Window size in screen coordinates, used to map mouse positions.
	width, height  int
	mouseX, mouseY int
	orbiting       bool
}

// New creates the window, the device and the scene, loading the scene file
// or writing the starter scene when it is missing.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:       cfg,
		log:       logger.Named("app"),
		colorSlot: editor.SlotDiffuse,
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "scened - " + cfg.Editor.ScenePath,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Device AFTER window, since the OpenGL context must exist.
	a.device, err = device.NewGL()
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	a.shader, err = a.device.CreateShader(shader.LitVertexShader, shader.LitFragmentShader)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}

	a.input = input.New()
	a.stack = matrixstack.New()
	a.factory = primitive.NewFactory(a.device)

	a.camera = camera.NewOrbitCamera()
	a.camera.FOV = cfg.Camera.FOVDegrees * math32.Pi / 180
	a.camera.Near = cfg.Camera.Near
	a.camera.Far = cfg.Camera.Far
	a.camera.Distance = cfg.Camera.Distance
	a.camera.AutoRotate = cfg.Camera.AutoRotate
	a.resize()

	a.scene = scene.New(a.factory, scene.Material{
		Ambient:  math.Grey(0.15),
		Diffuse:  math.White,
		Specular: math.White,
		Shader:   a.shader,
	})
	a.editor = editor.NewController(a.scene)
	a.screenshots = debug.NewScreenshots(cfg.Editor.ScreenshotDir, "scened")

	created, err := a.scene.LoadOrCreate(cfg.Editor.ScenePath, scene.PopulateDefault)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	a.loaded = true
	a.log.Info("scene ready",
		zap.String("path", cfg.Editor.ScenePath),
		zap.Bool("created", created),
		zap.Int("entities", a.scene.Len()),
	)

	if cfg.Editor.WatchScene {
		a.watcher, err = newSceneWatcher(cfg.Editor.ScenePath)
		if err != nil {
			a.log.Warn("scene hot reload disabled", zap.Error(err))
		}
	}

	return a, nil
}

// Run starts the frame loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}

		a.pollWatcher()
		a.camera.Update(dt)
		a.render()
		if a.captureNext {
			a.captureNext = false
			a.capture()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Int("entities", a.scene.Len()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close saves the scene when configured to and releases everything.
func (a *App) Close() {
	a.log.Info("closing editor")

	if a.loaded && a.cfg.Editor.AutosaveOnExit {
		a.save()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing watcher", zap.Error(err))
		}
	}
	if a.scene != nil {
		a.scene.Close()
	}
	if a.device != nil {
		a.device.ReleaseShader(a.shader)
		a.device.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) resize() {
	a.width, a.height = a.window.GetSize()
	fw, fh := a.window.DrawableSize()
	a.device.Resize(fw, fh)
	a.camera.Resize(fw, fh)
}

func (a *App) ndc(x, y int) math.Vec2 {
	return picking.ScreenToNDC(float32(x), float32(y), float32(a.width), float32(a.height))
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		a.resize()

	case input.EventMouseDown:
		a.mouseX, a.mouseY = ev.MouseX, ev.MouseY
		switch ev.Button {
		case input.ButtonLeft:
			a.editor.MouseDown(a.ndc(ev.MouseX, ev.MouseY), editorMods(ev.Mods), a.camera.Camera())
		case input.ButtonRight:
			a.orbiting = true
		}

	case input.EventMouseUp:
		switch ev.Button {
		case input.ButtonLeft:
			a.editor.MouseUp()
		case input.ButtonRight:
			a.orbiting = false
		}

	case input.EventMouseMove:
		a.mouseX, a.mouseY = ev.MouseX, ev.MouseY
		if a.orbiting {
			a.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			return
		}
		a.editor.MouseMove(a.ndc(ev.MouseX, ev.MouseY), editorMods(ev.Mods), a.camera.Camera())

	case input.EventMouseWheel:
		a.camera.HandleZoom(ev.Wheel)

	case input.EventKeyDown:
		if ev.Repeat {
			return
		}
		a.runAction(keyAction(ev.Key, ev.Mods))
	}
}

func (a *App) runAction(act action) {
	if kind, ok := act.spawnKind(); ok {
		if _, err := a.editor.Spawn(kind, a.ndc(a.mouseX, a.mouseY), a.camera.Camera()); err != nil {
			a.log.Warn("spawn failed", zap.Error(err))
		}
		return
	}
	if slot, ok := act.colorSlot(); ok {
		a.colorSlot = slot
		a.log.Debug("color slot", zap.Stringer("slot", slot))
		return
	}
	if channel, delta, ok := act.colorChange(); ok {
		if c, ok := a.editor.Colors().Adjust(a.colorSlot, channel, delta); ok {
			a.log.Debug("color changed",
				zap.Stringer("slot", a.colorSlot),
				zap.Float32("r", c.R), zap.Float32("g", c.G), zap.Float32("b", c.B))
		}
		return
	}

	switch act {
	case actionDelete:
		a.editor.DeleteSelected()
	case actionDeleteAll:
		a.editor.DeleteAll()
	case actionDuplicate:
		if _, err := a.editor.DuplicateSelected(); err != nil && !errors.Is(err, scene.ErrInvalidHandle) {
			a.log.Warn("duplicate failed", zap.Error(err))
		}
	case actionSave:
		a.save()
	case actionReload:
		a.reload()
	case actionEscape:
		if a.editor.Mode() != editor.ModeIdle {
			a.editor.Cancel()
		} else {
			a.editor.Unselect()
		}
	case actionScreenshot:
		a.captureNext = true
	case actionQuit:
		a.running = false
	}
}

func (a *App) capture() {
	w, h := a.window.DrawableSize()
	name, err := a.screenshots.Save(a.device.ReadPixels(w, h), w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", name))
}

func (a *App) save() {
	if a.watcher != nil {
		a.watcher.Suppress(selfSaveQuiet)
	}
	if err := a.scene.SaveScene(a.cfg.Editor.ScenePath); err != nil {
		a.log.Error("save failed", zap.Error(err))
	}
}

func (a *App) reload() {
	a.editor.Unselect()
	if err := a.scene.LoadScene(a.cfg.Editor.ScenePath); err != nil {
		a.log.Error("reload failed", zap.Error(err))
	}
}

// pollWatcher applies external scene file changes without blocking the frame.
func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	select {
	case <-a.watcher.Changed():
		a.log.Info("scene file changed on disk, reloading")
		a.reload()
	default:
	}
}

func (a *App) render() {
	a.device.BeginFrame()

	cam := a.camera.Camera()
	a.stack.SetProjectionMatrix(cam.Projection)
	a.stack.SetViewMatrix(cam.View)
	a.scene.Render(a.device, a.stack)

	a.device.BindShader(device.NoShader)
}
