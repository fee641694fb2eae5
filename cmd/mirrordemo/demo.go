package main

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/config"
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/debug"
	"github.com/Faultbox/midgard-mirror/internal/engine/input"
	"github.com/Faultbox/midgard-mirror/internal/engine/lighting"
	"github.com/Faultbox/midgard-mirror/internal/engine/renderer"
	"github.com/Faultbox/midgard-mirror/internal/engine/scene"
	"github.com/Faultbox/midgard-mirror/internal/engine/texarray"
	"github.com/Faultbox/midgard-mirror/internal/engine/window"
	"github.com/Faultbox/midgard-mirror/internal/logger"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

const (
	windowTitle = "Midgard Mirror"

	playerViewer   = "player"
	securityViewer = "security"

	// mainFarClip is the far plane of the on-screen camera.
	mainFarClip = 500
)

// qualityCycle is the order the Q key steps through.
var qualityCycle = []mirror.Quality{
	mirror.QualityDefault,
	mirror.QualityHigh,
	mirror.QualityMedium,
	mirror.QualityLow,
	mirror.QualityVeryLow,
}

// reflector pairs a mirror surface with the quad that displays it.
type reflector struct {
	surface *mirror.Surface
	quad    *scene.MirrorQuad
	stats   mirror.FrameStats
	enabled bool

	// Spinning mirrors turn about world up from their configured frame.
	base  mirror.Frame
	spin  float32 // radians per second
	angle float32
}

// spinFrame returns the frame after turning by angle radians about world
// up around the mirror's own position.
func spinFrame(base mirror.Frame, angle float32) mirror.Frame {
	return mirror.Frame{
		Position: base.Position,
		Rotation: math.QuatFromAxisAngle(math.Up, angle).Mul(base.Rotation),
	}
}

// animate advances a spinning mirror and moves both its surface and quad.
func (r *reflector) animate(dt float32) {
	if r.spin == 0 {
		return
	}
	r.angle += r.spin * dt
	if r.angle > 2*gomath.Pi {
		r.angle -= 2 * gomath.Pi
	} else if r.angle < -2*gomath.Pi {
		r.angle += 2 * gomath.Pi
	}
	f := spinFrame(r.base, r.angle)
	r.surface.SetFrame(f)
	r.quad.Frame = r.surface.Frame()
}

type demo struct {
	cfg *config.Config
	log *zap.Logger

	win   *window.Window
	gfx   *renderer.Renderer
	scn   *scene.Scene
	in    *input.Input
	shots *debug.ScreenshotCapture

	player   *camera.FlyCamera
	security *camera.OrbitCamera
	lens     camera.Lens

	mirrors []*reflector
}

func newDemo(cfg *config.Config) (*demo, error) {
	d := &demo{
		cfg:   cfg,
		log:   logger.Named("demo"),
		in:    input.New(),
		shots: debug.NewScreenshotCapture(cfg.Demo.ScreenshotDir, "mirror"),
	}

	var err error
	d.win, err = window.New(window.FromConfig(windowTitle, cfg.Window))
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	dw, dh := d.win.DrawableSize()
	d.gfx, err = renderer.New(renderer.Config{Width: dw, Height: dh}, logger.Named("gl"))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("renderer: %w", err)
	}

	d.scn, err = buildScene(cfg.Demo)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("scene: %w", err)
	}
	d.gfx.SetDrawer(d.scn)

	if err := d.buildMirrors(); err != nil {
		d.Close()
		return nil, err
	}

	d.player = camera.NewFlyCamera(math.Vec3{Y: 1.7, Z: 8})
	d.player.Pitch = -0.15
	d.player.MoveSpeed = cfg.Demo.MoveSpeed
	d.player.LookSensitivity = cfg.Demo.LookSensitivity

	d.security = camera.NewOrbitCamera(math.Vec3{})
	d.security.Distance = 12
	d.security.RotationX = 0.6

	d.lens = camera.Lens{
		FOV:    math.Radians(cfg.Demo.FOV),
		Aspect: aspect(dw, dh),
		Near:   cfg.Demo.Near,
	}

	return d, nil
}

// buildScene places layered boxes and a water pool around the origin.
func buildScene(cfg config.DemoConfig) (*scene.Scene, error) {
	scn, err := scene.New()
	if err != nil {
		return nil, err
	}
	scn.LightDir = lighting.Sun{Longitude: cfg.SunLongitude, Latitude: cfg.SunLatitude}.LightDir()

	// Ring of pillars on the default layer
	colors := [][3]float32{
		{0.85, 0.3, 0.25}, {0.3, 0.75, 0.35}, {0.3, 0.45, 0.9},
		{0.9, 0.8, 0.3}, {0.7, 0.35, 0.8}, {0.3, 0.8, 0.8},
	}
	for i, c := range colors {
		angle := float32(i) * 2 * 3.14159265 / float32(len(colors))
		rot := math.QuatFromAxisAngle(math.Up, angle)
		pos := rot.Rotate(math.Vec3{Z: -6})
		scn.AddObject(scene.Object{
			Name:     fmt.Sprintf("pillar-%d", i),
			Position: math.Vec3{X: pos.X, Y: 1.5, Z: pos.Z},
			Rotation: rot,
			Scale:    math.Vec3{X: 1, Y: 3, Z: 1},
			Color:    c,
			Layer:    scene.DefaultLayer,
		})
	}

	// Far props on their own layer for per-layer cull distances
	for i := 0; i < 8; i++ {
		scn.AddObject(scene.Object{
			Name:     fmt.Sprintf("prop-%d", i),
			Position: math.Vec3{X: float32(i*5 - 17), Y: 0.5, Z: -25},
			Color:    [3]float32{0.6, 0.6, 0.6},
			Layer:    8,
		})
	}

	// A box on the water layer never appears in reflections
	scn.AddObject(scene.Object{
		Name:     "buoy",
		Position: math.Vec3{X: 12, Y: 0.4, Z: 0},
		Scale:    math.Vec3{X: 0.6, Y: 0.6, Z: 0.6},
		Color:    [3]float32{1, 0.5, 0.1},
		Layer:    mirror.WaterLayer,
	})

	scn.Water, err = scene.NewWaterRenderer(math.Vec3{X: 12}, 0.05, 4)
	if err != nil {
		scn.Destroy()
		return nil, err
	}

	return scn, nil
}

// buildMirrors creates a surface and a quad for every configured mirror.
func (d *demo) buildMirrors() error {
	for _, mc := range d.cfg.Mirrors {
		settings, err := mc.Settings()
		if err != nil {
			return err
		}

		quad, err := scene.NewMirrorQuad(mc.Name, mc.Frame(), mc.Size[0], mc.Size[1], settings.TextureParam)
		if err != nil {
			return err
		}
		d.scn.Mirrors = append(d.scn.Mirrors, quad)

		surface, err := mirror.NewSurface(mc.Name, quad.Frame, settings, d.gfx,
			[]mirror.Material{quad.Material()}, logger.Named("mirror"))
		if err != nil {
			return fmt.Errorf("mirror %s: %w", mc.Name, err)
		}
		d.mirrors = append(d.mirrors, &reflector{
			surface: surface,
			quad:    quad,
			enabled: true,
			base:    quad.Frame,
			spin:    math.Radians(mc.Spin),
		})
	}
	return nil
}

// Run executes the main loop until the window is closed or Escape is
// pressed.
func (d *demo) Run() {
	last := time.Now()
	for {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if d.in.Update() {
			return
		}
		if !d.handleInput(dt) {
			return
		}

		d.security.Update(dt)
		d.scn.Update(dt)
		for _, r := range d.mirrors {
			r.animate(dt)
		}

		player := d.player.Viewer(playerViewer, d.lens)
		viewers := []mirror.Viewer{player}
		if d.cfg.Demo.SecondViewer {
			viewers = append(viewers, d.security.Viewer(securityViewer, d.lens))
		}

		d.renderReflections(viewers)

		d.gfx.Begin()
		d.gfx.DrawMain(scene.MainPass(player, mainFarClip))
		d.gfx.End()

		d.win.SwapBuffers()
	}
}

// renderReflections runs every surface for this frame's viewers and
// points each mirror material at the player's layer.
func (d *demo) renderReflections(viewers []mirror.Viewer) {
	for _, r := range d.mirrors {
		stats, err := r.surface.ProcessFrame(viewers)
		if err != nil {
			d.log.Warn("mirror disabled for this session",
				zap.String("mirror", r.surface.Name()),
				zap.Error(err),
			)
		}
		r.stats = stats

		// Publishing leaves _Index at the last viewer's slot; the screen
		// shows the player, so resolve its slot for this draw.
		slot, ok := stats.SlotFor(playerViewer)
		r.quad.Visible = ok
		if ok {
			r.quad.Material().SetFloat(mirror.IndexParam, float32(slot))
		}
	}
}

// handleInput processes key presses and camera movement. It returns
// false when the demo should exit.
func (d *demo) handleInput(dt float32) bool {
	for _, e := range d.in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			dw, dh := d.win.DrawableSize()
			d.gfx.Resize(dw, dh)
			d.lens.Aspect = aspect(dw, dh)
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_F11:
				d.saveScreenshot()
			case sdl.SCANCODE_F12:
				d.saveContactSheets()
			case sdl.SCANCODE_Q:
				d.cycleQuality()
			case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4, sdl.SCANCODE_5:
				d.setQuality(qualityCycle[e.Key-sdl.SCANCODE_1])
			case sdl.SCANCODE_T:
				d.toggleTextureSize()
			case sdl.SCANCODE_M:
				d.toggleMirrors()
			case sdl.SCANCODE_C:
				d.cfg.Demo.SecondViewer = !d.cfg.Demo.SecondViewer
				d.log.Info("security camera toggled", zap.Bool("enabled", d.cfg.Demo.SecondViewer))
			}
		}
	}

	lookX, lookY := d.in.Look()
	d.player.HandleLook(lookX, lookY)
	d.player.HandleMovement(
		d.in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
		d.in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		d.in.Axis(sdl.SCANCODE_LCTRL, sdl.SCANCODE_SPACE),
		dt,
	)
	if dx, dy := d.in.Drag(); dx != 0 || dy != 0 {
		d.security.HandleDrag(dx, dy)
	}
	if wheel := d.in.Wheel(); wheel != 0 {
		d.security.HandleZoom(wheel)
	}
	return true
}

func (d *demo) cycleQuality() {
	if len(d.mirrors) == 0 {
		return
	}
	current := d.mirrors[0].surface.Settings().Quality
	next := qualityCycle[0]
	for i, q := range qualityCycle {
		if q == current {
			next = qualityCycle[(i+1)%len(qualityCycle)]
			break
		}
	}
	d.setQuality(next)
}

func (d *demo) setQuality(q mirror.Quality) {
	d.reconfigure(func(s *mirror.Settings) { s.Quality = q })
	d.log.Info("reflection quality changed",
		zap.Stringer("quality", q),
		zap.Float32("farClip", q.FarClip()),
		zap.Stringer("path", q.RenderPath(mirror.RenderPathForward)),
	)
}

func (d *demo) toggleTextureSize() {
	d.reconfigure(func(s *mirror.Settings) {
		if s.TextureSize < 512 {
			s.TextureSize *= 2
		} else {
			s.TextureSize = 256
		}
	})
}

func (d *demo) reconfigure(edit func(*mirror.Settings)) {
	for _, r := range d.mirrors {
		s := r.surface.Settings()
		edit(&s)
		if err := r.surface.Reconfigure(s); err != nil {
			d.log.Warn("reconfigure failed",
				zap.String("mirror", r.surface.Name()),
				zap.Error(err),
			)
			continue
		}
		d.cfg.SetMirrorSettings(r.surface.Name(), s)
	}
	d.saveConfig()
}

// saveConfig persists the live mirror settings to the user config.
func (d *demo) saveConfig() {
	path, err := d.cfg.Save()
	if err != nil {
		d.log.Warn("config not saved", zap.Error(err))
		return
	}
	d.log.Debug("config saved", zap.String("path", path))
}

func (d *demo) toggleMirrors() {
	for _, r := range d.mirrors {
		r.enabled = !r.enabled
		r.surface.SetEnabled(r.enabled)
		d.log.Info("mirror toggled", zap.String("mirror", r.surface.Name()), zap.Bool("enabled", r.enabled))
	}
}

func (d *demo) saveScreenshot() {
	pixels, w, h := d.gfx.ReadBackbuffer()
	path, err := d.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		d.log.Error("screenshot failed", zap.Error(err))
		return
	}
	d.log.Info("screenshot saved", zap.String("path", path))
}

// saveContactSheets writes every layer of each mirror's reflection array
// side by side, labelled with the viewer that filled it this frame.
func (d *demo) saveContactSheets() {
	for _, r := range d.mirrors {
		arr, ok := r.surface.TextureArray().(*texarray.Array)
		if !ok {
			d.log.Info("no reflections published yet", zap.String("mirror", r.surface.Name()))
			continue
		}

		w, h := arr.Size()
		layers := make([]debug.Layer, 0, arr.Layers())
		for i := 0; i < arr.Layers(); i++ {
			pixels, err := arr.ReadLayer(i)
			if err != nil {
				d.log.Error("read reflection layer", zap.Int("layer", i), zap.Error(err))
				return
			}
			label := fmt.Sprintf("slot %d", i)
			active := false
			for _, v := range r.stats.Visits {
				if v.Slot == i && v.Outcome == mirror.Rendered {
					label = fmt.Sprintf("slot %d: %s", i, v.Viewer)
					active = true
				}
			}
			layers = append(layers, debug.Layer{
				Label:  label,
				Pixels: pixels,
				Width:  int(w),
				Height: int(h),
				Active: active,
			})
		}

		s := r.surface.Settings()
		title := fmt.Sprintf("%s  %dpx  msaa x%d  %s", r.surface.Name(), s.TextureSize, s.AntiAlias, s.Quality)
		path, err := d.shots.SaveContactSheet(title, layers)
		if err != nil {
			d.log.Error("contact sheet failed", zap.Error(err))
			continue
		}
		d.log.Info("contact sheet saved", zap.String("mirror", r.surface.Name()), zap.String("path", path))
	}
}

// Close releases mirrors, scene, renderer and window in reverse order.
func (d *demo) Close() {
	for _, r := range d.mirrors {
		r.surface.Close()
	}
	d.mirrors = nil
	if d.scn != nil {
		d.scn.Destroy()
		d.scn = nil
	}
	if d.gfx != nil {
		d.gfx.Close()
		d.gfx = nil
	}
	if d.win != nil {
		d.win.Close()
		d.win = nil
	}
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
