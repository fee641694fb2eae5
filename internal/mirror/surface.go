package mirror

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Outcome is what happened to one viewer in a frame.
type Outcome int

const (
	Rendered Outcome = iota
	SkippedDisabled
	SkippedDistance
	SkippedBehind
	Dropped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case SkippedDisabled:
		return "disabled"
	case SkippedDistance:
		return "distance"
	case SkippedBehind:
		return "behind"
	case Dropped:
		return "dropped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Visit is the result of processing one viewer. Slot is -1 unless the
// viewer was assigned one.
type Visit struct {
	Viewer  string
	Outcome Outcome
	Slot    int
	Camera  ReflectionCamera
}

// FrameStats summarizes ProcessFrame.
type FrameStats struct {
	Visits   []Visit
	Rendered int
	Skipped  int
	Dropped  int
	Failed   int
}

func (fs *FrameStats) add(v Visit) {
	fs.Visits = append(fs.Visits, v)
	switch v.Outcome {
	case Rendered:
		fs.Rendered++
	case Dropped:
		fs.Dropped++
	case Failed:
		fs.Failed++
	default:
		fs.Skipped++
	}
}

// SlotFor returns the slot assigned to the named viewer this frame.
func (fs FrameStats) SlotFor(viewer string) (int, bool) {
	for _, v := range fs.Visits {
		if v.Viewer == viewer && v.Outcome == Rendered {
			return v.Slot, true
		}
	}
	return -1, false
}

// Surface is one reflective plane and its reflection resources. All
// methods are safe for concurrent use; a single mutex covers the frame
// state, slots and texture array.
type Surface struct {
	mu sync.Mutex

	name     string
	frame    Frame
	settings Settings
	host     Renderer
	slots    *SlotManager
	log      *zap.Logger

	enabled bool
	failure error
}

// NewSurface validates the configuration and builds a surface. A nil
// host or an empty material list is ErrMisconfigured.
func NewSurface(name string, frame Frame, settings Settings, host Renderer, materials []Material, log *zap.Logger) (*Surface, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: %s has no renderer", ErrMisconfigured, name)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("surface %s: %w", name, err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	slots := NewSlotManager(name, host, materials, settings.TextureParam, settings.TextureSize, settings.AntiAlias)
	if len(slots.Materials()) == 0 {
		return nil, fmt.Errorf("%w: %s has no materials", ErrMisconfigured, name)
	}

	s := &Surface{
		name:     name,
		frame:    frame.Normalized(),
		settings: settings,
		host:     host,
		slots:    slots,
		log:      log.With(zap.String("surface", name)),
		enabled:  true,
	}

	s.log.Info("mirror surface created",
		zap.Int("textureSize", settings.TextureSize),
		zap.Int("msaa", int(settings.AntiAlias)),
		zap.Stringer("quality", settings.Quality),
		zap.Float32("farClip", settings.Quality.FarClip()),
		zap.Int("materials", len(slots.Materials())),
	)
	return s, nil
}

// Name returns the surface name.
func (s *Surface) Name() string {
	return s.name
}

// Settings returns the current settings.
func (s *Surface) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Frame returns the current surface placement.
func (s *Surface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetFrame moves the surface. The rotation is normalized.
func (s *Surface) SetFrame(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f.Normalized()
}

// SetEnabled toggles reflection rendering, e.g. when the surface's mesh
// renderer is hidden.
func (s *Surface) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Failure returns the resource error that disabled the surface, if any.
func (s *Surface) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// TextureArray returns the shared reflection array, or nil before the
// first reflection was published.
func (s *Surface) TextureArray() TextureArray {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.Array()
}

// Reconfigure applies new settings. A change of texture size or
// anti-aliasing releases every target and the array; they are re-created
// at the new size on the next render. Reconfiguring also clears a
// previous resource failure.
func (s *Surface) Reconfigure(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("surface %s: %w", s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.TextureSize != s.settings.TextureSize || settings.AntiAlias != s.settings.AntiAlias {
		s.slots.Reconfigure(settings.TextureSize, settings.AntiAlias)
		s.log.Info("mirror targets reallocated",
			zap.Int("textureSize", settings.TextureSize),
			zap.Int("msaa", int(settings.AntiAlias)),
		)
	}
	s.slots.SetTextureParam(settings.TextureParam)
	s.settings = settings
	s.failure = nil
	return nil
}

// BeginFrame must be called once per frame before any Visit.
func (s *Surface) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots.BeginFrame()
}

// Visit processes one viewer that can see the surface. The returned error
// is non-nil only for a resource failure, which also disables the surface.
func (s *Surface) Visit(viewer Viewer) (Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visit(viewer)
}

// ProcessFrame runs BeginFrame and then Visit for each viewer in order.
// Visits has one entry per viewer. After a resource failure the surface
// is disabled, so the remaining viewers are recorded as SkippedDisabled
// and the failure is returned.
func (s *Surface) ProcessFrame(viewers []Viewer) (FrameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots.BeginFrame()

	var (
		stats    FrameStats
		firstErr error
	)
	for _, v := range viewers {
		visit, err := s.visit(v)
		stats.add(visit)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return stats, firstErr
}

func (s *Surface) visit(viewer Viewer) (Visit, error) {
	visit := Visit{Viewer: viewer.Name, Slot: -1}

	if !s.enabled || s.failure != nil {
		visit.Outcome = SkippedDisabled
		return visit, nil
	}

	if viewer.Position.DistanceSquared(s.frame.Position) > s.settings.maxDistanceSquared() {
		visit.Outcome = SkippedDistance
		return visit, nil
	}

	camera, ok := BuildReflectionCamera(s.frame, viewer, s.settings)
	if !ok {
		visit.Outcome = SkippedBehind
		return visit, nil
	}

	slot, ok, err := s.slots.RequestSlot()
	if err != nil {
		return s.fail(visit, err)
	}
	if !ok {
		visit.Outcome = Dropped
		return visit, nil
	}
	visit.Slot = slot.Index
	visit.Camera = camera

	req := RenderRequest{
		Surface:       s.name,
		Viewer:        viewer.Name,
		Slot:          slot.Index,
		Camera:        camera,
		InvertWinding: true,
	}
	if err := s.host.Render(req, slot.Target); err != nil {
		s.log.Warn("reflection render failed",
			zap.String("viewer", viewer.Name),
			zap.Int("slot", slot.Index),
			zap.Error(err),
		)
		visit.Outcome = Failed
		return visit, nil
	}

	if err := s.slots.Publish(slot); err != nil {
		if errors.Is(err, ErrResourceFailure) {
			return s.fail(visit, err)
		}
		s.log.Warn("reflection publish failed",
			zap.String("viewer", viewer.Name),
			zap.Int("slot", slot.Index),
			zap.Error(err),
		)
		visit.Outcome = Failed
		return visit, nil
	}

	visit.Outcome = Rendered
	return visit, nil
}

func (s *Surface) fail(visit Visit, err error) (Visit, error) {
	s.failure = err
	s.log.Error("mirror surface disabled", zap.Error(err))
	visit.Outcome = Failed
	return visit, fmt.Errorf("surface %s: %w", s.name, err)
}

// Close releases all reflection resources.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots.Release()
	s.enabled = false
	s.log.Debug("mirror surface closed")
}
