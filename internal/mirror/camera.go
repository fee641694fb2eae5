package mirror

import "github.com/Faultbox/midgard-mirror/pkg/math"

// Viewer is a camera that can see a surface this frame. It is read-only
// input; the surface never keeps it.
type Viewer struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	FOV      float32 // vertical, radians
	Aspect   float32
	Near     float32
	Path     RenderPath
}

// View returns the viewer's world-to-view matrix.
func (v Viewer) View() math.Mat4 {
	return math.RigidInverse(v.Rotation, v.Position)
}

// Projection returns the viewer's perspective projection with the given
// far plane.
func (v Viewer) Projection(far float32) math.Mat4 {
	return math.Perspective(v.FOV, v.Aspect, v.Near, far)
}

// ReflectionCamera is the scratch camera used for one reflected render.
// It is rebuilt per viewer and handed to the host by value.
type ReflectionCamera struct {
	Pose

	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	// View is the viewer's view matrix composed with the reflection.
	View math.Mat4
	// Projection has its near plane on ClipPlane.
	Projection math.Mat4
	// ClipPlane is the mirror plane in reflected camera space.
	ClipPlane math.Vec4

	CullingMask        uint32
	LayerCullDistances [LayerCount]float32
	LayerCullSpherical bool
	Path               RenderPath
}

// ViewProjection returns Projection * View.
func (c ReflectionCamera) ViewProjection() math.Mat4 {
	return c.Projection.Mul(c.View)
}

// BuildReflectionCamera derives the mirrored camera for one viewer. It
// reports false when the viewer is behind the mirror.
func BuildReflectionCamera(frame Frame, viewer Viewer, s Settings) (ReflectionCamera, bool) {
	pose, ok := MirrorPose(frame, viewer.Position, viewer.Rotation)
	if !ok {
		return ReflectionCamera{}, false
	}

	normal := frame.Normal()
	plane := Plane{Normal: normal, D: -normal.Dot(frame.Position) - s.ClipPlaneOffset}

	view := viewer.View().Mul(ReflectionMatrix(plane))
	clip := CameraSpacePlane(view, frame.Position, normal, s.ClipPlaneOffset)
	far := s.Quality.FarClip()

	return ReflectionCamera{
		Pose:               pose,
		FOV:                viewer.FOV,
		Aspect:             viewer.Aspect,
		Near:               viewer.Near,
		Far:                far,
		View:               view,
		Projection:         ObliqueProjection(viewer.Projection(far), clip),
		ClipPlane:          clip,
		CullingMask:        s.CullingMask(),
		LayerCullDistances: s.cullDistances(),
		LayerCullSpherical: s.EnableLayerCulling,
		Path:               s.Quality.RenderPath(viewer.Path),
	}, true
}
