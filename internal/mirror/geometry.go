package mirror

import "github.com/Faultbox/midgard-mirror/pkg/math"

// Plane is n·x + D = 0 with a unit normal.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// PlaneFromPointNormal builds the plane through point with the given
// normal. The normal is normalized.
func PlaneFromPointNormal(point, normal math.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Vec4 returns the plane as (nx, ny, nz, d).
func (p Plane) Vec4() math.Vec4 {
	return p.Normal.Vec4(p.D)
}

// SignedDistance returns the distance of point above the plane.
func (p Plane) SignedDistance(point math.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// ReflectionMatrix returns the affine transform mirroring points across
// the plane: M[i][j] = δij − 2·n_i·n_j and M[i][3] = −2·d·n_i.
func ReflectionMatrix(p Plane) math.Mat4 {
	n := [3]float32{p.Normal.X, p.Normal.Y, p.Normal.Z}

	m := math.Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, m.At(i, j)-2*n[i]*n[j])
		}
		m.Set(i, 3, -2*p.D*n[i])
	}
	return m
}

// CameraSpacePlane transforms the plane through point (pushed offset
// units along normal) into the space of view. The result is
// (n', −dot(p', n')) with n' renormalized.
func CameraSpacePlane(view math.Mat4, point, normal math.Vec3, offset float32) math.Vec4 {
	offsetPos := point.Add(normal.Scale(offset))
	cpos := view.TransformPoint(offsetPos)
	cnormal := view.TransformDirection(normal).Normalize()
	return cnormal.Vec4(-cpos.Dot(cnormal))
}

// ObliqueProjection bends the near plane of proj onto clipPlane, given in
// camera space with the camera on its negative side. Afterwards
// row 3 + row 2 of the result is a positive multiple of clipPlane.
func ObliqueProjection(proj math.Mat4, clipPlane math.Vec4) math.Mat4 {
	corner := math.Vec4{math.Sign(clipPlane[0]), math.Sign(clipPlane[1]), 1, 1}
	q := proj.Inverse().MulVec4(corner)
	c := clipPlane.Scale(2 / clipPlane.Dot(q))

	out := proj
	out.SetRow(2, c.Sub(proj.Row(3)))
	return out
}

// Frame is the position and orientation of a reflective surface. The
// mirror normal is the frame's local +Y.
type Frame struct {
	Position math.Vec3
	Rotation math.Quat
}

// Normalized returns f with a unit rotation. ToLocal inverts the
// rotation by conjugation, which only holds for unit quaternions. A zero
// rotation becomes the identity.
func (f Frame) Normalized() Frame {
	f.Rotation = f.Rotation.Normalize()
	return f
}

// Normal returns the world-space mirror normal.
func (f Frame) Normal() math.Vec3 {
	return f.Rotation.Rotate(math.Up).Normalize()
}

// ToLocal transforms a world point into the frame.
func (f Frame) ToLocal(p math.Vec3) math.Vec3 {
	return f.Rotation.Conjugate().Rotate(p.Sub(f.Position))
}

// ToWorld transforms a local point out of the frame.
func (f Frame) ToWorld(p math.Vec3) math.Vec3 {
	return f.Position.Add(f.Rotation.Rotate(p))
}

// Pose is a camera placement in the surface frame and in world space.
type Pose struct {
	LocalPosition math.Vec3
	LocalRotation math.Euler
	Position      math.Vec3
	Rotation      math.Quat
}

// MirrorPose mirrors the viewer's placement across the frame's XZ plane.
// It reports false when the viewer is below the plane, in which case the
// surface is seen from behind and nothing should be rendered.
func MirrorPose(frame Frame, viewerPos math.Vec3, viewerRot math.Quat) (Pose, bool) {
	local := frame.ToLocal(viewerPos)
	if local.Y < 0 {
		return Pose{}, false
	}
	local.Y = -local.Y

	// Negating pitch and roll of a YXZ rotation is the same as
	// conjugating it by the Y flip, so the result stays a proper rotation.
	euler := frame.Rotation.Conjugate().Mul(viewerRot).Euler()
	euler.Pitch = -euler.Pitch
	euler.Roll = -euler.Roll

	return Pose{
		LocalPosition: local,
		LocalRotation: euler,
		Position:      frame.ToWorld(local),
		Rotation:      frame.Rotation.Mul(math.QuatFromEuler(euler)).Normalize(),
	}, true
}
