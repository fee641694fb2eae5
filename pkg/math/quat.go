package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// Euler holds rotation angles in radians. Rotations compose as
// yaw(Y) * pitch(X) * roll(Z): roll is applied first, yaw last.
type Euler struct {
	Pitch float32 // about X
	Yaw   float32 // about Y
	Roll  float32 // about Z
}

// EulerDegrees builds an Euler from angles in degrees.
func EulerDegrees(pitch, yaw, roll float32) Euler {
	return Euler{Pitch: Radians(pitch), Yaw: Radians(yaw), Roll: Radians(roll)}
}

// QuatFromEuler converts YXZ Euler angles to a quaternion.
func QuatFromEuler(e Euler) Quat {
	qy := QuatFromAxisAngle(Vec3{Y: 1}, e.Yaw)
	qx := QuatFromAxisAngle(Vec3{X: 1}, e.Pitch)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, e.Roll)
	return qy.Mul(qx).Mul(qz)
}

// Euler decomposes the rotation into YXZ Euler angles. Near the poles
// (pitch of ±90°) roll is folded into yaw.
func (q Quat) Euler() Euler {
	m := q.ToMat4()

	sinPitch := -m.At(1, 2)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch := float32(math.Asin(float64(sinPitch)))

	// Within about 0.8 degrees of straight up or down yaw and roll are
	// not separable; roll is reported as zero and folded into yaw. The
	// result still rebuilds the same rotation to within that tolerance.
	if abs32(sinPitch) > 0.9999 {
		yaw := float32(math.Atan2(float64(-m.At(2, 0)), float64(m.At(0, 0))))
		return Euler{Pitch: pitch, Yaw: yaw}
	}

	yaw := float32(math.Atan2(float64(m.At(0, 2)), float64(m.At(2, 2))))
	roll := float32(math.Atan2(float64(m.At(1, 0)), float64(m.At(1, 1))))
	return Euler{Pitch: pitch, Yaw: yaw, Roll: roll}
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul multiplies two quaternions (combines rotations, other applied first).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Forward returns the direction a camera with this orientation looks
// along (-Z in camera space).
func (q Quat) Forward() Vec3 {
	return q.Rotate(Vec3{Z: -1})
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
