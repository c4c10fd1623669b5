package math

import "github.com/go-gl/mathgl/mgl32"

// Euler is a rotation in radians applied in X, then Y, then Z order
// (intrinsic XYZ, so the matrix is Rx * Ry * Rz).
type Euler struct {
	X, Y, Z float32
}

// Lerp interpolates each axis independently.
func (e Euler) Lerp(to Euler, t float32) Euler {
	return Euler{
		X: Lerp(e.X, to.X, t),
		Y: Lerp(e.Y, to.Y, t),
		Z: Lerp(e.Z, to.Z, t),
	}
}

// Mat4 returns the rotation matrix.
func (e Euler) Mat4() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(e.X).
		Mul4(mgl32.HomogRotate3DY(e.Y)).
		Mul4(mgl32.HomogRotate3DZ(e.Z))
}

// LerpVec3 interpolates between a and b by t.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Compose builds a translation * rotation * scale matrix.
func Compose(position mgl32.Vec3, rotation Euler, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(rotation.Mat4()).Mul4(s)
}
