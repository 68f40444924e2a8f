package celestial

import "math"

// Vector3 is a three-component Cartesian vector. All methods use value
// semantics and never mutate the receiver.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector3) MagnitudeSquared() float64 {
	return v.Dot(v)
}

// Normalized returns the unit vector in the direction of v. The zero
// vector normalizes to itself.
func (v Vector3) Normalized() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return Vector3{}
	}
	return v.Scale(1 / m)
}

func (v Vector3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
