package game

import "math"

// Vec3 is a 3D vector in world units. Y is up; the pitch is the XZ plane.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Common directions
var (
	Zero3 = Vec3{}
	Up    = Vec3{0, 1, 0}
	Down  = Vec3{0, -1, 0}
	One3  = Vec3{1, 1, 1}
)

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector, or zero for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Zero3
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 { return Vec3{v.X, 0, v.Z} }

// WithY returns v with its vertical component replaced.
func (v Vec3) WithY(y float64) Vec3 { return Vec3{v.X, y, v.Z} }

// ClampLen scales v down so its length does not exceed max.
func (v Vec3) ClampLen(max float64) Vec3 {
	l := v.Len()
	if l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Vec2 is an analog input vector (x = right, y = forward).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rotate turns v counter-clockwise by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	r := deg * math.Pi / 180
	s, c := math.Sincos(r)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Pose is position, Euler rotation (degrees) and scale.
type Pose struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// Forward is the unit facing vector for a yaw in degrees.
// Yaw 0 faces +Z, yaw 90 faces +X.
func Forward(yaw float64) Vec3 {
	s, c := math.Sincos(yaw * math.Pi / 180)
	return Vec3{s, 0, c}
}

// headingYaw converts an input vector to the yaw that faces it.
func headingYaw(in Vec2) float64 {
	return 90 - math.Atan2(in.Y, in.X)*180/math.Pi
}

// rotateTowards moves yaw from toward target by at most maxDelta degrees,
// taking the short way around.
func rotateTowards(from, target, maxDelta float64) float64 {
	delta := math.Mod(target-from, 360)
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	if maxDelta < 0 {
		maxDelta = 0
	}
	if math.Abs(delta) <= maxDelta {
		return normalizeYaw(from + delta)
	}
	if delta > 0 {
		return normalizeYaw(from + maxDelta)
	}
	return normalizeYaw(from - maxDelta)
}

func normalizeYaw(y float64) float64 {
	y = math.Mod(y, 360)
	if y < 0 {
		y += 360
	}
	return y
}

// Color is a linear RGB tint.
type Color struct {
	R float64 `json:"r" msgpack:"r"`
	G float64 `json:"g" msgpack:"g"`
	B float64 `json:"b" msgpack:"b"`
}

// White is the default tint.
var White = Color{1, 1, 1}

// Darken multiplies each channel by f.
func (c Color) Darken(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f}
}
